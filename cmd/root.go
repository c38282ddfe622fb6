package cmd

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "infographedia",
	Short: "Infographedia - AI-generated infographic DNA",
	Long:  `Infographedia generates structured infographic documents (DNA) from natural-language prompts, grounded in web search results.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the app config YAML")
}

func Execute() error {
	return rootCmd.Execute()
}
