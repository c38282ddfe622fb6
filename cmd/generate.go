// This file implements the generate command: one-shot generation from the
// command line, printing the DNA JSON to stdout.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Kesaramb/infographedia/core/dna"
)

var generateParentPath string

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Generate infographic DNA from a prompt",
	Long: `Generate infographic DNA from a natural-language prompt.

Examples:
  infographedia generate "Top 5 most populated countries in 2026"
  infographedia generate --parent parent.json "make it neon-cyberpunk themed"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&generateParentPath, "parent", "p", "", "Path to a parent DNA JSON file to iterate on")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := LoadAppConfig(configPath)
	if err != nil {
		return err
	}

	var parent *dna.DNA
	if generateParentPath != "" {
		data, err := os.ReadFile(generateParentPath)
		if err != nil {
			return fmt.Errorf("parent dna: %w", err)
		}
		var doc dna.DNA
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parent dna: %w", err)
		}
		if violations := dna.Validate(&doc); len(violations) > 0 {
			return fmt.Errorf("parent dna: %s", violations[0])
		}
		parent = &doc
	}

	stop := make(chan struct{})
	defer close(stop)

	generator, err := buildGenerator(cfg, stop, logger)
	if err != nil {
		return err
	}

	result, err := generator.Generate(cmd.Context(), strings.Join(args, " "), parent)
	if err != nil {
		return err
	}

	for _, q := range result.SearchQueries {
		fmt.Fprintf(os.Stderr, "searched: %s\n", q)
	}

	out, err := json.MarshalIndent(result.DNA, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
