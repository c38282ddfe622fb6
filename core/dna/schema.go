// Package dna defines the infographic DNA document and its structural
// contract. A DNA document carries two strictly separated layers: content
// (what the data says) and presentation (how it is rendered).
package dna

// =============================================================================
// Enumerations
// =============================================================================

// ChartType identifies the chart a DNA document renders as.
type ChartType string

const (
	ChartBar        ChartType = "bar-chart"
	ChartPie        ChartType = "pie-chart"
	ChartLine       ChartType = "line-chart"
	ChartArea       ChartType = "area-chart"
	ChartTimeline   ChartType = "timeline"
	ChartStatCard   ChartType = "stat-card"
	ChartGroupedBar ChartType = "grouped-bar-chart"
	ChartDonut      ChartType = "donut-chart"
)

// AllChartTypes lists every supported chart type, in display order.
var AllChartTypes = []ChartType{
	ChartBar,
	ChartPie,
	ChartLine,
	ChartArea,
	ChartTimeline,
	ChartStatCard,
	ChartGroupedBar,
	ChartDonut,
}

// Theme identifies one of the named color schemes.
type Theme string

const (
	ThemeGlassDark     Theme = "glass-dark"
	ThemeGlassLight    Theme = "glass-light"
	ThemeNeonCyberpunk Theme = "neon-cyberpunk"
	ThemeMinimalist    Theme = "minimalist"
	ThemeEditorial     Theme = "editorial"
	ThemeWarmEarth     Theme = "warm-earth"
	ThemeOceanDepth    Theme = "ocean-depth"
)

// AllThemes lists every supported theme.
var AllThemes = []Theme{
	ThemeGlassDark,
	ThemeGlassLight,
	ThemeNeonCyberpunk,
	ThemeMinimalist,
	ThemeEditorial,
	ThemeWarmEarth,
	ThemeOceanDepth,
}

// Layout identifies the overall arrangement of rendered blocks.
type Layout string

const (
	LayoutCentered    Layout = "centered"
	LayoutLeftAligned Layout = "left-aligned"
	LayoutSplit       Layout = "split"
	LayoutStacked     Layout = "stacked"
)

// AllLayouts lists every supported layout.
var AllLayouts = []Layout{
	LayoutCentered,
	LayoutLeftAligned,
	LayoutSplit,
	LayoutStacked,
}

// ChartTypeNames returns the chart type enum as plain strings.
func ChartTypeNames() []string {
	names := make([]string, len(AllChartTypes))
	for i, c := range AllChartTypes {
		names[i] = string(c)
	}
	return names
}

// ThemeNames returns the theme enum as plain strings.
func ThemeNames() []string {
	names := make([]string, len(AllThemes))
	for i, t := range AllThemes {
		names[i] = string(t)
	}
	return names
}

// =============================================================================
// Content layer: WHAT the data says
// =============================================================================

// DataPoint is a single labeled value in the data series. Metadata carries
// sub-grouping hints, e.g. grouped-bar series membership under the "group"
// key.
type DataPoint struct {
	Label    string            `json:"label" validate:"required"`
	Value    *float64          `json:"value" validate:"required"`
	Unit     string            `json:"unit,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Source is a citation backing the document's data. Every DNA document must
// cite at least one.
type Source struct {
	Name       string `json:"name" validate:"required,min=1"`
	URL        string `json:"url" validate:"required,url"`
	AccessedAt string `json:"accessedAt" validate:"required,min=1"`
}

// Content is the factual layer of a DNA document.
type Content struct {
	Title     string      `json:"title" validate:"required,min=1,max=120"`
	Subtitle  string      `json:"subtitle,omitempty" validate:"omitempty,max=200"`
	Hook      string      `json:"hook,omitempty" validate:"omitempty,max=100"`
	Data      []DataPoint `json:"data" validate:"required,min=1,dive"`
	Sources   []Source    `json:"sources" validate:"required,min=1,dive"`
	Footnotes string      `json:"footnotes,omitempty" validate:"omitempty,max=500"`
}

// =============================================================================
// Presentation layer: HOW it looks
// =============================================================================

// Colors holds the document palette. All values are 6-digit hex with a
// leading "#".
type Colors struct {
	Primary    string `json:"primary" validate:"required,hexcolor6"`
	Secondary  string `json:"secondary,omitempty" validate:"omitempty,hexcolor6"`
	Background string `json:"background" validate:"required,hexcolor6"`
	Text       string `json:"text" validate:"required,hexcolor6"`
	Accent     string `json:"accent,omitempty" validate:"omitempty,hexcolor6"`
}

// ComponentSlot names one block in render order, with optional key hints for
// the renderer.
type ComponentSlot struct {
	Type     string `json:"type" validate:"required,min=1"`
	DataKey  string `json:"dataKey,omitempty"`
	LabelKey string `json:"labelKey,omitempty"`
}

// Presentation is the visual layer of a DNA document.
type Presentation struct {
	Theme      Theme           `json:"theme" validate:"required,oneof=glass-dark glass-light neon-cyberpunk minimalist editorial warm-earth ocean-depth"`
	ChartType  ChartType       `json:"chartType" validate:"required,oneof=bar-chart pie-chart line-chart area-chart timeline stat-card grouped-bar-chart donut-chart"`
	Layout     Layout          `json:"layout" validate:"required,oneof=centered left-aligned split stacked"`
	Colors     Colors          `json:"colors"`
	Components []ComponentSlot `json:"components" validate:"required,min=1,dive"`
}

// =============================================================================
// DNA
// =============================================================================

// DNA is the complete infographic document, the pipeline's sole output
// artifact.
type DNA struct {
	Content      Content      `json:"content"`
	Presentation Presentation `json:"presentation"`
}

// Number returns a pointer suitable for DataPoint.Value.
func Number(f float64) *float64 {
	return &f
}
