package dna

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDoc() *DNA {
	return &DNA{
		Content: Content{
			Title:    "Renewable Energy Capacity by Country",
			Subtitle: "Installed capacity in gigawatts, 2025",
			Data: []DataPoint{
				{Label: "China", Value: Number(1453), Unit: "GW"},
				{Label: "United States", Value: Number(412), Unit: "GW"},
			},
			Sources: []Source{
				{Name: "IRENA", URL: "https://www.irena.org/statistics", AccessedAt: "2026-01-15"},
			},
		},
		Presentation: Presentation{
			Theme:     ThemeGlassDark,
			ChartType: ChartBar,
			Layout:    LayoutCentered,
			Colors: Colors{
				Primary:    "#00d4ff",
				Background: "#0a0a0f",
				Text:       "#e0e0e0",
			},
			Components: []ComponentSlot{
				{Type: "title"},
				{Type: "bar-chart", DataKey: "value", LabelKey: "label"},
				{Type: "source-badge"},
			},
		},
	}
}

func TestValidateAcceptsCompleteDocument(t *testing.T) {
	assert.Empty(t, Validate(validDoc()))
}

func TestValidateNilDocument(t *testing.T) {
	violations := Validate(nil)
	require.Len(t, violations, 1)
	assert.Equal(t, "document is missing", violations[0].Reason)
}

func TestValidateRejectsMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*DNA)
		path   string
	}{
		{
			name:   "empty title",
			mutate: func(d *DNA) { d.Content.Title = "" },
			path:   "content.title",
		},
		{
			name:   "no data points",
			mutate: func(d *DNA) { d.Content.Data = nil },
			path:   "content.data",
		},
		{
			name:   "no sources",
			mutate: func(d *DNA) { d.Content.Sources = nil },
			path:   "content.sources",
		},
		{
			name:   "data point without value",
			mutate: func(d *DNA) { d.Content.Data[0].Value = nil },
			path:   "content.data[0].value",
		},
		{
			name:   "data point without label",
			mutate: func(d *DNA) { d.Content.Data[1].Label = "" },
			path:   "content.data[1].label",
		},
		{
			name:   "source without url",
			mutate: func(d *DNA) { d.Content.Sources[0].URL = "" },
			path:   "content.sources[0].url",
		},
		{
			name:   "source with malformed url",
			mutate: func(d *DNA) { d.Content.Sources[0].URL = "not a url" },
			path:   "content.sources[0].url",
		},
		{
			name:   "missing theme",
			mutate: func(d *DNA) { d.Presentation.Theme = "" },
			path:   "presentation.theme",
		},
		{
			name:   "unknown chart type",
			mutate: func(d *DNA) { d.Presentation.ChartType = "scatter-plot" },
			path:   "presentation.chartType",
		},
		{
			name:   "unknown layout",
			mutate: func(d *DNA) { d.Presentation.Layout = "diagonal" },
			path:   "presentation.layout",
		},
		{
			name:   "no components",
			mutate: func(d *DNA) { d.Presentation.Components = nil },
			path:   "presentation.components",
		},
		{
			name:   "component without type",
			mutate: func(d *DNA) { d.Presentation.Components[0].Type = "" },
			path:   "presentation.components[0].type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDoc()
			tt.mutate(doc)

			violations := Validate(doc)
			require.NotEmpty(t, violations)

			paths := make([]string, len(violations))
			for i, v := range violations {
				paths[i] = v.Path
			}
			assert.Contains(t, paths, tt.path)
		})
	}
}

func TestValidateZeroValueIsLegitimate(t *testing.T) {
	doc := validDoc()
	doc.Content.Data[0].Value = Number(0)
	assert.Empty(t, Validate(doc))
}

func TestValidateHexColors(t *testing.T) {
	tests := []struct {
		color string
		valid bool
	}{
		{"#1a1a2e", true},
		{"#FFFFFF", true},
		{"#00d4ff", true},
		{"1a1a2e", false},
		{"#1a1a2", false},
		{"#1a1a2e0", false},
		{"#GGGGGG", false},
		{"#abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.color, func(t *testing.T) {
			doc := validDoc()
			doc.Presentation.Colors.Primary = tt.color

			violations := Validate(doc)
			if tt.valid {
				assert.Empty(t, violations)
			} else {
				require.Len(t, violations, 1)
				assert.Equal(t, "presentation.colors.primary", violations[0].Path)
				assert.Contains(t, violations[0].Reason, "6-digit hex color")
			}
		})
	}
}

func TestValidateOptionalColorsMayBeOmitted(t *testing.T) {
	doc := validDoc()
	doc.Presentation.Colors.Secondary = ""
	doc.Presentation.Colors.Accent = ""
	assert.Empty(t, Validate(doc))

	doc.Presentation.Colors.Accent = "bad"
	violations := Validate(doc)
	require.Len(t, violations, 1)
	assert.Equal(t, "presentation.colors.accent", violations[0].Path)
}

func TestValidateLengthBounds(t *testing.T) {
	long := func(n int) string {
		b := make([]byte, n)
		for i := range b {
			b[i] = 'x'
		}
		return string(b)
	}

	doc := validDoc()
	doc.Content.Title = long(121)
	doc.Content.Subtitle = long(201)
	doc.Content.Hook = long(101)
	doc.Content.Footnotes = long(501)

	violations := Validate(doc)
	require.Len(t, violations, 4)

	paths := make([]string, len(violations))
	for i, v := range violations {
		paths[i] = v.Path
	}
	assert.ElementsMatch(t, []string{"content.title", "content.subtitle", "content.hook", "content.footnotes"}, paths)
}

func TestValidateReportsAllViolations(t *testing.T) {
	doc := validDoc()
	doc.Content.Title = ""
	doc.Content.Sources = nil
	doc.Presentation.Colors.Text = "nope"

	violations := Validate(doc)
	assert.Len(t, violations, 3)
}

func TestJSONRoundTrip(t *testing.T) {
	doc := validDoc()
	doc.Content.Data[0].Metadata = map[string]string{"group": "2025"}

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var decoded DNA
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, doc, &decoded)
	assert.Empty(t, Validate(&decoded))
}
