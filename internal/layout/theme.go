package layout

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Theme holds page geometry, vertical rhythm, type sizes, colours and the
// behaviour toggles of the engine.
type Theme struct {
	PageWidth    float64 `yaml:"page_width"`
	PageHeight   float64 `yaml:"page_height"`
	Margin       float64 `yaml:"margin"`
	TopMargin    float64 `yaml:"top_margin"`
	BottomMargin float64 `yaml:"bottom_margin"`

	TitleBandHeight   float64 `yaml:"title_band_height"`
	TitleGap          float64 `yaml:"title_gap"`
	SectionBandHeight float64 `yaml:"section_band_height"`
	SectionAdvance    float64 `yaml:"section_advance"`
	LineHeight        float64 `yaml:"line_height"`
	ItemGap           float64 `yaml:"item_gap"`
	PageLabelOffset   float64 `yaml:"page_label_offset"`

	TitleFontSize   float64 `yaml:"title_font_size"`
	SectionFontSize float64 `yaml:"section_font_size"`
	ItemFontSize    float64 `yaml:"item_font_size"`
	BodyFontSize    float64 `yaml:"body_font_size"`
	MaxLineChars    int     `yaml:"max_line_chars"`

	BandColor        Color `yaml:"band_color"`
	TitleColor       Color `yaml:"title_color"`
	SectionTextColor Color `yaml:"section_text_color"`
	TextColor        Color `yaml:"text_color"`

	// Paginate starts a new page when a line would cross the bottom margin.
	// When off, y keeps growing and the renderer clips.
	Paginate bool `yaml:"paginate"`
	// LegacyTemplate reproduces the old template output: a placeholder Work
	// Experience block whenever education is present, and project titles
	// repeated as "Company" and "Project Title".
	LegacyTemplate bool `yaml:"legacy_template"`
}

// DefaultTheme returns an A4 portrait theme.
func DefaultTheme() Theme {
	return Theme{
		PageWidth:    595.28,
		PageHeight:   841.89,
		Margin:       40,
		TopMargin:    40,
		BottomMargin: 50,

		TitleBandHeight:   60,
		TitleGap:          20,
		SectionBandHeight: 20,
		SectionAdvance:    30,
		LineHeight:        15,
		ItemGap:           5,
		PageLabelOffset:   30,

		TitleFontSize:   24,
		SectionFontSize: 14,
		ItemFontSize:    12,
		BodyFontSize:    10,
		MaxLineChars:    95,

		BandColor:        Color{R: 0x1F, G: 0x3A, B: 0x5F},
		TitleColor:       Color{R: 0xFF, G: 0xFF, B: 0xFF},
		SectionTextColor: Color{R: 0xFF, G: 0xFF, B: 0xFF},
		TextColor:        Color{R: 0x22, G: 0x22, B: 0x22},

		Paginate: true,
	}
}

// LoadTheme reads a YAML theme file on top of DefaultTheme. Keys missing from
// the file keep their default values.
func LoadTheme(path string) (Theme, error) {
	theme := DefaultTheme()
	b, err := os.ReadFile(path)
	if err != nil {
		return theme, fmt.Errorf("failed to read theme file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &theme); err != nil {
		return theme, fmt.Errorf("failed to parse theme file %s: %w", path, err)
	}
	theme.normalize()
	return theme, nil
}

// normalize replaces non-positive geometry with defaults.
func (t *Theme) normalize() {
	def := DefaultTheme()
	fix := func(v *float64, d float64) {
		if *v <= 0 {
			*v = d
		}
	}
	fix(&t.PageWidth, def.PageWidth)
	fix(&t.PageHeight, def.PageHeight)
	fix(&t.Margin, def.Margin)
	fix(&t.TopMargin, def.TopMargin)
	fix(&t.BottomMargin, def.BottomMargin)
	fix(&t.TitleBandHeight, def.TitleBandHeight)
	fix(&t.SectionBandHeight, def.SectionBandHeight)
	fix(&t.SectionAdvance, def.SectionAdvance)
	fix(&t.LineHeight, def.LineHeight)
	fix(&t.PageLabelOffset, def.PageLabelOffset)
	fix(&t.TitleFontSize, def.TitleFontSize)
	fix(&t.SectionFontSize, def.SectionFontSize)
	fix(&t.ItemFontSize, def.ItemFontSize)
	fix(&t.BodyFontSize, def.BodyFontSize)
	if t.TitleGap < 0 {
		t.TitleGap = def.TitleGap
	}
	if t.ItemGap < 0 {
		t.ItemGap = def.ItemGap
	}
	if t.MaxLineChars < 10 {
		t.MaxLineChars = def.MaxLineChars
	}
	if t.BottomMargin >= t.PageHeight/2 {
		t.BottomMargin = def.BottomMargin
	}
}

func (t *Theme) contentWidth() float64 {
	return t.PageWidth - 2*t.Margin
}
