package layout

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Kind string

const (
	KindText      Kind = "text"
	KindRect      Kind = "rect"
	KindPageBreak Kind = "page_break"
)

type Weight string

const (
	WeightRegular Weight = "regular"
	WeightBold    Weight = "bold"
)

// Color is an opaque RGB colour. It reads and writes as "#RRGGBB".
type Color struct {
	R, G, B uint8
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ParseColor parses "#RRGGBB" or "RRGGBB".
func ParseColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid colour %q: want #RRGGBB", s)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return Color{R: b[0], G: b[1], B: b[2]}, nil
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	return c.UnmarshalText([]byte(value.Value))
}

// Instruction is one positioned, styled primitive.
type Instruction struct {
	Kind     Kind    `json:"kind"`
	Page     int     `json:"page"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Text     string  `json:"text,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`
	Weight   Weight  `json:"weight,omitempty"`
	Color    Color   `json:"color"`
}

// Document is the result of a layout pass.
type Document struct {
	Title        string        `json:"title"`
	Author       string        `json:"author"`
	CreatedAt    time.Time     `json:"createdAt"`
	PageWidth    float64       `json:"pageWidth"`
	PageHeight   float64       `json:"pageHeight"`
	Pages        int           `json:"pages"`
	Instructions []Instruction `json:"instructions"`
}

// PageInstructions returns the text and rect instructions drawn on page.
func (d *Document) PageInstructions(page int) []Instruction {
	var out []Instruction
	for _, ins := range d.Instructions {
		if ins.Page == page && ins.Kind != KindPageBreak {
			out = append(out, ins)
		}
	}
	return out
}
