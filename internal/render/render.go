// Package render paints layout documents onto concrete output formats.
package render

import (
	"io"
	"regexp"

	"resumebuilder/internal/apperr"
	"resumebuilder/internal/layout"
)

// Renderer encodes a laid-out document to w.
type Renderer interface {
	Render(w io.Writer, doc *layout.Document) error
	ContentType() string
}

var whitespace = regexp.MustCompile(`\s+`)

// Filename derives the download name for a resume: runs of whitespace in the
// name become underscores and "_Resume.pdf" is appended.
func Filename(name string) (string, error) {
	if whitespace.ReplaceAllString(name, "") == "" {
		return "", apperr.Render("cannot derive a filename from an empty name", nil)
	}
	return whitespace.ReplaceAllString(name, "_") + "_Resume.pdf", nil
}

// baseline converts the top of a text line box into a baseline position.
func baseline(ins layout.Instruction) float64 {
	return ins.Y + ins.FontSize*0.8
}
