package render

import (
	"fmt"
	"image/color"
	"io"
	"sync"

	"resumebuilder/internal/apperr"
	"resumebuilder/internal/layout"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontsOnce   sync.Once
	regularFont *truetype.Font
	boldFont    *truetype.Font
	fontsErr    error
)

func loadFonts() error {
	fontsOnce.Do(func() {
		if regularFont, fontsErr = truetype.Parse(goregular.TTF); fontsErr != nil {
			return
		}
		boldFont, fontsErr = truetype.Parse(gobold.TTF)
	})
	return fontsErr
}

// PNGRenderer rasterises the first page of a document as a preview image.
type PNGRenderer struct {
	scale float64
}

// NewPNGRenderer returns a renderer producing scale pixels per point.
func NewPNGRenderer(scale float64) *PNGRenderer {
	if scale <= 0 {
		scale = 1
	}
	return &PNGRenderer{scale: scale}
}

func (r *PNGRenderer) ContentType() string { return "image/png" }

func (r *PNGRenderer) Render(w io.Writer, doc *layout.Document) error {
	if doc == nil {
		return apperr.Render("no document to render", nil)
	}
	if err := loadFonts(); err != nil {
		return apperr.Render("failed to load preview fonts", err)
	}

	width := int(doc.PageWidth * r.scale)
	height := int(doc.PageHeight * r.scale)
	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()
	dc.Scale(r.scale, r.scale)

	// Faces are not safe for concurrent use, so they live per call.
	faces := make(map[string]font.Face)
	defer func() {
		for _, f := range faces {
			_ = f.Close()
		}
	}()
	faceFor := func(ins layout.Instruction) font.Face {
		key := fmt.Sprintf("%s/%.2f", ins.Weight, ins.FontSize)
		if f, ok := faces[key]; ok {
			return f
		}
		src := regularFont
		if ins.Weight == layout.WeightBold {
			src = boldFont
		}
		f := truetype.NewFace(src, &truetype.Options{Size: ins.FontSize, DPI: 72, Hinting: font.HintingFull})
		faces[key] = f
		return f
	}

	for _, ins := range doc.PageInstructions(1) {
		dc.SetRGB255(int(ins.Color.R), int(ins.Color.G), int(ins.Color.B))
		switch ins.Kind {
		case layout.KindRect:
			dc.DrawRectangle(ins.X, ins.Y, ins.Width, ins.Height)
			dc.Fill()
		case layout.KindText:
			dc.SetFontFace(faceFor(ins))
			dc.DrawString(ins.Text, ins.X, baseline(ins))
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return apperr.Render("failed to encode PNG", err)
	}
	return nil
}
