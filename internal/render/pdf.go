package render

import (
	"io"

	"resumebuilder/internal/apperr"
	"resumebuilder/internal/layout"

	"github.com/go-pdf/fpdf"
)

// PDFRenderer writes documents as PDF using the core Helvetica font.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) ContentType() string { return "application/pdf" }

func (r *PDFRenderer) Render(w io.Writer, doc *layout.Document) error {
	if doc == nil {
		return apperr.Render("no document to render", nil)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: doc.PageWidth, Ht: doc.PageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetTitle(doc.Title, true)
	pdf.SetAuthor(doc.Author, true)
	pdf.SetCreator("resumebuilder", false)
	if !doc.CreatedAt.IsZero() {
		pdf.SetCreationDate(doc.CreatedAt)
		pdf.SetModificationDate(doc.CreatedAt)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	current := 1
	for _, ins := range doc.Instructions {
		if ins.Kind == layout.KindPageBreak {
			pdf.AddPage()
			current = pdf.PageNo()
			continue
		}
		if ins.Page != current && ins.Page >= 1 && ins.Page <= pdf.PageCount() {
			pdf.SetPage(ins.Page)
			current = ins.Page
		}

		switch ins.Kind {
		case layout.KindRect:
			pdf.SetFillColor(int(ins.Color.R), int(ins.Color.G), int(ins.Color.B))
			pdf.Rect(ins.X, ins.Y, ins.Width, ins.Height, "F")
		case layout.KindText:
			style := ""
			if ins.Weight == layout.WeightBold {
				style = "B"
			}
			pdf.SetFont("Helvetica", style, ins.FontSize)
			pdf.SetTextColor(int(ins.Color.R), int(ins.Color.G), int(ins.Color.B))
			pdf.Text(ins.X, baseline(ins), tr(ins.Text))
		}
	}

	if err := pdf.Error(); err != nil {
		return apperr.Render("failed to draw PDF", err)
	}
	if err := pdf.Output(w); err != nil {
		return apperr.Render("failed to write PDF", err)
	}
	return nil
}
