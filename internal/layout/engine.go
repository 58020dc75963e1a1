package layout

import (
	"fmt"
	"strings"

	"resumebuilder/internal/apperr"
	"resumebuilder/internal/models"
)

// Section titles in emission order.
const (
	SectionContact        = "Contact Information"
	SectionSkills         = "Skills"
	SectionEducation      = "Academic Details"
	SectionProjects       = "Academic Project"
	SectionWorkExperience = "Work Experience"
	SectionCertificates   = "Certificates"
	SectionHobbies        = "Hobbies"

	workExperiencePlaceholder = "[To be added]"
)

// Engine lays out aggregates with a fixed theme. It holds no per-call state.
type Engine struct {
	theme Theme
}

func NewEngine(theme Theme) *Engine {
	theme.normalize()
	return &Engine{theme: theme}
}

func (e *Engine) Theme() Theme { return e.theme }

type line struct {
	text   string
	size   float64
	weight Weight
}

// block is a group of lines followed by a gap.
type block struct {
	lines []line
	gap   float64
}

// cursor is the mutable layout state of one Layout call.
type cursor struct {
	theme *Theme
	page  int
	y     float64
	out   []Instruction
}

// Layout produces the instruction sequence for agg. The same aggregate always
// yields the same sequence.
func (e *Engine) Layout(agg *models.Aggregate) (*Document, error) {
	if agg == nil {
		return nil, apperr.Render("nothing to lay out", nil)
	}
	name := strings.TrimSpace(agg.Name)
	if name == "" {
		return nil, apperr.Render(fmt.Sprintf("resume %s has no name", agg.ID), nil)
	}

	c := &cursor{theme: &e.theme, page: 1}
	c.titleBand(name)

	c.section(SectionContact, e.contactBlocks(agg))
	c.section(SectionSkills, e.listBlocks(agg.Skills))
	c.section(SectionEducation, e.educationBlocks(agg.Education))
	c.section(SectionProjects, e.projectBlocks(agg.Projects))
	if e.theme.LegacyTemplate && len(agg.Education) > 0 {
		c.section(SectionWorkExperience, []block{{lines: e.body(workExperiencePlaceholder)}})
	}
	c.section(SectionCertificates, e.certificateBlocks(agg.Certificates))
	c.section(SectionHobbies, e.listBlocks(agg.Hobbies))

	c.finish()

	return &Document{
		Title:        name + " Resume",
		Author:       name,
		CreatedAt:    agg.CreatedAt,
		PageWidth:    e.theme.PageWidth,
		PageHeight:   e.theme.PageHeight,
		Pages:        c.page,
		Instructions: c.out,
	}, nil
}

// body and item wrap text into regular body lines and bold item-title lines.
func (e *Engine) body(text string) []line {
	return e.styled(text, e.theme.BodyFontSize, WeightRegular)
}

func (e *Engine) item(text string) []line {
	return e.styled(text, e.theme.ItemFontSize, WeightBold)
}

func (e *Engine) styled(text string, size float64, weight Weight) []line {
	var out []line
	for _, l := range wrapText(text, e.theme.MaxLineChars) {
		out = append(out, line{text: l, size: size, weight: weight})
	}
	return out
}

func (e *Engine) contactBlocks(agg *models.Aggregate) []block {
	var lines []line
	if v := strings.TrimSpace(agg.Phone); v != "" {
		lines = append(lines, e.body("Phone: "+v)...)
	}
	if v := strings.TrimSpace(agg.Email); v != "" {
		lines = append(lines, e.body("Email: "+v)...)
	}
	if v := strings.TrimSpace(agg.LinkedIn); v != "" {
		lines = append(lines, e.body("LinkedIn: "+v)...)
	}
	if len(lines) == 0 {
		return nil
	}
	return []block{{lines: lines}}
}

func (e *Engine) listBlocks(items []string) []block {
	var parts []string
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	lines := e.body(strings.Join(parts, ", "))
	if len(lines) == 0 {
		return nil
	}
	return []block{{lines: lines}}
}

func (e *Engine) educationBlocks(items []models.EducationItem) []block {
	var blocks []block
	for _, edu := range items {
		var lines []line
		if edu.Institution != "" {
			lines = append(lines, e.item(edu.Institution)...)
		}
		switch {
		case edu.Degree != "" && edu.Field != "":
			lines = append(lines, e.body(edu.Degree+" in "+edu.Field)...)
		case edu.Degree != "":
			lines = append(lines, e.body(edu.Degree)...)
		case edu.Field != "":
			lines = append(lines, e.body(edu.Field)...)
		}
		switch {
		case edu.StartDate != "" && edu.EndDate != "":
			lines = append(lines, e.body(edu.StartDate+" - "+edu.EndDate)...)
		case edu.StartDate != "":
			lines = append(lines, e.body(edu.StartDate)...)
		case edu.EndDate != "":
			lines = append(lines, e.body(edu.EndDate)...)
		}
		if edu.GPA != "" {
			lines = append(lines, e.body("GPA: "+edu.GPA)...)
		}
		if len(lines) > 0 {
			blocks = append(blocks, block{lines: lines, gap: e.theme.ItemGap})
		}
	}
	return blocks
}

func (e *Engine) projectBlocks(items []models.ProjectItem) []block {
	var blocks []block
	for _, p := range items {
		var lines []line
		if e.theme.LegacyTemplate {
			lines = append(lines, e.item("Company: "+p.Title)...)
			lines = append(lines, e.body("Project Title: "+p.Title)...)
			if p.Description != "" {
				lines = append(lines, e.body("Profile: "+p.Description)...)
			}
		} else {
			if p.Title != "" {
				lines = append(lines, e.item(p.Title)...)
			}
			lines = append(lines, e.body(p.Description)...)
		}
		if p.Technologies != "" {
			lines = append(lines, e.body("Technologies: "+p.Technologies)...)
		}
		if p.Link != "" {
			lines = append(lines, e.body("Link: "+p.Link)...)
		}
		if len(lines) > 0 {
			blocks = append(blocks, block{lines: lines, gap: e.theme.ItemGap})
		}
	}
	return blocks
}

func (e *Engine) certificateBlocks(items []models.CertificateItem) []block {
	var blocks []block
	for _, cert := range items {
		var lines []line
		if cert.Name != "" {
			lines = append(lines, e.item(cert.Name)...)
		}
		if cert.Issuer != "" {
			lines = append(lines, e.body("Issuer: "+cert.Issuer)...)
		}
		if cert.Date != "" {
			lines = append(lines, e.body("Date: "+cert.Date)...)
		}
		if cert.Link != "" {
			lines = append(lines, e.body("Link: "+cert.Link)...)
		}
		if len(lines) > 0 {
			blocks = append(blocks, block{lines: lines, gap: e.theme.ItemGap})
		}
	}
	return blocks
}

func (c *cursor) emit(ins Instruction) {
	ins.Page = c.page
	c.out = append(c.out, ins)
}

func (c *cursor) titleBand(name string) {
	t := c.theme
	c.emit(Instruction{
		Kind:   KindRect,
		X:      0,
		Y:      0,
		Width:  t.PageWidth,
		Height: t.TitleBandHeight,
		Color:  t.BandColor,
	})
	c.emit(Instruction{
		Kind:     KindText,
		X:        t.Margin,
		Y:        (t.TitleBandHeight - t.TitleFontSize) / 2,
		Text:     name,
		FontSize: t.TitleFontSize,
		Weight:   WeightBold,
		Color:    t.TitleColor,
	})
	c.y = t.TitleBandHeight + t.TitleGap
}

// ensure starts a new page when h more points would cross the bottom margin.
// A fresh page never breaks again, so oversized content cannot loop.
func (c *cursor) ensure(h float64) {
	t := c.theme
	if !t.Paginate || c.y <= t.TopMargin {
		return
	}
	if c.y+h > t.PageHeight-t.BottomMargin {
		if c.page > 1 {
			c.pageLabel()
		}
		c.page++
		c.emit(Instruction{Kind: KindPageBreak, X: 0, Y: 0, Width: t.PageWidth, Height: t.PageHeight})
		c.y = t.TopMargin
	}
}

func (c *cursor) section(title string, blocks []block) {
	if len(blocks) == 0 {
		return
	}
	t := c.theme

	// Keep the band together with its first line.
	c.ensure(t.SectionAdvance + t.LineHeight)
	c.emit(Instruction{
		Kind:   KindRect,
		X:      t.Margin,
		Y:      c.y,
		Width:  t.contentWidth(),
		Height: t.SectionBandHeight,
		Color:  t.BandColor,
	})
	c.emit(Instruction{
		Kind:     KindText,
		X:        t.Margin + 5,
		Y:        c.y + (t.SectionBandHeight-t.SectionFontSize)/2,
		Text:     title,
		FontSize: t.SectionFontSize,
		Weight:   WeightBold,
		Color:    t.SectionTextColor,
	})
	c.y += t.SectionAdvance

	for _, b := range blocks {
		for _, l := range b.lines {
			c.ensure(t.LineHeight)
			c.emit(Instruction{
				Kind:     KindText,
				X:        t.Margin,
				Y:        c.y,
				Text:     l.text,
				FontSize: l.size,
				Weight:   l.weight,
				Color:    t.TextColor,
			})
			c.y += t.LineHeight
		}
		c.y += b.gap
	}
}

func (c *cursor) pageLabel() {
	c.emit(c.labelFor(c.page))
}

func (c *cursor) labelFor(page int) Instruction {
	t := c.theme
	return Instruction{
		Kind:     KindText,
		Page:     page,
		X:        t.PageWidth/2 - 15,
		Y:        t.PageHeight - t.PageLabelOffset,
		Text:     fmt.Sprintf("Page %d", page),
		FontSize: t.BodyFontSize,
		Weight:   WeightRegular,
		Color:    t.TextColor,
	}
}

// finish labels the last page and then, as the final instruction, page 1.
func (c *cursor) finish() {
	if c.page > 1 {
		c.pageLabel()
	}
	c.out = append(c.out, c.labelFor(1))
}
