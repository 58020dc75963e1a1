package layout_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"resumebuilder/internal/apperr"
	"resumebuilder/internal/layout"
	"resumebuilder/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adaAggregate() *models.Aggregate {
	agg := models.NewAggregate(&models.Resume{
		ID:        "r-1",
		Name:      "Ada Lovelace",
		Phone:     "555-0100",
		Email:     "ada@example.com",
		CreatedAt: time.Date(1843, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	agg.Skills = []string{"math", "logic"}
	agg.Education = []models.EducationItem{{Institution: "Royal Academy", Degree: "Diploma", Field: "Mathematics", StartDate: "1830", EndDate: "1835", GPA: "4.0"}}
	agg.Projects = []models.ProjectItem{{Title: "Analytical Engine", Description: "Notes on the engine", Technologies: "Punch cards"}}
	agg.Certificates = []models.CertificateItem{{Name: "Mathematics", Issuer: "De Morgan", Date: "1841"}}
	agg.Hobbies = []string{"poetry", "horses"}
	return agg
}

func texts(doc *layout.Document) []string {
	var out []string
	for _, ins := range doc.Instructions {
		if ins.Kind == layout.KindText {
			out = append(out, ins.Text)
		}
	}
	return out
}

func findText(t *testing.T, doc *layout.Document, text string) layout.Instruction {
	t.Helper()
	for _, ins := range doc.Instructions {
		if ins.Kind == layout.KindText && ins.Text == text {
			return ins
		}
	}
	t.Fatalf("text %q not found in layout", text)
	return layout.Instruction{}
}

func TestEngine_LayoutIsDeterministic(t *testing.T) {
	engine := layout.NewEngine(layout.DefaultTheme())

	first, err := engine.Layout(adaAggregate())
	require.NoError(t, err)
	second, err := engine.Layout(adaAggregate())
	require.NoError(t, err)

	assert.Equal(t, first.Instructions, second.Instructions)
	assert.Equal(t, 1, first.Pages)
}

func TestEngine_SectionOrderAndStyles(t *testing.T) {
	engine := layout.NewEngine(layout.DefaultTheme())
	doc, err := engine.Layout(adaAggregate())
	require.NoError(t, err)

	got := texts(doc)
	want := []string{
		"Ada Lovelace",
		layout.SectionContact, "Phone: 555-0100", "Email: ada@example.com",
		layout.SectionSkills, "math, logic",
		layout.SectionEducation, "Royal Academy", "Diploma in Mathematics", "1830 - 1835", "GPA: 4.0",
		layout.SectionProjects, "Analytical Engine", "Notes on the engine", "Technologies: Punch cards",
		layout.SectionCertificates, "Mathematics", "Issuer: De Morgan", "Date: 1841",
		layout.SectionHobbies, "poetry, horses",
		"Page 1",
	}
	assert.Equal(t, want, got)

	theme := layout.DefaultTheme()
	title := findText(t, doc, layout.SectionSkills)
	assert.Equal(t, layout.WeightBold, title.Weight)
	assert.Equal(t, theme.SectionFontSize, title.FontSize)
	body := findText(t, doc, "math, logic")
	assert.Equal(t, layout.WeightRegular, body.Weight)
	assert.Less(t, body.FontSize, title.FontSize)
}

func TestEngine_VerticalRhythm(t *testing.T) {
	theme := layout.DefaultTheme()
	engine := layout.NewEngine(theme)
	doc, err := engine.Layout(adaAggregate())
	require.NoError(t, err)

	contactBand := doc.Instructions[2]
	require.Equal(t, layout.KindRect, contactBand.Kind)
	assert.Equal(t, theme.TitleBandHeight+theme.TitleGap, contactBand.Y)
	assert.Equal(t, theme.SectionBandHeight, contactBand.Height)

	phone := findText(t, doc, "Phone: 555-0100")
	email := findText(t, doc, "Email: ada@example.com")
	assert.Equal(t, contactBand.Y+theme.SectionAdvance, phone.Y)
	assert.Equal(t, phone.Y+theme.LineHeight, email.Y)

	// Education item ends with a gap before the next section band.
	gpa := findText(t, doc, "GPA: 4.0")
	projectsTitle := findText(t, doc, layout.SectionProjects)
	projectsBandY := projectsTitle.Y - (theme.SectionBandHeight-theme.SectionFontSize)/2
	assert.Equal(t, gpa.Y+theme.LineHeight+theme.ItemGap, projectsBandY)
}

func TestEngine_EmptySectionSuppressed(t *testing.T) {
	engine := layout.NewEngine(layout.DefaultTheme())

	with, err := engine.Layout(adaAggregate())
	require.NoError(t, err)

	agg := adaAggregate()
	agg.Skills = []string{}
	without, err := engine.Layout(agg)
	require.NoError(t, err)

	assert.NotContains(t, texts(without), layout.SectionSkills)
	// Band rect, title text and one content line disappear.
	assert.Len(t, without.Instructions, len(with.Instructions)-3)

	// Education band moves up by exactly the skills section's height.
	theme := layout.DefaultTheme()
	shift := theme.SectionAdvance + theme.LineHeight
	assert.Equal(t,
		findText(t, with, layout.SectionEducation).Y-shift,
		findText(t, without, layout.SectionEducation).Y)
}

func TestEngine_NameOnly(t *testing.T) {
	engine := layout.NewEngine(layout.DefaultTheme())
	doc, err := engine.Layout(models.NewAggregate(&models.Resume{ID: "x", Name: "Grace"}))
	require.NoError(t, err)

	require.Len(t, doc.Instructions, 3)
	assert.Equal(t, layout.KindRect, doc.Instructions[0].Kind)
	assert.Equal(t, "Grace", doc.Instructions[1].Text)
	last := doc.Instructions[2]
	assert.Equal(t, "Page 1", last.Text)
	assert.Equal(t, 1, last.Page)
}

func TestEngine_MissingNameIsRenderError(t *testing.T) {
	engine := layout.NewEngine(layout.DefaultTheme())

	_, err := engine.Layout(models.NewAggregate(&models.Resume{ID: "x", Name: "  "}))
	require.Error(t, err)
	assert.True(t, apperr.IsRender(err))

	_, err = engine.Layout(nil)
	assert.True(t, apperr.IsRender(err))
}

func TestEngine_LegacyTemplate(t *testing.T) {
	theme := layout.DefaultTheme()
	theme.LegacyTemplate = true
	engine := layout.NewEngine(theme)

	doc, err := engine.Layout(adaAggregate())
	require.NoError(t, err)
	got := texts(doc)
	assert.Contains(t, got, "Company: Analytical Engine")
	assert.Contains(t, got, "Project Title: Analytical Engine")
	assert.Contains(t, got, "Profile: Notes on the engine")
	assert.Contains(t, got, layout.SectionWorkExperience)
	assert.Contains(t, got, "[To be added]")

	agg := adaAggregate()
	agg.Education = nil
	doc, err = engine.Layout(agg)
	require.NoError(t, err)
	assert.NotContains(t, texts(doc), layout.SectionWorkExperience)
}

func TestEngine_DefaultOmitsLegacyQuirks(t *testing.T) {
	doc, err := layout.NewEngine(layout.DefaultTheme()).Layout(adaAggregate())
	require.NoError(t, err)
	for _, text := range texts(doc) {
		assert.False(t, strings.HasPrefix(text, "Company:"))
		assert.NotEqual(t, layout.SectionWorkExperience, text)
	}
}

func TestEngine_Paginates(t *testing.T) {
	theme := layout.DefaultTheme()
	engine := layout.NewEngine(theme)

	agg := adaAggregate()
	for i := 0; i < 80; i++ {
		agg.Certificates = append(agg.Certificates, models.CertificateItem{Name: fmt.Sprintf("Cert %d", i), Issuer: "Board"})
	}
	doc, err := engine.Layout(agg)
	require.NoError(t, err)
	require.Greater(t, doc.Pages, 1)

	breaks := 0
	for _, ins := range doc.Instructions {
		if ins.Kind == layout.KindPageBreak {
			breaks++
			continue
		}
		if ins.Kind == layout.KindText && strings.HasPrefix(ins.Text, "Page ") {
			continue
		}
		assert.LessOrEqual(t, ins.Y+theme.LineHeight, theme.PageHeight-theme.BottomMargin,
			"instruction %q crosses the bottom margin of page %d", ins.Text, ins.Page)
	}
	assert.Equal(t, doc.Pages-1, breaks)

	last := doc.Instructions[len(doc.Instructions)-1]
	assert.Equal(t, "Page 1", last.Text)
	assert.Equal(t, 1, last.Page)
	assert.Equal(t, theme.PageHeight-theme.PageLabelOffset, last.Y)
	assert.NotEmpty(t, doc.PageInstructions(doc.Pages))
}

func TestEngine_NoPaginationLetsCursorRun(t *testing.T) {
	theme := layout.DefaultTheme()
	theme.Paginate = false
	engine := layout.NewEngine(theme)

	agg := adaAggregate()
	for i := 0; i < 80; i++ {
		agg.Hobbies = append(agg.Hobbies, fmt.Sprintf("a rather long hobby description number %d", i))
	}
	doc, err := engine.Layout(agg)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Pages)

	maxY := 0.0
	for _, ins := range doc.Instructions {
		assert.NotEqual(t, layout.KindPageBreak, ins.Kind)
		if ins.Y > maxY {
			maxY = ins.Y
		}
	}
	assert.Greater(t, maxY, theme.PageHeight)
}

func TestEngine_WrapsLongLines(t *testing.T) {
	theme := layout.DefaultTheme()
	theme.MaxLineChars = 20
	engine := layout.NewEngine(theme)

	agg := adaAggregate()
	agg.Projects = []models.ProjectItem{{Title: "P", Description: "one two three four five six seven eight nine ten"}}
	doc, err := engine.Layout(agg)
	require.NoError(t, err)

	for _, text := range texts(doc) {
		assert.LessOrEqual(t, len([]rune(text)), 20, text)
	}
	assert.Contains(t, texts(doc), "one two three four")
}

func TestLoadTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	content := "line_height: 18\nband_color: \"#FF0000\"\nlegacy_template: true\nmargin: -5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	theme, err := layout.LoadTheme(path)
	require.NoError(t, err)
	assert.Equal(t, 18.0, theme.LineHeight)
	assert.Equal(t, layout.Color{R: 0xFF}, theme.BandColor)
	assert.True(t, theme.LegacyTemplate)
	assert.True(t, theme.Paginate)
	assert.Equal(t, layout.DefaultTheme().Margin, theme.Margin)

	_, err = layout.LoadTheme(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseColor(t *testing.T) {
	c, err := layout.ParseColor("#1f3a5f")
	require.NoError(t, err)
	assert.Equal(t, "#1F3A5F", c.Hex())

	_, err = layout.ParseColor("blue")
	assert.Error(t, err)
}
