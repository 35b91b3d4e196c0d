package lettertemplate

import (
	"bytes"
	"context"
	"html"
	"io"
	"strings"

	"github.com/goliatone/go-letters/letter"
)

// DefaultTemplateName is the template executed for the offer letter.
const DefaultTemplateName = "letter"

// TemplateExecutor executes a named template with data.
type TemplateExecutor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

// Authority carries the letterhead identity printed on every letter.
type Authority struct {
	NameEnglish           string
	NameHindi             string
	Address               string
	SignatoryTitleEnglish string
	SignatoryTitleHindi   string
}

// DefaultAuthority is the Jawaharlal Nehru Port Authority letterhead.
func DefaultAuthority() Authority {
	return Authority{
		NameEnglish:           "Jawaharlal Nehru Port Authority",
		NameHindi:             "जवाहरलाल नेहरू पत्तन प्राधिकरण",
		Address:               "Administration Building, Sheva, Navi Mumbai - 400 707",
		SignatoryTitleEnglish: "Chief Manager (Training)",
		SignatoryTitleHindi:   "मुख्य प्रबंधक (प्रशिक्षण)",
	}
}

// Config supplies renderer dependencies.
type Config struct {
	Templates    TemplateExecutor
	TemplateName string
	Fonts        *letter.FontResolver
	Authority    Authority
}

// Renderer implements letter.Renderer over a template executor.
type Renderer struct {
	templates    TemplateExecutor
	templateName string
	fonts        *letter.FontResolver
	authority    Authority
}

var _ letter.Renderer = (*Renderer)(nil)

// New creates a letter renderer. With no executor configured it renders the
// embedded template through pongo2.
func New(cfg Config) *Renderer {
	templates := cfg.Templates
	if templates == nil {
		templates = NewPongo2Executor(TemplatesFS(), ".html")
	}
	name := strings.TrimSpace(cfg.TemplateName)
	if name == "" {
		name = DefaultTemplateName
	}
	authority := cfg.Authority
	if authority == (Authority{}) {
		authority = DefaultAuthority()
	}
	return &Renderer{
		templates:    templates,
		templateName: name,
		fonts:        cfg.Fonts,
		authority:    authority,
	}
}

// RenderLetter produces the HTML letter for a request. The record must pass
// validation; with a font resolver configured, every face must resolve.
func (r *Renderer) RenderLetter(ctx context.Context, req letter.Request) ([]byte, error) {
	if r == nil {
		return nil, letter.NewError(letter.KindInternal, "letter renderer is nil", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := letter.ValidateRequest(req); err != nil {
		return nil, err
	}

	fontCSS := ""
	if r.fonts != nil {
		css, err := r.fonts.FaceCSS()
		if err != nil {
			return nil, err
		}
		fontCSS = css
	}

	view := buildLetter(req)
	data := map[string]any{
		"font_css":            fontCSS,
		"authority_name_en":   html.EscapeString(r.authority.NameEnglish),
		"authority_name_hi":   html.EscapeString(r.authority.NameHindi),
		"authority_address":   html.EscapeString(r.authority.Address),
		"signatory_title_en":  html.EscapeString(r.authority.SignatoryTitleEnglish),
		"signatory_title_hi":  html.EscapeString(r.authority.SignatoryTitleHindi),
		"ref_no":              html.EscapeString(view.Request.ReferenceNumber),
		"student_name":        html.EscapeString(view.Request.StudentName),
		"college_name":        html.EscapeString(view.Request.CollegeName),
		"course":              html.EscapeString(view.Request.Course),
		"duration_start":      view.Request.DurationStart.Format(letter.IssuedDateLayout),
		"duration_end":        view.Request.DurationEnd.Format(letter.IssuedDateLayout),
		"issued_on":           view.IssuedOn,
		"year":                view.Year,
	}

	buf := &bytes.Buffer{}
	if err := r.templates.ExecuteTemplate(buf, r.templateName, data); err != nil {
		return nil, letter.NewError(letter.KindInternal, "letter template execution failed", err)
	}
	return buf.Bytes(), nil
}

// buildLetter derives the printed view of a record. The issue date is the
// approval time when set; otherwise the submission time, so previews of
// unapproved requests stay deterministic.
func buildLetter(req letter.Request) letter.Letter {
	issued := req.IssuedAt
	if issued.IsZero() {
		issued = req.CreatedAt
	}
	view := letter.Letter{Request: req}
	if !issued.IsZero() {
		view.IssuedOn = issued.Format(letter.IssuedDateLayout)
		view.Year = issued.Year()
	}
	return view
}
