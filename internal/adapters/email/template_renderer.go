package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	texttemplate "text/template"

	"eventmanagement/internal/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Every template file defines these three blocks.
const (
	subjectBlock = "subject"
	htmlBlock    = "html"
	textBlock    = "text"
)

var templateFuncs = map[string]any{
	"money": func(amount float64) string { return fmt.Sprintf("%.2f", amount) },
}

// templateRenderer implements domain.EmailTemplateRenderer. Each email is one
// templates/<name>.tmpl file; the html block goes through html/template, the subject
// and text blocks through text/template.
type templateRenderer struct {
	html map[string]*template.Template
	text map[string]*texttemplate.Template
}

// NewTemplateRenderer parses the embedded templates. It panics if one of them is
// malformed, since they are compiled into the binary.
func NewTemplateRenderer() domain.EmailTemplateRenderer {
	r, err := newTemplateRenderer(templateFS)
	if err != nil {
		panic(err)
	}
	return r
}

func newTemplateRenderer(fsys fs.FS) (*templateRenderer, error) {
	files, err := fs.Glob(fsys, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	r := &templateRenderer{
		html: make(map[string]*template.Template, len(files)),
		text: make(map[string]*texttemplate.Template, len(files)),
	}
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".tmpl")
		ht, err := template.New(name).Funcs(templateFuncs).ParseFS(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		tt, err := texttemplate.New(name).Funcs(templateFuncs).ParseFS(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		for _, block := range []string{subjectBlock, htmlBlock, textBlock} {
			if tt.Lookup(block) == nil {
				return nil, fmt.Errorf("%s: missing %q block", file, block)
			}
		}
		r.html[name], r.text[name] = ht, tt
	}
	return r, nil
}

// Render executes the named template (e.g. "registration_confirmed") with data and returns subject, html, and text bodies.
func (r *templateRenderer) Render(templateName string, data any) (subject, htmlBody, textBody string, err error) {
	ht, ok := r.html[templateName]
	if !ok {
		return "", "", "", fmt.Errorf("%w: unknown email template %q", domain.ErrInvalidInput, templateName)
	}
	tt := r.text[templateName]

	var buf bytes.Buffer
	if err := tt.ExecuteTemplate(&buf, subjectBlock, data); err != nil {
		return "", "", "", fmt.Errorf("render subject: %w", err)
	}
	// Titles are user input and the subject becomes a mail header.
	subject = strings.Join(strings.Fields(buf.String()), " ")

	buf.Reset()
	if err := ht.ExecuteTemplate(&buf, htmlBlock, data); err != nil {
		return "", "", "", fmt.Errorf("render html: %w", err)
	}
	htmlBody = buf.String()

	buf.Reset()
	if err := tt.ExecuteTemplate(&buf, textBlock, data); err != nil {
		return "", "", "", fmt.Errorf("render text: %w", err)
	}
	return subject, htmlBody, buf.String(), nil
}
