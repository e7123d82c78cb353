// Package report renders human readable summaries of beatline projects from
// text templates.
package report

import (
	"embed"
	"fmt"
	"io"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig"

	"github.com/beatline/beatline"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

type Reporter struct {
	Template *template.Template
}

// Formats lists the built in report templates.
var Formats = []string{"text", "markdown"}

// New returns a reporter using the built in templates.
func New() (*Reporter, error) {
	tmpl, err := template.New("base").Funcs(sprig.TxtFuncMap()).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("could not parse the built in templates: %v", err)
	}
	return &Reporter{Template: tmpl}, nil
}

// NewFromTemplates returns a reporter using the *.tmpl files in a directory,
// so reports can be customized without rebuilding.
func NewFromTemplates(templateDirectory string) (*Reporter, error) {
	globPtrn := filepath.Join(templateDirectory, "*.tmpl")
	tmpl, err := template.New("base").Funcs(sprig.TxtFuncMap()).ParseGlob(globPtrn)
	if err != nil {
		return nil, fmt.Errorf(`could not create template based on directory "%v": %v`, templateDirectory, err)
	}
	return &Reporter{Template: tmpl}, nil
}

// Render writes the report of the project in the given format, the name of a
// template without its extension.
func (r *Reporter) Render(w io.Writer, format string, p *beatline.Project) error {
	name := format + ".tmpl"
	if r.Template.Lookup(name) == nil {
		return fmt.Errorf("no template for report format %q", format)
	}
	if err := r.Template.ExecuteTemplate(w, name, NewMacros(p)); err != nil {
		return fmt.Errorf(`could not execute template "%v": %v`, name, err)
	}
	return nil
}

// Render writes the plain text report of the project.
func Render(w io.Writer, p *beatline.Project) error {
	r, err := New()
	if err != nil {
		return err
	}
	return r.Render(w, "text", p)
}
