package view

import (
	"embed"
	"html/template"

	"github.com/stemsi/qbank-manager/internal/model"
)

//go:embed templates/*.html
var files embed.FS

// Template names.
const (
	IndexPage = "index"
	EditPage  = "edit"
	ErrorPage = "error"
)

// Index is the data for the summary list.
type Index struct {
	Entries  []model.EntrySummary
	Complete int
}

// Edit is the data for the edit form of one entry. Slots hold either the
// stored questions or the values the operator just submitted.
type Edit struct {
	Index       int
	Image       string
	Description string
	ImageURL    string
	Images      []string
	Slots       []model.QuestionForm
	Message     string
	Errors      []string
}

// Error is the data for the generic failure page.
type Error struct {
	Status  int
	Message string
}

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "templates/*.html")
}

// MustTemplates is like Templates but panics on a parse error. The templates
// are embedded, so a failure is a build defect.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}
