// Package web holds the server-rendered pages.
package web

import (
	"embed"
	"html/template"
	"strings"

	"github.com/mountainthreads/rental-ops/internal/models"
)

//go:embed templates/*.gohtml
var FS embed.FS

var funcs = template.FuncMap{
	"date": func(d *models.Date) string {
		if d == nil {
			return "-"
		}
		return d.String()
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"join": strings.Join,
	"stageLabel": func(s models.GroupStage) string {
		switch s {
		case models.StagePickedUp:
			return "Picked up"
		case "":
			return ""
		default:
			return strings.ToUpper(string(s[:1])) + string(s[1:])
		}
	},
}

// Templates parses every page. Pages are addressed by file name, for
// example "dashboard.gohtml".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(FS, "templates/*.gohtml")
}
