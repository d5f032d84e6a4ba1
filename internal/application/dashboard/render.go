package dashboard

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/bryanwahyu/cv-analyzer/internal/domain/analysis"
)

const (
	noneDetected       = "None detected"
	summaryPlaceholder = "No summary rewrite available yet."
	radarWidth         = 20
)

var funcs = template.FuncMap{
	"bar": func(score int) string {
		n := score * radarWidth / 100
		return strings.Repeat("#", n) + strings.Repeat(".", radarWidth-n)
	},
	"list": func(items []string) []string {
		if len(items) == 0 {
			return []string{noneDetected}
		}
		return items
	},
	"badges": func(items []string) string {
		if len(items) == 0 {
			return noneDetected
		}
		return "[" + strings.Join(items, "] [") + "]"
	},
	"summary": func(s string) string {
		if strings.TrimSpace(s) == "" {
			return summaryPlaceholder
		}
		return s
	},
	"category": func(c analysis.Category) string { return fmt.Sprintf("%-13s", c) },
}

var dashboardTmpl = template.Must(template.New("dashboard").Funcs(funcs).Parse(
	`{{- if .Empty -}}
No analysis yet
Upload your CV to see your results:
  cvanalyzer analyze <file>
{{- else -}}
Analysis Results{{ if .Source }} ({{ .Source }}){{ end }}

ATS Score: {{ .Score.Score }}/100  {{ .Score.Label }} [{{ .Score.Tone }}]

Skills Radar
{{- range .Radar }}
  {{ category .Category }} {{ bar .Score }} {{ .Score }}
{{- end }}

Skills ({{ len .Skills }})
  {{ badges .Skills }}

Strengths
{{- range list .Strengths }}
  + {{ . }}
{{- end }}

Areas to improve
{{- range list .Gaps }}
  - {{ . }}
{{- end }}

Recommended roles
{{- if .Roles }}
{{- range .Roles }}
  {{ .Title }}  {{ .Match }}% match [{{ .Tone }}]
{{- end }}
{{- else }}
  {{ "None detected" }}
{{- end }}

Summary
  {{ summary .Summary }}
{{- end }}
`))

// Render writes the text dashboard for v.
func Render(w io.Writer, v View) error {
	if err := dashboardTmpl.Execute(w, v); err != nil {
		return fmt.Errorf("failed to render dashboard: %w", err)
	}
	return nil
}
