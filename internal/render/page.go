package render

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
)

// Document is a press release ready to be shown. HTML is a fragment from the
// service and is inserted verbatim; Text is shown preformatted.
type Document struct {
	Title    string
	HTML     string
	Text     string
	Insights []InsightCard
}

const stylesheet = `
body {
  font-family: "Noto Sans KR", "Apple SD Gothic Neo", sans-serif;
  margin: 0 auto;
  max-width: 960px;
  padding: 2rem;
  color: #2d3748;
}
h1 { border-bottom: 2px solid #667eea; padding-bottom: 0.5rem; }
.press-release { line-height: 1.7; }
.press-release pre { white-space: pre-wrap; }
.insights { display: grid; grid-template-columns: repeat(auto-fill, minmax(280px, 1fr)); gap: 1rem; }
.insight { border: 1px solid #e2e8f0; border-radius: 12px; padding: 1rem; }
.insight h3 { margin-top: 0; color: #667eea; }
`

var (
	cssOnce sync.Once
	cssText string
)

// minifiedCSS returns the page stylesheet minified, or the source as-is if
// minification fails.
func minifiedCSS() string {
	cssOnce.Do(func() {
		result := api.Transform(stylesheet, api.TransformOptions{
			Loader:            api.LoaderCSS,
			MinifyWhitespace:  true,
			MinifySyntax:      true,
			MinifyIdentifiers: true,
		})
		if len(result.Errors) > 0 {
			log.Warn().Str("error", result.Errors[0].Text).Msg("Failed to minify stylesheet")
			cssText = stylesheet
			return
		}
		cssText = string(result.Code)
	})
	return cssText
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>{{.CSS}}</style>
{{- if .HasCharts}}
<script type="module">import mermaid from "https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.esm.min.mjs"; mermaid.initialize({ startOnLoad: true });</script>
{{- end}}
</head>
<body>
<h1>{{.Title}}</h1>
{{- if .Insights}}
<section class="insights">
{{- range .Insights}}
<div class="insight">
<h3>{{.Index}}. {{.Title}}</h3>
<p>{{.Description}}</p>
{{- if .ChartBody}}
<pre class="mermaid">{{.ChartBody}}</pre>
{{- end}}
</div>
{{- end}}
</section>
{{- end}}
<section id="press-release" class="press-release">
{{- if .Fragment}}
{{.Fragment}}
{{- else}}
<pre>{{.Text}}</pre>
{{- end}}
</section>
</body>
</html>
`))

type pageData struct {
	Title     string
	CSS       template.CSS
	Fragment  template.HTML
	Text      string
	Insights  []InsightCard
	HasCharts bool
}

// WritePage renders doc as a standalone HTML page.
func WritePage(w io.Writer, doc Document) error {
	data := pageData{
		Title:    doc.Title,
		CSS:      template.CSS(minifiedCSS()),
		Fragment: template.HTML(doc.HTML),
		Text:     doc.Text,
		Insights: doc.Insights,
	}
	for _, in := range doc.Insights {
		if in.Chart != "" {
			data.HasCharts = true
			break
		}
	}
	return pageTemplate.Execute(w, data)
}

// SavePage writes doc into dir as name (".html" is appended when missing)
// and returns the path written.
func SavePage(dir, name string, doc Document) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	if !strings.HasSuffix(strings.ToLower(name), ".html") {
		name += ".html"
	}
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := WritePage(f, doc); err != nil {
		f.Close()
		return "", fmt.Errorf("render %s: %w", path, err)
	}
	return path, f.Close()
}

// openFile is replaced in tests.
var openFile = browser.OpenFile

// Open shows a saved page in the default browser.
func Open(path string) error {
	return openFile(path)
}
