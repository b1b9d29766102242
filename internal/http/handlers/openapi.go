package handlers

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/tidwall/gjson"
)

// OpenAPIPath is where the router mounts the JSON description.
const OpenAPIPath = "/v1/openapi.json"

const redocScript = "https://cdn.jsdelivr.net/npm/redoc@2.2.0/bundles/redoc.standalone.js"

//go:embed openapi.json
var openAPISpec []byte

var redocTemplate = template.Must(template.New("redoc").Parse(`<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <title>{{.Title}} {{.Version}}</title>
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <style>
      body { margin: 0; }
      redoc { display: block; height: 100vh; }
    </style>
  </head>
  <body>
    <redoc spec-url="{{.SpecURL}}"></redoc>
    <script src="{{.Script}}"></script>
  </body>
</html>`))

// docsPage is rendered once from the embedded description's info block.
var docsPage = renderDocs(openAPISpec, OpenAPIPath)

type docsView struct {
	Title   string
	Version string
	SpecURL string
	Script  string
}

func renderDocs(spec []byte, specURL string) []byte {
	info := gjson.GetBytes(spec, "info")
	view := docsView{
		Title:   info.Get("title").String(),
		Version: info.Get("version").String(),
		SpecURL: specURL,
		Script:  redocScript,
	}
	if view.Title == "" {
		view.Title = "API"
	}
	var buf bytes.Buffer
	if err := redocTemplate.Execute(&buf, view); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// OpenAPIJSON serves the embedded API description.
func (a *App) OpenAPIJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPISpec)
}

// OpenAPIDocs serves a Redoc page pointed at OpenAPIPath.
func (a *App) OpenAPIDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(docsPage)
}
