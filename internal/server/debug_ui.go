package server

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
)

func debugPage(routes []RouteDoc) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Scoundrel routes</title>
<link rel="stylesheet" href="/static/css/app.css">
</head>
<body>
<main class="debug">
<h1>Routes</h1>
<p><a href="/_/debug/routes.json">routes.json</a> &middot; <a href="/api/ws">/api/ws</a> pushes snapshots</p>
<table>
<tr><th>Method</th><th>Pattern</th><th>Summary</th><th>Example body</th></tr>
`); err != nil {
			return err
		}
		for _, rt := range routes {
			row := `<tr><td>` + templ.EscapeString(rt.Method) +
				`</td><td><code>` + templ.EscapeString(rt.Pattern) +
				`</code></td><td>` + templ.EscapeString(rt.Summary) +
				`</td><td><code>` + templ.EscapeString(rt.ExampleBody) +
				`</code></td></tr>
`
			if _, err := io.WriteString(w, row); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</table>
</main>
</body>
</html>
`)
		return err
	})
}

// RegisterDebugUI serves a route explorer for poking the API by hand.
func RegisterDebugUI(mux *http.ServeMux, rr *RouteRegistry) {
	mux.HandleFunc("GET /_/debug/routes.json", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, rr.List())
	})

	mux.HandleFunc("GET /_/debug", func(w http.ResponseWriter, r *http.Request) {
		templ.Handler(debugPage(rr.List())).ServeHTTP(w, r)
	})
}
