package devserver

import (
	htemplate "html/template"
	"net/http"
)

// errorPageTemplate renders a self-contained HTML error page carrying the
// live-reload script, so a page broken by a render-on-demand failure still
// refreshes automatically once the underlying source is fixed.
var errorPageTemplate = htemplate.Must(htemplate.New("error").Parse(`<!DOCTYPE html>
<html>
<head><title>pylon: render error</title></head>
<body>
<h1>` + "{{.Kind}}" + `</h1>
<pre>{{.Message}}</pre>
` + liveReloadScript + `
</body>
</html>`))

type errorPageData struct {
	Kind    string
	Message string
}

// writeErrorPage renders errorPageTemplate into w with the given status
// code, falling back to a plain-text error if the template itself fails.
func writeErrorPage(w http.ResponseWriter, status int, kind, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := errorPageTemplate.Execute(w, errorPageData{Kind: kind, Message: message}); err != nil {
		_, _ = w.Write([]byte(message))
	}
}
