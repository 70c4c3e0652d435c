package http

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

var templateFuncs = template.FuncMap{
	"amount": core.FormatAmount,
	"date":   core.DisplayDate,
}

// parseTemplates loads every page and partial from fsys.
func parseTemplates(fsys fs.FS) (*template.Template, error) {
	t, err := template.New("").Funcs(templateFuncs).ParseFS(fsys, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

func (s *Server) execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// render writes template name with the given builder. Rendering happens
// into a buffer first so a failing template never leaves a half-written
// response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, b *HTMXResponseBuilder, name string, data any) {
	body, err := s.execute(name, data)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			log.FieldOperation, log.OpRender,
			"template", name,
			log.FieldError, err)
		InternalServerError("Something went wrong. Please reload the page.").Write(w)
		return
	}
	b.BodyHTML(body).Write(w)
}

// respond answers a form submission. htmx requests get the fragment and
// the notification as a toast; plain requests get the full page with the
// notification inline.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, note *Notification, fragment string, fragmentData any, page string, pageData any) {
	if isHTMX(r) {
		s.render(w, r, NewHTMXResponse().TriggerNotification(note), fragment, fragmentData)
		return
	}
	s.render(w, r, NewHTMXResponse(), page, pageData)
}
