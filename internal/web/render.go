package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/yuin/goldmark"

	"github.com/hpungsan/ecokitchen/internal/errors"
	"github.com/hpungsan/ecokitchen/internal/logging"
	"github.com/hpungsan/ecokitchen/internal/ops"
	"github.com/hpungsan/ecokitchen/internal/risk"
	"github.com/hpungsan/ecokitchen/internal/session"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
}

// IndexPageData is the template data for the main page.
type IndexPageData struct {
	PageData
	Form           ops.InventoryInput
	Categories     []string
	StorageOptions []string
	MinDaysLeft    int

	Assessment  *risk.Assessment
	MessageHTML template.HTML
	AdviceHTML  template.HTML
	ShowRecipes bool

	Recipes      *ops.RecipesOutput
	History      []session.Entry
	CatalogError string
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Code       string
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string) (*Renderer, error) {
	funcMap := template.FuncMap{
		"formatTime":   formatTime,
		"formatNumber": formatNumber,
		"labelName":    func(l risk.Label) string { return l.DisplayName() },
		"labelClass":   labelClass,
	}

	layoutTmpl, err := template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	pages := map[string]string{
		"index": "index.html",
		"error": "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t, err := layoutTmpl.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout: %w", err)
		}
		if _, err := t.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
	}, nil
}

// renderPage renders a named page template with the given data and HTTP 200 status.
func (r *Renderer) renderPage(w http.ResponseWriter, name string, data any) {
	r.renderPageStatus(w, http.StatusOK, name, data)
}

// renderPageStatus renders a named page template with the given data and HTTP status code.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		logging.Error().Str("template", name).Msg("template not found")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		logging.Error().Err(err).Str("template", name).Msg("template execution error")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error response with content negotiation.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	ecoErr, ok := errors.As(err)
	if !ok {
		ecoErr = errors.NewInternal(err)
	}
	if ecoErr.Code == errors.ErrInternal {
		logging.Error().Err(err).Str("path", req.URL.Path).Msg("request failed")
	}

	if strings.Contains(req.Header.Get("Accept"), "application/json") {
		renderJSONError(w, ecoErr)
		return
	}

	r.renderPageStatus(w, ecoErr.Status, "error", ErrorPageData{
		PageData: PageData{
			Title:   fmt.Sprintf("Error %d", ecoErr.Status),
			Version: r.version,
		},
		StatusCode: ecoErr.Status,
		Code:       string(ecoErr.Code),
		Message:    publicMessage(ecoErr),
	})
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderJSONError writes err as {"error": {...}}. Internal errors carry no details.
func renderJSONError(w http.ResponseWriter, err *errors.EcoError) {
	errorObj := map[string]any{
		"code":    string(err.Code),
		"message": publicMessage(err),
		"status":  err.Status,
	}
	if err.Code != errors.ErrInternal && err.Details != nil {
		errorObj["details"] = err.Details
	}
	renderJSON(w, err.Status, map[string]any{"error": errorObj})
}

func publicMessage(err *errors.EcoError) string {
	if err.Code == errors.ErrInternal {
		return "an internal error occurred"
	}
	return err.Message
}

// renderMarkdown converts markdown text to HTML using goldmark.
func renderMarkdown(md string) template.HTML {
	if md == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// formatTime formats t as "15:04:05" UTC.
func formatTime(t time.Time) string {
	return t.UTC().Format("15:04:05")
}

// formatNumber drops a zero fractional part: 30 -> "30", 12.5 -> "12.5".
func formatNumber(f float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}

// labelClass maps a label to its CSS modifier.
func labelClass(l risk.Label) string {
	switch l {
	case risk.Expired, risk.ExpiresToday:
		return "error"
	case risk.HighRisk:
		return "warning"
	default:
		return "success"
	}
}
