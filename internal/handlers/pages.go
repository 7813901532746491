package handlers

import (
	"html/template"
	"log"
	"net/http"
	"strconv"

	"city-group-router/internal/models"
)

// TemplateSet holds base templates and page templates separately
type TemplateSet struct {
	Base  *template.Template
	Pages map[string]string
	Funcs template.FuncMap
}

// RunsPage is the data behind the run list page
type RunsPage struct {
	Title  string
	Runs   []models.Run
	Total  int
	Limit  int
	Offset int
}

// RunPage is the data behind a single run page
type RunPage struct {
	Title   string
	Run     *models.Run
	Groups  []models.RunGroup
	Summary *models.RunSummary
}

// renderTemplate renders a page inside layout.html, or a partial on its own
func (h *Handler) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	// Always clone to avoid "cannot Clone after executed" error
	tmpl, err := h.Templates.Base.Clone()
	if err != nil {
		log.Printf("[ERROR] Template clone error: template=%s err=%v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if pageContent, ok := h.Templates.Pages[name]; ok {
		if _, err := tmpl.New(name).Parse(pageContent); err != nil {
			log.Printf("[ERROR] Template parse error: template=%s err=%v", name, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
			log.Printf("[ERROR] Template execute error: template=%s err=%v", name, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("[ERROR] Template partial error: template=%s err=%v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// HandleRunsPage handles GET /
func (h *Handler) HandleRunsPage(w http.ResponseWriter, r *http.Request) {
	page := RunsPage{Title: "Runs", Limit: 50}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		page.Limit = min(l, 500)
	}
	if o, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && o >= 0 {
		page.Offset = o
	}

	runs, total, err := h.DB.Runs().List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		log.Printf("[ERROR] Failed to list runs: err=%v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	page.Runs = runs
	page.Total = total
	h.renderTemplate(w, "runs.html", page)
}

// HandleRunPage handles GET /runs/{id}
func (h *Handler) HandleRunPage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseRunID(w, r)
	if !ok {
		return
	}

	run, groups, summary, err := h.DB.Runs().GetByID(r.Context(), id)
	if err != nil {
		if h.checkNotFound(err) {
			http.NotFound(w, r)
			return
		}
		log.Printf("[ERROR] Failed to get run: id=%d err=%v", id, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.renderTemplate(w, "run.html", RunPage{
		Title:   "Run " + strconv.FormatInt(run.ID, 10) + " · " + run.InstanceName,
		Run:     run,
		Groups:  groups,
		Summary: summary,
	})
}
