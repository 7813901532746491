package server

import (
	"fmt"
	"html/template"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"city-group-router/internal/handlers"
)

// pageFiles are the full pages rendered inside layout.html
var pageFiles = []string{"runs.html", "run.html"}

// Template helper functions
func templateFuncs() template.FuncMap {
	printer := message.NewPrinter(language.English)
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("2006-01-02 15:04")
		},
		"formatScore": func(score int64) string {
			return printer.Sprintf("%d", score)
		},
		"formatMillis": func(ms int64) string {
			return (time.Duration(ms) * time.Millisecond).String()
		},
		"joinInts": func(vals []int) string {
			parts := make([]string, len(vals))
			for i, v := range vals {
				parts[i] = strconv.Itoa(v)
			}
			return strings.Join(parts, " ")
		},
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return max(0, a-b)
		},
	}
}

// loadTemplates loads all templates from the embedded filesystem
func loadTemplates(templatesFS fs.FS) (*handlers.TemplateSet, error) {
	funcs := templateFuncs()
	base := template.New("").Funcs(funcs)

	layoutContent, err := fs.ReadFile(templatesFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to read layout: %w", err)
	}
	if _, err := base.New("layout.html").Parse(string(layoutContent)); err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	partialFiles, err := fs.Glob(templatesFS, "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob partials: %w", err)
	}
	for _, file := range partialFiles {
		content, err := fs.ReadFile(templatesFS, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read partial %s: %w", file, err)
		}
		name := file[len("templates/partials/"):]
		if _, err := base.New(name).Parse(string(content)); err != nil {
			return nil, fmt.Errorf("failed to parse partial %s: %w", file, err)
		}
	}

	// Pages stay as text; each render parses one into a clone of base.
	pages := make(map[string]string)
	for _, name := range pageFiles {
		content, err := fs.ReadFile(templatesFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to read page %s: %w", name, err)
		}
		pages[name] = string(content)
	}

	return &handlers.TemplateSet{
		Base:  base,
		Pages: pages,
		Funcs: funcs,
	}, nil
}
