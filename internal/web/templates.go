package web

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
)

// Templates manages HTML template rendering. Each page is parsed together
// with the layouts and rendered through the "base" layout.
type Templates struct {
	pages map[string]*template.Template
	funcs template.FuncMap
}

// NewTemplates loads all page templates from the given filesystem.
func NewTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{
		pages: make(map[string]*template.Template),
		funcs: templateFuncs(),
	}

	layouts, err := fs.Glob(templatesFS, "layouts/*.html")
	if err != nil {
		return nil, fmt.Errorf("finding layouts: %w", err)
	}

	pages, err := fs.Glob(templatesFS, "pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("finding pages: %w", err)
	}

	for _, page := range pages {
		name := path.Base(page)
		name = name[:len(name)-len(".html")]

		files := append([]string{page}, layouts...)
		tmpl, err := template.New(name).Funcs(t.funcs).ParseFS(templatesFS, files...)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		t.pages[name] = tmpl
	}

	return t, nil
}

// Render renders a page template inside the base layout.
func (t *Templates) Render(w io.Writer, page string, data any) error {
	tmpl, ok := t.pages[page]
	if !ok {
		return fmt.Errorf("template %q not found", page)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		// moodColor maps energy to hue (cool indigo to warm orange) and
		// valence to saturation and lightness.
		"moodColor": func(energy, valence float64) string {
			hue := 264 - (energy * 229)
			if hue < 0 {
				hue += 360
			}
			saturation := 60 + (valence * 40)
			lightness := 40 + (valence * 20)
			return fmt.Sprintf("hsl(%.0f, %.0f%%, %.0f%%)", hue, saturation, lightness)
		},

		// percent renders a 0..1 feature value as a CSS percentage.
		"percent": func(v float64) string {
			return fmt.Sprintf("%.0f%%", v*100)
		},

		"add": func(a, b int) int {
			return a + b
		},
	}
}

// PageData contains common data passed to all page templates.
type PageData struct {
	Title       string
	User        *UserData
	CurrentPath string
}

// UserData contains authenticated user information.
type UserData struct {
	ID   string
	Name string
}

// HomePageData contains data for the home page template.
type HomePageData struct {
	PageData
	Authenticated bool
}

// DashboardPageData contains data for the dashboard page template.
type DashboardPageData struct {
	PageData
	Playlists []PlaylistData
}

// PlaylistData is one selectable playlist on the dashboard.
type PlaylistData struct {
	ID   string
	Name string
}
