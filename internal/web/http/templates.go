package http

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/whisperlabs/whisperwall/internal/web/domain"
	"github.com/whisperlabs/whisperwall/pkg/slogx"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageNames lists the content templates; each is parsed against the shared
// layout once at startup so a broken template fails the boot, not a request.
var pageNames = []string{"home", "login", "register", "secrets", "submit"}

// PageData is the single view-model handed to every template.
type PageData struct {
	Title string
	Error string        // form error shown above the page content
	User  *domain.User  // authenticated user, nil for anonymous requests
	Users []domain.User // users with shared secrets, /secrets only
}

type Pages struct {
	set map[string]*template.Template
}

func NewPages() (*Pages, error) {
	set := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing page %q: %w", name, err)
		}
		set[name] = tmpl
	}
	return &Pages{set: set}, nil
}

// Render writes the named page. Render failures are logged and answered with
// a bare 500; they indicate a programming error, not user input.
func (p *Pages) Render(w http.ResponseWriter, r *http.Request, name string, data PageData) {
	tmpl, ok := p.set[name]
	if !ok {
		slogx.FromContext(r.Context()).Error("unknown page template", "page", name)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slogx.FromContext(r.Context()).Error("failed to render page", "page", name, "err", err)
	}
}
