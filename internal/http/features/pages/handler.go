package pages

import (
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/collectivehq/admin-gate/internal/http/middleware"
	"github.com/collectivehq/admin-gate/pkg/domain"
)

// Handler renders the minimal gate pages for one realm.
type Handler struct {
	templates *template.Template
	realm     domain.RealmConfig
}

// NewHandler creates a pages handler for a realm.
func NewHandler(templatesDir string, realm domain.RealmConfig) (*Handler, error) {
	tmpl, err := template.ParseGlob(filepath.Join(templatesDir, "*.html"))
	if err != nil {
		return nil, err
	}

	return &Handler{
		templates: tmpl,
		realm:     realm,
	}, nil
}

// PageData holds data for template rendering.
type PageData struct {
	Title      string
	Realm      string
	LoginURL   string
	VerifyURL  string
	SignOutURL string
	Email      string
}

// Login renders the realm's login page.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", PageData{
		Title:    "Sign In",
		Realm:    string(h.realm.Realm),
		LoginURL: h.realm.LoginPath(),
	})
}

// Verify renders the realm's verification page.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	h.render(w, "verify.html", PageData{
		Title:     "Console Verification",
		Realm:     string(h.realm.Realm),
		VerifyURL: h.realm.VerifyPath(),
	})
}

// Dashboard renders the console landing page.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := PageData{
		Title:      "Console",
		Realm:      string(h.realm.Realm),
		SignOutURL: h.realm.PathPrefix + "/signout",
	}
	if principal, ok := middleware.GetPrincipal(r.Context()); ok {
		data.Email = principal.Email
	}
	h.render(w, "dashboard.html", data)
}

// Unauthorized renders the page shown when whitelist membership is gone.
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	h.render(w, "unauthorized.html", PageData{
		Title: "Not Authorized",
		Realm: string(h.realm.Realm),
	})
}

func (h *Handler) render(w http.ResponseWriter, tmpl string, data PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, tmpl, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
