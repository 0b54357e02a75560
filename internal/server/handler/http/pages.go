package http

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/atinyakov/PolicyFinder/internal/favorites"
	"github.com/atinyakov/PolicyFinder/internal/middleware"
	"github.com/atinyakov/PolicyFinder/internal/models"
	"github.com/atinyakov/PolicyFinder/internal/view"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// siteTitle is the site name shown in the header and the page title.
const siteTitle = "정부 정책 및 지원금 정보"

// PolicyService defines the read operations the pages and the API need.
type PolicyService interface {
	ListPolicies(ctx context.Context) ([]models.Policy, error)
	GetPolicy(ctx context.Context, id int64) (*models.Policy, error)
}

// FeedbackService stores visitor feedback.
type FeedbackService interface {
	Submit(ctx context.Context, comment string, policyID *int64) error
}

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"text": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"idval": func(id *int64) string {
		if id == nil {
			return ""
		}
		return strconv.FormatInt(*id, 10)
	},
}

var templates = map[string]*template.Template{
	"index":    mustParse("index.html"),
	"detail":   mustParse("detail.html"),
	"feedback": mustParse("feedback.html"),
	"notfound": mustParse("notfound.html"),
}

func mustParse(page string) *template.Template {
	return template.Must(template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS,
		"templates/layout.html", "templates/partials.html", "templates/"+page))
}

// PageHandler renders the HTML pages.
type PageHandler struct {
	Policies PolicyService
	Feedback FeedbackService
	// PublicURL is the externally visible site root used for share links.
	// When empty the request host is used.
	PublicURL string
	// AdClient enables the ad script when set.
	AdClient string
	Log      *zap.Logger
}

type page struct {
	Title    string
	AdClient string
	Year     int
}

type indexPage struct {
	page
	State     string
	Error     string
	Filter    view.Filter
	Policies  []models.Policy
	Regions   []string
	Targets   []string
	Favorites map[int64]bool
	ReturnTo  string
	Feedback  *view.FeedbackForm
}

type detailPage struct {
	page
	State         string
	Error         string
	Policy        *models.Policy
	Favorite      bool
	Location      string
	FacebookURL   string
	TwitterURL    string
	CopiedMessage string
	CopyFailed    string
	CopyTTLMillis int64
	Feedback      *view.FeedbackForm
}

type feedbackPage struct {
	page
	Form    *view.FeedbackForm
	BackURL string
}

func (h *PageHandler) log(r *http.Request) *zap.Logger {
	return requestLogger(h.Log, r)
}

// requestLogger tags log with the id WithRequestLogging assigned to r.
func requestLogger(log *zap.Logger, r *http.Request) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log.With(zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())))
}

func (h *PageHandler) page(title string) page {
	if title == "" {
		title = siteTitle
	} else {
		title += " | " + siteTitle
	}
	return page{Title: title, AdClient: h.AdClient, Year: time.Now().Year()}
}

// Index handles GET /. The q, region and target query parameters seed the
// listing filters.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	l := view.NewListing(h.Policies, h.log(r))
	l.SearchTerm = q.Get("q")
	if v := q.Get("region"); v != "" {
		l.SelectedRegion = v
	}
	if v := q.Get("target"); v != "" {
		l.SelectedTarget = v
	}
	l.Load(r.Context())

	favs := h.favorites(w, r)
	set := make(map[int64]bool, len(favs.IDs()))
	for _, id := range favs.IDs() {
		set[id] = true
	}

	status := http.StatusOK
	if l.State() == view.StateError {
		status = http.StatusBadGateway
	}
	h.render(w, r, status, "index", indexPage{
		page:      h.page(""),
		State:     l.State().String(),
		Error:     l.Error(),
		Filter:    l.Filter(),
		Policies:  l.Displayed(),
		Regions:   models.Regions,
		Targets:   models.Targets,
		Favorites: set,
		ReturnTo:  r.URL.RequestURI(),
		Feedback:  view.NewFeedbackForm(h.Feedback, nil, h.log(r)),
	})
}

// Detail handles GET /policy/{id}.
func (h *PageHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	d := view.NewDetail(h.Policies, h.log(r))
	d.Location = h.location(r)
	d.Load(r.Context(), id)
	defer d.Close()

	data := detailPage{
		State:         d.State().String(),
		Error:         d.Error(),
		Policy:        d.Policy(),
		Location:      d.Location,
		CopiedMessage: view.MsgLinkCopied,
		CopyFailed:    view.MsgLinkCopyFailed,
		CopyTTLMillis: view.DefaultCopyMessageTTL.Milliseconds(),
	}

	status := http.StatusOK
	switch d.State() {
	case view.StateError:
		status = http.StatusBadGateway
		data.page = h.page("")
	case view.StateNotFound:
		status = http.StatusNotFound
		data.page = h.page(view.MsgNotFound)
	default:
		p := d.Policy()
		data.page = h.page(p.Title)
		data.FacebookURL = d.FacebookShareURL()
		data.TwitterURL = d.TwitterShareURL()
		data.Favorite = h.favorites(w, r).Contains(p.ID)
		data.Feedback = view.NewFeedbackForm(h.Feedback, &p.ID, h.log(r))
	}
	h.render(w, r, status, "detail", data)
}

// ToggleFavorite handles POST /favorites/{id} and redirects back to the
// page named by the return_to form value, or to the listing.
func (h *PageHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid policy id", http.StatusBadRequest)
		return
	}

	favs := h.favorites(w, r)
	if _, err := favs.Toggle(id); err != nil {
		h.log(r).Error("Error saving favorites", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, safeReturn(r.PostFormValue("return_to")), http.StatusSeeOther)
}

// SubmitFeedback handles POST /feedback. The form is rendered again with
// its status message; on failure the typed comment is kept.
func (h *PageHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	var policyID *int64
	if v := r.PostForm.Get("policy_id"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			http.Error(w, "invalid policy id", http.StatusBadRequest)
			return
		}
		policyID = &n
	}

	form := view.NewFeedbackForm(h.Feedback, policyID, h.log(r))
	form.Comment = r.PostForm.Get("comment")

	status := http.StatusOK
	if !form.Submit(r.Context()) {
		status = http.StatusBadGateway
		if strings.TrimSpace(form.Comment) == "" {
			status = http.StatusBadRequest
		}
	}

	back := "/"
	if policyID != nil {
		back = "/policy/" + strconv.FormatInt(*policyID, 10)
	}
	h.render(w, r, status, "feedback", feedbackPage{page: h.page("피드백"), Form: form, BackURL: back})
}

// NotFound renders the not-found page for unknown routes.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "notfound", struct{ page }{h.page(view.MsgNotFound)})
}

// Health handles GET /health.
func (h *PageHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// favorites returns the loaded favorites of the requesting browser.
func (h *PageHandler) favorites(w http.ResponseWriter, r *http.Request) *favorites.Store {
	return loadFavorites(w, r, h.log(r))
}

func loadFavorites(w http.ResponseWriter, r *http.Request, log *zap.Logger) *favorites.Store {
	fs := favorites.New(NewCookieStorage(w, r))
	if _, err := fs.Load(); err != nil {
		log.Warn("Error loading favorites", zap.Error(err))
	}
	return fs
}

// location returns the shareable address of the requested page. Without a
// PublicURL the scheme comes from the connection, or from X-Forwarded-Proto
// when that names http or https.
func (h *PageHandler) location(r *http.Request) string {
	if h.PublicURL != "" {
		return strings.TrimRight(h.PublicURL, "/") + r.URL.RequestURI()
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	switch p := strings.ToLower(r.Header.Get("X-Forwarded-Proto")); p {
	case "http", "https":
		scheme = p
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := templates[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		h.log(r).Error("Error rendering page", zap.String("page", name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// safeReturn keeps redirects on this site.
func safeReturn(path string) string {
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return "/"
	}
	return path
}
