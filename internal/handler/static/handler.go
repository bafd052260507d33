package static

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	site "github.com/aaronjt12/bw-sms-backend/internal/static"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates returns the informational pages for gin's SetHTMLTemplate
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

type Config struct {
	Environment string
	Port        int
	MapsKeyName string
}

type Handler struct {
	site     *site.Site
	injector *site.Injector
	cfg      Config
	lookup   site.LookupFunc
	environ  func() []string
	getwd    func() (string, error)
	logger   zerolog.Logger
}

func NewHandler(s *site.Site, injector *site.Injector, cfg Config, logger zerolog.Logger) *Handler {
	return &Handler{
		site:     s,
		injector: injector,
		cfg:      cfg,
		lookup:   os.LookupEnv,
		environ:  os.Environ,
		getwd:    os.Getwd,
		logger:   logger.With().Str("component", "static_handler").Logger(),
	}
}

// RegisterRoutes mounts the fixed routes. The diagnostics route is only
// added when withDebug is set; callers must never set it in production.
func (h *Handler) RegisterRoutes(r gin.IRoutes, withDebug bool) {
	r.GET("/health", h.Health)
	r.GET("/error", h.ErrorPage)
	r.GET("/maps-error", h.MapsErrorPage)
	if withDebug {
		r.GET("/debug", h.Debug)
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func (h *Handler) ErrorPage(c *gin.Context) {
	c.HTML(http.StatusOK, "error.html", nil)
}

func (h *Handler) MapsErrorPage(c *gin.Context) {
	host := c.Request.Host
	value, ok := h.lookup(h.cfg.MapsKeyName)

	c.HTML(http.StatusOK, "maps-error.html", gin.H{
		"Host":          host,
		"KeyName":       h.cfg.MapsKeyName,
		"KeyConfigured": ok && value != "",
		"Referrers": []string{
			"http://" + host + "/*",
			"https://" + host + "/*",
		},
	})
}

// Debug lists environment variable names only. Values are shown for the
// public keys, which every served page already exposes.
func (h *Handler) Debug(c *gin.Context) {
	cwd, err := h.getwd()
	if err != nil {
		cwd = ""
	}

	resp := gin.H{
		"environment": h.cfg.Environment,
		"port":        h.cfg.Port,
		"cwd":         cwd,
		"staticRoot":  h.site.Root(),
		"envKeys":     h.envNames(),
		"publicEnv":   h.injector.Values(),
	}

	files, err := h.site.Listing()
	if err != nil {
		resp["files"] = []string{}
		resp["filesError"] = "static root is not readable"
	} else {
		resp["files"] = files
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) envNames() []string {
	env := h.environ()
	names := make([]string, 0, len(env))
	for _, kv := range env {
		if name, _, ok := strings.Cut(kv, "="); ok && name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Serve handles everything the fixed routes do not: injected documents,
// assets, then the root document for client side routes
func (h *Handler) Serve(c *gin.Context) {
	method := c.Request.Method
	if method != http.MethodGet && method != http.MethodHead {
		c.String(http.StatusNotFound, "Not found")
		return
	}

	p := c.Request.URL.Path
	if site.IsDocument(p) && h.document(c, p) {
		return
	}
	if name, ok := h.site.Asset(p); ok && !site.IsDocument(p) {
		c.File(name)
		return
	}
	if h.document(c, "/") {
		return
	}
	c.String(http.StatusNotFound, "Not found")
}

// document writes the rendered file and reports whether it did
func (h *Handler) document(c *gin.Context, p string) bool {
	doc, err := h.site.Document(p)
	if errors.Is(err, site.ErrNotFound) {
		return false
	}
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Internal server error")
		return true
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", doc)
	return true
}
