// Package web serves the portfolio page and its JSON API with gin.
package web

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/Pranavsangichetty/portfolio/internal/analytics"
	"github.com/Pranavsangichetty/portfolio/internal/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

// publicDirs are the seed asset folders served from PublicDir.
var publicDirs = []string{"resumes", "certificates", "internships", "images"}

// Options configures a Server.
type Options struct {
	Sessions      *session.Manager
	Tracker       *analytics.Tracker
	Logger        *slog.Logger
	MaxUploadSize int64
	StatsEnabled  bool
	PublicDir     string
	Version       string
}

// Server wires the gin engine to the session stores.
type Server struct {
	engine        *gin.Engine
	sessions      *session.Manager
	tracker       *analytics.Tracker
	logger        *slog.Logger
	maxUploadSize int64
	version       string
}

func New(opts Options) *Server {
	r := gin.New()
	r.MaxMultipartMemory = opts.MaxUploadSize
	r.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	s := &Server{
		engine:        r,
		sessions:      opts.Sessions,
		tracker:       opts.Tracker,
		logger:        opts.Logger,
		maxUploadSize: opts.MaxUploadSize,
		version:       opts.Version,
	}

	r.Use(recovery(s.logger), requestLogger(s.logger, "/healthz"))
	if s.tracker != nil {
		r.Use(visitorTracking(s.tracker, s.logger))
	}

	if opts.PublicDir != "" {
		for _, dir := range publicDirs {
			r.Static("/"+dir, filepath.Join(opts.PublicDir, dir))
		}
		r.StaticFile("/folio.jpg", filepath.Join(opts.PublicDir, "folio.jpg"))
	}

	r.GET("/healthz", s.health)
	if opts.StatsEnabled && s.tracker != nil {
		r.GET("/stats", s.stats)
	}

	site := r.Group("/", s.sessions.Middleware())
	s.pageRoutes(site)
	s.apiRoutes(site.Group("/api"))

	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) pageRoutes(g *gin.RouterGroup) {
	g.GET("/", s.index)
	g.GET("/dialog/resume", s.newResumeForm)
	g.GET("/dialog/resume/:id", s.editResumeForm)
	g.POST("/resumes", s.saveResume)
	g.POST("/resumes/:id/delete", s.deleteResume)
	g.POST("/projects/:category/upload", s.uploadProjects)
	g.POST("/certificates/upload", s.uploadCertificates)
	g.GET("/contact-form", s.contactForm)
	g.POST("/contact/field", s.setContactField)
	g.POST("/contact", s.submitContact)
	g.GET("/blobs/:handle", s.serveBlob)
}

func (s *Server) apiRoutes(g *gin.RouterGroup) {
	g.GET("/resumes", s.apiListResumes)
	g.PUT("/resumes", s.apiUpsertResume)
	g.DELETE("/resumes/:id", s.apiDeleteResume)

	g.GET("/categories", s.apiCategories)
	g.GET("/projects/:category", s.apiListProjects)
	g.POST("/projects/:category", s.apiUploadProjects)

	g.GET("/certificates", s.apiListCertificates)
	g.POST("/certificates", s.apiUploadCertificates)

	g.GET("/contact", s.apiContactDraft)
	g.PUT("/contact", s.apiSetContactField)
	g.POST("/contact/submit", s.apiSubmitContact)
}
