// Package server exposes card previews and exports over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	bizcard "github.com/porticus-lab/go-bizcard"
)

// Service is the card pipeline the server drives. [*bizcard.Generator]
// implements it.
type Service interface {
	Generate(ctx context.Context, userID, themeColor string) (bizcard.CardData, error)
	Export(ctx context.Context, d bizcard.CardData, v bizcard.Variant) (*bizcard.Document, error)
}

// Server is the HTTP front end.
type Server struct {
	engine   *gin.Engine
	svc      Service
	capturer bizcard.Capturer
	capture  bizcard.CaptureOptions
	theme    string
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithCapturer enables the PNG face endpoint.
func WithCapturer(c bizcard.Capturer) Option {
	return func(s *Server) { s.capturer = c }
}

// WithCaptureOptions sets the pixel ratio and backdrop of the PNG face
// endpoint. Defaults to [bizcard.DefaultCaptureOptions].
func WithCaptureOptions(o bizcard.CaptureOptions) Option {
	return func(s *Server) { s.capture = o }
}

// WithDefaultTheme sets the theme used when a request has none.
func WithDefaultTheme(color string) Option {
	return func(s *Server) { s.theme = color }
}

// New builds the router.
func New(svc Service, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		svc:     svc,
		capture: bizcard.DefaultCaptureOptions(),
		theme:   bizcard.DefaultThemeColor,
		logger:  logger.With(slog.String("component", "http")),
	}
	for _, o := range opts {
		o(s)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(s.requestLogger())

	engine.GET("/healthz", s.handleHealth)
	cards := engine.Group("/cards/:userID")
	cards.GET("/data", s.handleData)
	cards.GET("/preview", s.handlePreview)
	cards.GET("/image", s.handleImage)
	cards.GET("/pdf", s.handlePDF)

	s.engine = engine
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server_listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server_stopped")
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("http_request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// request holds the parsed common query parameters.
type request struct {
	userID  string
	theme   string
	variant bizcard.Variant
	side    bizcard.Side
}

func (s *Server) parse(c *gin.Context) (request, error) {
	r := request{
		userID: c.Param("userID"),
		theme:  c.DefaultQuery("theme", s.theme),
	}
	var err error
	if r.variant, err = bizcard.ParseVariant(c.DefaultQuery("variant", string(bizcard.Classic))); err != nil {
		return r, err
	}
	if r.side, err = bizcard.ParseSide(c.DefaultQuery("side", string(bizcard.Front))); err != nil {
		return r, err
	}
	if _, err = bizcard.ParseHex(r.theme); err != nil {
		return r, err
	}
	return r, nil
}

func (s *Server) load(c *gin.Context) (request, bizcard.CardData, bool) {
	r, err := s.parse(c)
	if err != nil {
		s.fail(c, err)
		return r, bizcard.CardData{}, false
	}
	d, err := s.svc.Generate(c.Request.Context(), r.userID, r.theme)
	if err != nil {
		s.fail(c, err)
		return r, bizcard.CardData{}, false
	}
	return r, d, true
}

func (s *Server) handleData(c *gin.Context) {
	_, d, ok := s.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) handlePreview(c *gin.Context) {
	r, d, ok := s.load(c)
	if !ok {
		return
	}
	face, err := bizcard.Render(d, r.side, r.variant)
	if err != nil {
		s.fail(c, err)
		return
	}
	page, err := bizcard.PreviewPage(face)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

func (s *Server) handleImage(c *gin.Context) {
	if s.capturer == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "image capture is disabled"})
		return
	}
	r, d, ok := s.load(c)
	if !ok {
		return
	}
	face, err := bizcard.Render(d, r.side, r.variant)
	if err != nil {
		s.fail(c, err)
		return
	}
	png, err := s.capturer.Capture(c.Request.Context(), face, s.capture)
	if err != nil {
		s.fail(c, &bizcard.CaptureError{Side: r.side, Err: err})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (s *Server) handlePDF(c *gin.Context) {
	r, d, ok := s.load(c)
	if !ok {
		return
	}
	doc, err := s.svc.Export(c.Request.Context(), d, r.variant)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	c.Data(http.StatusOK, "application/pdf", doc.Bytes())
}

func (s *Server) fail(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request_failed", slog.String("path", c.FullPath()), slog.Any("error", err))
	} else {
		s.logger.Warn("request_rejected", slog.String("path", c.FullPath()), slog.Any("error", err))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": bizcard.UserMessage(err)})
}

// StatusFor maps pipeline errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, bizcard.ErrMissingUserContext),
		errors.Is(err, bizcard.ErrInvalidColorFormat),
		errors.Is(err, bizcard.ErrUnknownVariant),
		errors.Is(err, bizcard.ErrUnknownSide),
		errors.Is(err, bizcard.ErrNoCardData):
		return http.StatusBadRequest
	case errors.Is(err, bizcard.ErrFetchFailure):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
