// Package server exposes meeting context extraction over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"meetctx/internal/models"
	"meetctx/internal/page"
	"meetctx/internal/service"
	"meetctx/pkg/logger"
)

// maxBatch caps the number of pages in one batch request.
const maxBatch = 100

type Server struct {
	echo    *echo.Echo
	svc     *service.Service
	log     *logger.Logger
	timeout time.Duration
}

// New wires the routes. timeout bounds the work for one page.
func New(svc *service.Service, log *logger.Logger, timeout time.Duration) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			log.Infof("%s %s %d %s", c.Request().Method, c.Request().URL.Path, c.Response().Status, time.Since(start))
			return err
		}
	})

	s := &Server{echo: e, svc: svc, log: log, timeout: timeout}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/context", s.handleContext)
	v1.POST("/context/fetch", s.handleFetch)
	v1.POST("/context/batch", s.handleBatch)
}

// ContextRequest carries a query together with the page it is asked about.
type ContextRequest struct {
	Type string `json:"type"`
	URL  string `json:"url"`
	HTML string `json:"html"`
}

type FetchRequest struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type BatchRequest struct {
	Pages []models.PageRef `json:"pages"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleContext answers a query against an HTML snapshot posted by the caller.
func (s *Server) handleContext(c echo.Context) error {
	var req ContextRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.HTML) == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payload"})
	}
	doc, err := s.svc.Parser.ParseString(req.HTML, req.URL)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	}
	return s.answer(c, req.Type, page.Static{Page: doc})
}

// handleFetch fetches the page itself before answering.
func (s *Server) handleFetch(c echo.Context) error {
	var req FetchRequest
	if err := c.Bind(&req); err != nil || req.URL == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payload"})
	}
	src, err := s.svc.Source(models.PageRef{URL: req.URL})
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	return s.answer(c, req.Type, src)
}

func (s *Server) handleBatch(c echo.Context) error {
	var req BatchRequest
	if err := c.Bind(&req); err != nil || len(req.Pages) == 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payload"})
	}
	if len(req.Pages) > maxBatch {
		return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "too many pages"})
	}
	// files are only readable by local callers of the CLI
	for i := range req.Pages {
		req.Pages[i].File = ""
	}
	results := s.svc.Batch(c.Request().Context(), req.Pages, s.timeout)
	return c.JSON(http.StatusOK, results)
}

// answer routes the query through the responder. An unrecognised type gets a
// 404 since nothing on this endpoint handles it.
func (s *Server) answer(c echo.Context, typ string, src page.Source) error {
	if typ == "" {
		typ = models.TypeGetMeetingContext
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), s.timeout)
	defer cancel()

	var snap models.MeetingSnapshot
	handled := s.svc.Responder(src).Handle(ctx, models.Message{Type: typ}, func(v any) error {
		snap = v.(models.MeetingSnapshot)
		return nil
	})
	if !handled {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "unhandled message type " + typ})
	}
	return c.JSON(http.StatusOK, snap)
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("server listening on %s", addr)
		if err := s.echo.Start(addr); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Infof("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.echo }
