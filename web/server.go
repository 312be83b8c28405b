package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Outurnate/stormwatch/camera"
	"github.com/Outurnate/stormwatch/library"
)

// Server is the HTTP front end: a single net/http.ServeMux wired to the
// route table, wrapped in a request-logging middleware.
type Server struct {
	address string
	port    int
	logger  *zap.Logger

	handlers   *Handlers
	httpServer *http.Server
}

// NewServer builds a Server bound to the given camera and library.
func NewServer(address string, port int, cam *camera.Camera, lib *library.Library, logger *zap.Logger) *Server {
	return &Server{
		address:  address,
		port:     port,
		logger:   logger,
		handlers: NewHandlers(cam, lib, logger),
	}
}

// Start sets up routes and begins serving in the background. Any unmatched
// path reaches the "/" catch-all, where HandleIndex answers 404 for
// anything other than "/" itself.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handlers.HandleIndex)
	mux.HandleFunc("/live.jpeg", s.handlers.HandleLivePreview)
	mux.HandleFunc("/stats", s.handlers.HandleStats)
	mux.HandleFunc("/clips", s.handlers.HandleClipList)
	mux.HandleFunc("/clips/", s.handlers.HandleClipFile)
	mux.HandleFunc("/settings", s.handlers.HandleSettings)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.address, s.port),
		Handler:      s.addMiddleware(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", zap.Error(err))
		}
	}()

	s.logger.Info("web server started", zap.String("address", s.httpServer.Addr))
	return nil
}

// addMiddleware wraps handler with request logging, matching the
// teacher's loggingResponseWriter pattern.
func (s *Server) addMiddleware(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler.ServeHTTP(lw, r)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", lw.statusCode),
			zap.Duration("duration", time.Since(start)))
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lw *loggingResponseWriter) WriteHeader(code int) {
	lw.statusCode = code
	lw.ResponseWriter.WriteHeader(code)
}

// Stop gracefully shuts the HTTP server down.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
