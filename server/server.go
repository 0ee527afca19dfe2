// Package server exposes the compilation pipeline over HTTP: a POST
// convert endpoint, a concurrent batch variant, a websocket channel for
// editor integration, and read-only tool identity and health surfaces.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/spectralabs/shaderport/errors"
	"github.com/spectralabs/shaderport/pipeline"
	"github.com/spectralabs/shaderport/toolchain"
)

// Compiler runs one compilation request. Satisfied by pipeline.Pipeline;
// tests substitute stubs.
type Compiler interface {
	Compile(ctx context.Context, req pipeline.Request) (pipeline.Result, error)
}

// Options configures a Server.
type Options struct {
	AllowedOrigins []string
	// RatePerSecond and RateBurst bound compile admission; zero values
	// disable rate limiting.
	RatePerSecond float64
	RateBurst     int
	Logger        *zap.SugaredLogger
}

// Server handles the HTTP surface around one Compiler.
type Server struct {
	compiler       Compiler
	tools          toolchain.Config
	prober         toolchain.Runner
	limiter        *rate.Limiter
	allowedOrigins []string
	logger         *zap.SugaredLogger

	// toolStatus is captured once at construction for the read-only
	// identity endpoint; /health re-probes live.
	toolStatus []toolchain.ToolStatus

	mux        *http.ServeMux
	httpServer *http.Server
}

// New builds a Server and captures tool identity at startup.
func New(compiler Compiler, tools toolchain.Config, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	var limiter *rate.Limiter
	if opts.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), opts.RateBurst)
	}

	prober := toolchain.NewExecRunner(tools.OutputLimit)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	status := toolchain.ProbeAll(ctx, prober, tools)
	for _, st := range status {
		logger.Infow("Probed external tool",
			"tool", st.Tool,
			"available", st.Available,
			"version", st.Version,
		)
	}

	s := &Server{
		compiler:       compiler,
		tools:          tools,
		prober:         prober,
		limiter:        limiter,
		allowedOrigins: opts.AllowedOrigins,
		logger:         logger,
		toolStatus:     status,
		mux:            http.NewServeMux(),
	}
	s.setupHTTPRoutes()
	return s
}

// Handler returns the server's HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start listens on the given port and blocks until the server stops.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Infow("Server ready",
		"url", fmt.Sprintf("http://localhost:%d", port),
		"port", port,
	)

	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return errors.Wrap(err, "http server failed")
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Infow("Initiating server shutdown")
	return s.httpServer.Shutdown(ctx)
}
