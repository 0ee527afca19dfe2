package server

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/spectralabs/shaderport/errors"
	"github.com/spectralabs/shaderport/pipeline"
	"github.com/spectralabs/shaderport/toolchain"
	"github.com/spectralabs/shaderport/wrap"
)

// batchRequest compiles one shader source for several targets at once.
type batchRequest struct {
	SourceCode     string            `json:"source_code"`
	SourceLanguage wrap.Language     `json:"source_language"`
	ExecutionMode  wrap.Mode         `json:"execution_mode"`
	CleanExport    bool              `json:"clean_export"`
	Targets        []pipeline.Target `json:"targets"`
}

type batchResponse struct {
	Results map[pipeline.Target]pipeline.Result `json:"results"`
}

type targetsResponse struct {
	Targets []pipeline.Target      `json:"targets"`
	Tools   []toolchain.ToolStatus `json:"tools"`
}

type healthResponse struct {
	Status string                 `json:"status"`
	Tools  []toolchain.ToolStatus `json:"tools"`
}

// admit applies the compile rate limit. Returns false after writing the
// 429 response.
func (s *Server) admit(w http.ResponseWriter) bool {
	if s.limiter != nil && !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "Compile rate limit exceeded, retry shortly")
		return false
	}
	return true
}

// writeCompileError maps pipeline errors to HTTP status codes. Compile
// failures never reach here; they are reported as a failure Result with
// status 200.
func (s *Server) writeCompileError(w http.ResponseWriter, err error) {
	s.logger.Errorw("Compilation request failed", "error", err)
	switch {
	case errors.IsToolUnavailable(err):
		writeError(w, http.StatusServiceUnavailable, "A required compiler tool is not available on this host")
	case errors.Is(err, errors.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Internal compilation error")
	}
}

// HandleConvert compiles one shader for one target.
// POST /api/convert
func (s *Server) HandleConvert(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if !s.admit(w) {
		return
	}

	var req pipeline.Request
	if err := readJSON(w, r, &req); err != nil {
		return
	}
	if req.SourceCode == "" {
		writeError(w, http.StatusBadRequest, "source_code is required")
		return
	}

	result, err := s.compiler.Compile(r.Context(), req)
	if err != nil {
		s.writeCompileError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleConvertBatch compiles one shader for several targets
// concurrently. Per-target compile failures are reported inline; an
// operational error on any target fails the whole batch.
// POST /api/convert/batch
func (s *Server) HandleConvertBatch(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req batchRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}
	if req.SourceCode == "" {
		writeError(w, http.StatusBadRequest, "source_code is required")
		return
	}
	if len(req.Targets) == 0 {
		writeError(w, http.StatusBadRequest, "targets must name at least one output format")
		return
	}

	// Each target consumes one admission token; a batch is not a way
	// around the rate limit.
	for range req.Targets {
		if !s.admit(w) {
			return
		}
	}

	results := make([]pipeline.Result, len(req.Targets))
	g, ctx := errgroup.WithContext(r.Context())
	for i, target := range req.Targets {
		g.Go(func() error {
			result, err := s.compiler.Compile(ctx, pipeline.Request{
				SourceCode:     req.SourceCode,
				SourceLanguage: req.SourceLanguage,
				TargetFormat:   target,
				ExecutionMode:  req.ExecutionMode,
				CleanExport:    req.CleanExport,
			})
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.writeCompileError(w, err)
		return
	}

	resp := batchResponse{Results: make(map[pipeline.Target]pipeline.Result, len(req.Targets))}
	for i, target := range req.Targets {
		resp.Results[target] = results[i]
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleTargets reports the supported target formats and the tool
// versions captured at startup.
// GET /api/targets
func (s *Server) HandleTargets(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	writeJSON(w, http.StatusOK, targetsResponse{
		Targets: pipeline.Targets(),
		Tools:   s.toolStatus,
	})
}

// HandleHealth probes every external tool live and reports readiness.
// Degraded (some tool missing) still answers 200 so orchestrators can
// distinguish "up but cannot compile" from "down".
// GET /health
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	status := toolchain.ProbeAll(r.Context(), s.prober, s.tools)
	resp := healthResponse{Status: "ok", Tools: status}
	for _, st := range status {
		if !st.Available {
			resp.Status = "degraded"
			break
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
