package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spectralabs/shaderport/diag"
	"github.com/spectralabs/shaderport/errors"
	"github.com/spectralabs/shaderport/pipeline"
	"github.com/spectralabs/shaderport/toolchain"
	"github.com/spectralabs/shaderport/wrap"
)

// stubCompiler returns a canned result and records requests.
type stubCompiler struct {
	mu     sync.Mutex
	reqs   []pipeline.Request
	result pipeline.Result
	err    error
}

func (s *stubCompiler) Compile(ctx context.Context, req pipeline.Request) (pipeline.Result, error) {
	s.mu.Lock()
	s.reqs = append(s.reqs, req)
	s.mu.Unlock()
	return s.result, s.err
}

func (s *stubCompiler) requests() []pipeline.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]pipeline.Request(nil), s.reqs...)
}

// unavailableTools makes the startup probe fail fast instead of
// searching PATH for real compilers.
func unavailableTools() toolchain.Config {
	cfg := toolchain.DefaultConfig()
	cfg.SlangcPath = "/nonexistent/slangc"
	cfg.GlslangPath = "/nonexistent/glslangValidator"
	cfg.SpirvCrossPath = "/nonexistent/spirv-cross"
	return cfg
}

func newTestServer(t *testing.T, compiler Compiler, opts Options) *Server {
	t.Helper()
	if opts.AllowedOrigins == nil {
		opts.AllowedOrigins = []string{"http://localhost"}
	}
	return New(compiler, unavailableTools(), opts)
}

func postJSON(t *testing.T, handler http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func convertRequest() pipeline.Request {
	return pipeline.Request{
		SourceCode:     "outColor = float4(uv, 0.5, 1.0);\n",
		SourceLanguage: wrap.LangSlang,
		TargetFormat:   pipeline.TargetHlsl,
		ExecutionMode:  wrap.ModeMaterial,
	}
}

func TestConvertSuccess(t *testing.T) {
	stub := &stubCompiler{result: pipeline.Result{
		Outcome:  pipeline.OutcomeSuccess,
		Artifact: "float4 shaded;\n",
	}}
	s := newTestServer(t, stub, Options{})

	rec := postJSON(t, s.Handler(), "/api/convert", convertRequest())

	require.Equal(t, http.StatusOK, rec.Code)
	var result pipeline.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, pipeline.OutcomeSuccess, result.Outcome)
	assert.Equal(t, "float4 shaded;\n", result.Artifact)

	reqs := stub.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, pipeline.TargetHlsl, reqs[0].TargetFormat)
}

func TestConvertCompileFailureIsOK(t *testing.T) {
	// A shader that failed to compile is a successful request.
	stub := &stubCompiler{result: pipeline.Result{
		Outcome:     pipeline.OutcomeFailure,
		FailedStage: "slangc",
		Diagnostics: []diag.Diagnostic{{Line: 3, Severity: diag.SeverityError, Message: "bad"}},
	}}
	s := newTestServer(t, stub, Options{})

	rec := postJSON(t, s.Handler(), "/api/convert", convertRequest())

	require.Equal(t, http.StatusOK, rec.Code)
	var result pipeline.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, pipeline.OutcomeFailure, result.Outcome)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, 3, result.Diagnostics[0].Line)
}

func TestConvertMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, &stubCompiler{}, Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/convert", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestConvertInvalidJSON(t *testing.T) {
	s := newTestServer(t, &stubCompiler{}, Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/convert", strings.NewReader("{nope"))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConvertMissingSource(t *testing.T) {
	stub := &stubCompiler{}
	s := newTestServer(t, stub, Options{})

	req := convertRequest()
	req.SourceCode = ""
	rec := postJSON(t, s.Handler(), "/api/convert", req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, stub.requests())
}

func TestConvertToolUnavailable(t *testing.T) {
	stub := &stubCompiler{err: errors.Wrap(errors.ErrToolUnavailable, "cannot launch slangc")}
	s := newTestServer(t, stub, Options{})

	rec := postJSON(t, s.Handler(), "/api/convert", convertRequest())

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestConvertInternalError(t *testing.T) {
	stub := &stubCompiler{err: errors.Wrap(errors.ErrWorkspace, "disk full")}
	s := newTestServer(t, stub, Options{})

	rec := postJSON(t, s.Handler(), "/api/convert", convertRequest())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// The raw error never leaks to the client.
	assert.NotContains(t, rec.Body.String(), "disk full")
}

func TestConvertBatch(t *testing.T) {
	stub := &stubCompiler{result: pipeline.Result{Outcome: pipeline.OutcomeSuccess, Artifact: "ok"}}
	s := newTestServer(t, stub, Options{})

	rec := postJSON(t, s.Handler(), "/api/convert/batch", batchRequest{
		SourceCode:     "outColor = float4(1.0, 1.0, 1.0, 1.0);\n",
		SourceLanguage: wrap.LangSlang,
		ExecutionMode:  wrap.ModeMaterial,
		Targets:        []pipeline.Target{pipeline.TargetGlsl, pipeline.TargetHlsl, pipeline.TargetWgsl},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp batchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Results, 3)
	assert.Contains(t, resp.Results, pipeline.TargetWgsl)

	reqs := stub.requests()
	require.Len(t, reqs, 3)
	seen := make(map[pipeline.Target]bool)
	for _, r := range reqs {
		seen[r.TargetFormat] = true
	}
	assert.Len(t, seen, 3)
}

func TestConvertBatchNoTargets(t *testing.T) {
	s := newTestServer(t, &stubCompiler{}, Options{})

	rec := postJSON(t, s.Handler(), "/api/convert/batch", batchRequest{
		SourceCode: "x",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTargetsEndpoint(t *testing.T) {
	s := newTestServer(t, &stubCompiler{}, Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/targets", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp targetsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, pipeline.Targets(), resp.Targets)
	assert.Len(t, resp.Tools, 3)
}

func TestHealthDegradedWhenToolsMissing(t *testing.T) {
	s := newTestServer(t, &stubCompiler{}, Options{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Len(t, resp.Tools, 3)
}

func TestRateLimit(t *testing.T) {
	stub := &stubCompiler{result: pipeline.Result{Outcome: pipeline.OutcomeSuccess}}
	s := newTestServer(t, stub, Options{RatePerSecond: 1, RateBurst: 1})

	first := postJSON(t, s.Handler(), "/api/convert", convertRequest())
	second := postJSON(t, s.Handler(), "/api/convert", convertRequest())

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Len(t, stub.requests(), 1)
}

func TestCORSAllowedOrigin(t *testing.T) {
	s := newTestServer(t, &stubCompiler{}, Options{AllowedOrigins: []string{"http://localhost", "tauri://localhost"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/convert", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSDisallowedOrigin(t *testing.T) {
	s := newTestServer(t, &stubCompiler{}, Options{AllowedOrigins: []string{"http://localhost"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/convert", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestWebsocketCompile(t *testing.T) {
	stub := &stubCompiler{result: pipeline.Result{Outcome: pipeline.OutcomeSuccess, Artifact: "compiled"}}
	s := newTestServer(t, stub, Options{})

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(wsCompileRequest{ID: "k1", Request: convertRequest()}))

	var resp wsCompileResponse
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "k1", resp.ID)
	assert.Empty(t, resp.Error)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "compiled", resp.Result.Artifact)
}

func TestWebsocketCompileError(t *testing.T) {
	stub := &stubCompiler{err: errors.Wrap(errors.ErrToolUnavailable, "gone")}
	s := newTestServer(t, stub, Options{})

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(wsCompileRequest{ID: "k2", Request: convertRequest()}))

	var resp wsCompileResponse
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "k2", resp.ID)
	assert.Nil(t, resp.Result)
	assert.Contains(t, resp.Error, "not available")
}
