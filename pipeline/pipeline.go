// Package pipeline orchestrates shader cross-compilation: it wraps the
// user fragment into a complete module, drives the external tool stages
// for the requested target inside a scoped workspace, remaps diagnostics
// on failure and normalizes the artifact on success.
package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spectralabs/shaderport/diag"
	"github.com/spectralabs/shaderport/normalize"
	"github.com/spectralabs/shaderport/toolchain"
	"github.com/spectralabs/shaderport/wrap"
)

// Pipeline runs compilation requests. Requests are independent and
// stateless relative to each other: the only shared state is the
// read-only toolchain configuration, so any number of Compile calls may
// run concurrently, limited only by host process-spawning capacity.
type Pipeline struct {
	tools  toolchain.Config
	runner toolchain.Runner
	logger *zap.SugaredLogger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRunner substitutes the stage runner; tests use recording runners.
func WithRunner(r toolchain.Runner) Option {
	return func(p *Pipeline) { p.runner = r }
}

// WithLogger sets the pipeline logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New builds a Pipeline around an immutable toolchain configuration.
func New(cfg toolchain.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		tools:  cfg,
		runner: toolchain.NewExecRunner(cfg.OutputLimit),
		logger: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Tools returns the pipeline's toolchain configuration.
func (p *Pipeline) Tools() toolchain.Config {
	return p.tools
}

// Compile runs the full stage chain for one request.
//
// Compilation failures — the tool ran and rejected the code, or a stage
// timed out — come back as a Result with Outcome Failure and a nil error;
// they are expected, frequent outcomes, not exceptions. The returned
// error is reserved for operational failures: a tool that could not
// launch (errors.ErrToolUnavailable) or an unusable scratch directory
// (errors.ErrWorkspace).
func (p *Pipeline) Compile(ctx context.Context, req Request) (Result, error) {
	if !req.TargetFormat.Supported() {
		return failureResult("", diag.Diagnostic{
			Line:     diag.LineUnknown,
			Severity: diag.SeverityError,
			Message:  fmt.Sprintf("unsupported target format %q", req.TargetFormat),
		}), nil
	}

	mod, err := wrap.Wrap(req.SourceCode, req.SourceLanguage, req.ExecutionMode)
	if err != nil {
		return failureResult("", diag.Diagnostic{
			Line:     diag.LineUnknown,
			Severity: diag.SeverityError,
			Message:  err.Error(),
		}), nil
	}

	ws, err := newWorkspace()
	if err != nil {
		return Result{}, err
	}
	defer ws.Close(p.logger)

	if err := ws.WriteFile(wrap.EntryFileName(req.SourceLanguage), mod.Source); err != nil {
		return Result{}, err
	}

	stages := p.plan(req)
	for _, st := range stages {
		res, err := p.runner.Run(ctx, p.tools.Path(st.tool), st.args, ws.Dir(), st.timeout)
		if err != nil {
			return Result{}, err
		}

		if !res.ExitedCleanly {
			p.logger.Infow("Stage rejected shader",
				"tool", st.tool,
				"target", req.TargetFormat,
				"timed_out", res.TimedOut,
			)
			return failureResult(string(st.tool),
				p.stageDiagnostics(res, st, mod)...), nil
		}
	}

	final := stages[len(stages)-1]
	artifact, err := ws.ReadFile(final.output)
	if err != nil {
		// The tool exited 0 but wrote nothing; surface as a compilation
		// failure rather than crashing the transport.
		return failureResult(string(final.tool), diag.Diagnostic{
			Line:     diag.LineUnknown,
			Severity: diag.SeverityError,
			Message:  fmt.Sprintf("%s produced no artifact", final.tool),
		}), nil
	}

	if req.TargetFormat.Binary() {
		return Result{
			Outcome:        OutcomeSuccess,
			ArtifactBinary: base64.StdEncoding.EncodeToString(artifact),
		}, nil
	}

	return Result{
		Outcome:  OutcomeSuccess,
		Artifact: normalizeArtifact(req.TargetFormat, string(artifact), req.CleanExport),
	}, nil
}

// stageDiagnostics translates a failed stage's stderr using the wrapped
// module's line bounds. Stages consuming generated intermediates report
// every line as unknown: a position in the intermediate representation
// maps to nothing the user wrote, for trailer code just as for header
// code.
func (p *Pipeline) stageDiagnostics(res toolchain.StageResult, st stage, mod wrap.Module) []diag.Diagnostic {
	ds := diag.Translate(res.Stderr, st.tool, mod.UserLineOffset, mod.UserLineCount)
	if !st.mapsUserLines {
		for i := range ds {
			ds[i].Line = diag.LineUnknown
		}
	}

	// A Failure must never carry an empty diagnostic list.
	if len(ds) == 0 {
		msg := strings.TrimSpace(res.Stderr)
		if msg == "" {
			msg = strings.TrimSpace(res.Stdout)
		}
		if msg == "" {
			msg = fmt.Sprintf("%s failed without output", st.tool)
		}
		ds = []diag.Diagnostic{{
			Line:     diag.LineUnknown,
			Severity: diag.SeverityError,
			Message:  msg,
		}}
	}
	return ds
}

// normalizeArtifact dispatches to the target's normalizer. The switch is
// exhaustive over text targets so adding a target is a compile-visible
// extension point. Raw output is the default: it is always semantically
// valid, and cleanup runs only when the request asks for a clean export.
// The Unreal variant is the exception — raw HLSL is not usable as an
// engine custom-code body, so its normalizer always runs.
func normalizeArtifact(target Target, text string, cleanExport bool) string {
	switch target {
	case TargetHlslUnreal:
		return normalize.Unreal(text)
	case TargetGlsl:
		if cleanExport {
			return normalize.GLSL(text)
		}
	case TargetHlsl:
		if cleanExport {
			return normalize.HLSL(text)
		}
	case TargetWgsl:
		if cleanExport {
			return normalize.WGSL(text)
		}
	case TargetMetal:
		if cleanExport {
			return normalize.Metal(text)
		}
	case TargetSpirv:
		// Binary, never normalized.
	}
	return text
}

func failureResult(failedStage string, ds ...diag.Diagnostic) Result {
	return Result{
		Outcome:     OutcomeFailure,
		Diagnostics: ds,
		FailedStage: failedStage,
	}
}
