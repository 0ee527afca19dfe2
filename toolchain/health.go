package toolchain

import (
	"context"
	"strings"
	"time"
)

// ToolStatus describes one external tool as seen from this process.
type ToolStatus struct {
	Tool      Tool   `json:"tool"`
	Path      string `json:"path"`
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
}

// probeTimeout bounds the harmless-flag invocation used for readiness.
const probeTimeout = 5 * time.Second

// probeArgs returns the harmless flag each tool is invoked with for a
// readiness check. The tools disagree on conventions, so these are fixed
// per tool rather than guessed.
func probeArgs(t Tool) []string {
	switch t {
	case ToolSlangc:
		return []string{"-v"}
	case ToolGlslang:
		return []string{"--version"}
	case ToolSpirvCross:
		return []string{"--help"}
	}
	return []string{"--version"}
}

// Probe checks one tool by invoking it with a harmless flag. A process
// that launched and produced any output counts as available, even with a
// nonzero exit: several of these tools exit 1 on --help.
func Probe(ctx context.Context, r Runner, cfg Config, t Tool) ToolStatus {
	status := ToolStatus{Tool: t, Path: cfg.Path(t)}

	res, err := r.Run(ctx, cfg.Path(t), probeArgs(t), "", probeTimeout)
	if err != nil {
		return status
	}

	combined := strings.TrimSpace(res.Stdout + res.Stderr)
	if combined == "" {
		return status
	}

	status.Available = true
	status.Version = firstLine(combined)
	return status
}

// ProbeAll probes every tool the pipeline can invoke.
func ProbeAll(ctx context.Context, r Runner, cfg Config) []ToolStatus {
	statuses := make([]ToolStatus, 0, len(Tools()))
	for _, t := range Tools() {
		statuses = append(statuses, Probe(ctx, r, cfg, t))
	}
	return statuses
}

// Ready reports whether every tool is available.
func Ready(statuses []ToolStatus) bool {
	for _, s := range statuses {
		if !s.Available {
			return false
		}
	}
	return len(statuses) > 0
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}
