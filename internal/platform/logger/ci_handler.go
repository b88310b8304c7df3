package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// CIHandler is a slog.Handler that adds CI environment metadata to every
// log record, so that logs from parallel CI jobs can be told apart.
type CIHandler struct {
	handler  slog.Handler
	metadata []slog.Attr
}

// NewCIHandler creates a new CIHandler that wraps a JSON handler writing to out.
func NewCIHandler(out io.Writer, opts *slog.HandlerOptions) *CIHandler {
	var handlerOpts slog.HandlerOptions
	if opts != nil {
		handlerOpts = *opts
	}

	return &CIHandler{
		handler:  slog.NewJSONHandler(out, &handlerOpts),
		metadata: getCIMetadata(),
	}
}

// Enabled implements the slog.Handler interface.
func (h *CIHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// WithAttrs implements the slog.Handler interface.
func (h *CIHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CIHandler{handler: h.handler.WithAttrs(attrs), metadata: h.metadata}
}

// WithGroup implements the slog.Handler interface.
func (h *CIHandler) WithGroup(name string) slog.Handler {
	return &CIHandler{handler: h.handler.WithGroup(name), metadata: h.metadata}
}

// Handle implements the slog.Handler interface.
func (h *CIHandler) Handle(ctx context.Context, record slog.Record) error {
	enhanced := record.Clone()
	enhanced.AddAttrs(h.metadata...)
	return h.handler.Handle(ctx, enhanced)
}

// ciMetadataVars maps CI environment variables to the log attribute they populate.
var ciMetadataVars = map[string]string{
	"GITHUB_RUN_ID":       "ci_run_id",
	"GITHUB_JOB":          "ci_job",
	"GITHUB_SHA":          "ci_commit",
	"GITHUB_REF_NAME":     "ci_ref",
	"CI_PIPELINE_ID":      "ci_pipeline_id",
	"CI_JOB_NAME":         "ci_job_name",
	"CI_COMMIT_SHORT_SHA": "ci_commit_short",
}

func getCIMetadata() []slog.Attr {
	attrs := []slog.Attr{slog.Bool("ci", true)}
	for envVar, key := range ciMetadataVars {
		if value := os.Getenv(envVar); value != "" {
			attrs = append(attrs, slog.String(key, value))
		}
	}
	return attrs
}

// isInCIEnvironment reports whether the process runs under a CI system.
func isInCIEnvironment() bool {
	return os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" || os.Getenv("GITLAB_CI") != ""
}
