package llm

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// CallRecorder receives one record per generation call. The metrics store
// implements this; tests use an in-memory recorder.
type CallRecorder interface {
	RecordCall(provider, model string, latency time.Duration, failed bool) error
}

// instrumented decorates a TextGenerator with per-call metrics recording.
// Recording failures are logged and never affect the generation result.
type instrumented struct {
	next     TextGenerator
	provider string
	recorder CallRecorder
	logger   *zap.Logger
}

// NewInstrumented wraps gen so every Complete call is recorded.
func NewInstrumented(gen TextGenerator, provider string, recorder CallRecorder, logger *zap.Logger) TextGenerator {
	return &instrumented{
		next:     gen,
		provider: provider,
		recorder: recorder,
		logger:   logger,
	}
}

func (i *instrumented) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	start := time.Now()
	text, err := i.next.Complete(ctx, messages, opts)
	latency := time.Since(start)

	if recErr := i.recorder.RecordCall(i.provider, opts.Model, latency, err != nil); recErr != nil {
		i.logger.Warn("failed to record backend call", zap.Error(recErr))
	}
	return text, err
}
