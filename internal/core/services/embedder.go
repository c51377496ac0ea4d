package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/clausewise/internal/core/domain"
	"github.com/custodia-labs/clausewise/internal/core/ports/driven"
	"github.com/custodia-labs/clausewise/internal/logger"
)

// genericRetryDelay is the wait after a non rate-limit failure.
const genericRetryDelay = 2 * time.Second

// outcomeKind classifies a single provider attempt.
type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota
	outcomeRetryable
	outcomeFatal
)

// attemptOutcome is the result of one embedding call.
type attemptOutcome struct {
	kind    outcomeKind
	delay   time.Duration
	vectors [][]float32
	err     error
}

// Embedder converts texts to vectors through a provider, splitting the
// input into batches and retrying failed batches.
type Embedder struct {
	provider    driven.EmbeddingService
	batchSize   int
	maxRetries  int
	concurrency int
	timeout     time.Duration
	limiter     *rate.Limiter
	sleep       func(ctx context.Context, d time.Duration) error
}

// EmbedderOption configures an Embedder.
type EmbedderOption func(*Embedder)

// WithSleeper replaces the wait between retries. Used by tests.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) EmbedderOption {
	return func(e *Embedder) {
		e.sleep = sleep
	}
}

// NewEmbedder creates an embedder. Zero values in settings fall back to
// the package defaults.
func NewEmbedder(provider driven.EmbeddingService, settings domain.EmbeddingSettings, opts ...EmbedderOption) *Embedder {
	e := &Embedder{
		provider:    provider,
		batchSize:   positiveOr(settings.BatchSize, domain.DefaultEmbedBatchSize),
		maxRetries:  positiveOr(settings.MaxRetries, domain.DefaultEmbedMaxRetries),
		concurrency: positiveOr(settings.Concurrency, domain.DefaultEmbedConcurrency),
		timeout:     settings.Timeout,
		sleep:       sleepContext,
	}
	if e.timeout <= 0 {
		e.timeout = domain.DefaultProviderTimeout
	}
	if settings.RequestsPerSecond > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(settings.RequestsPerSecond), 1)
	}

	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ModelName returns the provider's model name.
func (e *Embedder) ModelName() string {
	return e.provider.ModelName()
}

// Dimensions returns the provider's vector size.
func (e *Embedder) Dimensions() int {
	return e.provider.Dimensions()
}

// EmbedOne embeds a single text.
func (e *Embedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds texts and returns one vector per text in input order.
// Either every text is embedded or an error is returned; there is no
// partial output. A batch that fails maxRetries times returns
// domain.ErrEmbeddingExhausted wrapping the last cause.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	batches := splitBatches(texts, e.batchSize)
	results := make([][][]float32, len(batches))
	logger.Debug("Embedding %d texts in %d batches (concurrency %d)", len(texts), len(batches), e.concurrency)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, batch := range batches {
		g.Go(func() error {
			vectors, err := e.embedWithRetry(gctx, batch)
			if err != nil {
				return fmt.Errorf("batch %d: %w", i, err)
			}
			results[i] = vectors
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([][]float32, 0, len(texts))
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

func (e *Embedder) embedWithRetry(ctx context.Context, batch []string) ([][]float32, error) {
	var last error
	for attempt := 0; attempt < e.maxRetries; attempt++ {
		res := e.attempt(ctx, batch, attempt)
		switch res.kind {
		case outcomeSuccess:
			return res.vectors, nil
		case outcomeFatal:
			return nil, res.err
		}

		last = res.err
		if attempt == e.maxRetries-1 {
			break
		}
		logger.Warn("Embedding attempt %d failed, retrying in %s: %v", attempt+1, res.delay, res.err)
		if err := e.sleep(ctx, res.delay); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w after %d attempts: %w", domain.ErrEmbeddingExhausted, e.maxRetries, last)
}

// attempt makes one provider call and classifies the result.
func (e *Embedder) attempt(ctx context.Context, batch []string, attempt int) attemptOutcome {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return attemptOutcome{kind: outcomeFatal, err: err}
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	vectors, err := e.provider.EmbedBatch(callCtx, batch)
	if err == nil && len(vectors) != len(batch) {
		err = fmt.Errorf("provider returned %d vectors for %d texts", len(vectors), len(batch))
	}
	if err == nil {
		return attemptOutcome{kind: outcomeSuccess, vectors: vectors}
	}
	return classifyEmbedError(ctx, err, attempt)
}

// classifyEmbedError maps a provider error to a retry decision.
// Caller cancellation and provider rejections are fatal. Rate limits back
// off exponentially. Anything else, including a per-call timeout, waits a
// fixed delay.
func classifyEmbedError(ctx context.Context, err error, attempt int) attemptOutcome {
	switch {
	case ctx.Err() != nil:
		return attemptOutcome{kind: outcomeFatal, err: ctx.Err()}
	case errors.Is(err, domain.ErrProviderRejected):
		return attemptOutcome{kind: outcomeFatal, err: err}
	case errors.Is(err, domain.ErrRateLimited):
		return attemptOutcome{kind: outcomeRetryable, delay: time.Duration(1<<attempt) * time.Second, err: err}
	default:
		return attemptOutcome{kind: outcomeRetryable, delay: genericRetryDelay, err: err}
	}
}

func splitBatches(texts []string, size int) [][]string {
	batches := make([][]string, 0, (len(texts)+size-1)/size)
	for start := 0; start < len(texts); start += size {
		end := min(start+size, len(texts))
		batches = append(batches, texts[start:end])
	}
	return batches
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func positiveOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
