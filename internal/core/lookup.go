// Package core holds the lookup pipeline: validation, the in-flight guard,
// fetching and normalization.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"leetstats/internal/render"
	"leetstats/internal/telemetry"
	"leetstats/pkg/logger"
	"leetstats/pkg/models"
	"leetstats/pkg/utils"
)

// Fetcher retrieves the raw statistics for one username
type Fetcher interface {
	FetchStats(ctx context.Context, username string) (*models.RawStatsResponse, error)
}

// Result is the outcome of one lookup. Exactly one of Model or Err is
// meaningful; Message is the user-facing text for Err.
type Result struct {
	RequestID string
	Username  string
	Model     models.DisplayModel
	Err       error
	Message   string
	Duration  time.Duration
}

// OK reports whether the lookup produced a model
func (r Result) OK() bool {
	return r.Err == nil
}

// Lookup ties validation, the guard, the fetcher and the normalizer together.
// One Lookup belongs to one presentation instance.
type Lookup struct {
	fetcher Fetcher
	guard   Guard
	timeout time.Duration
}

// NewLookup creates a lookup orchestrator around fetcher
func NewLookup(fetcher Fetcher) *Lookup {
	return &Lookup{fetcher: fetcher, timeout: utils.DefaultTimeout}
}

// WithTimeout overrides the per-lookup deadline
func (l *Lookup) WithTimeout(d time.Duration) *Lookup {
	l.timeout = d
	return l
}

// InFlight reports whether a lookup is running
func (l *Lookup) InFlight() bool {
	return l.guard.InFlight()
}

// Run executes one lookup for the raw input. The bool is false when the
// lookup was dropped because another one is still in flight; the Result
// is then empty and must not be presented.
func (l *Lookup) Run(ctx context.Context, input string) (Result, bool) {
	username := utils.NormalizeUsername(input)
	res := Result{RequestID: uuid.NewString(), Username: username}
	ctx = logger.ContextWithRequestID(ctx, res.RequestID)
	log := logger.WithRequestID(ctx).With("username", username)

	if err := utils.ValidateUsername(username); err != nil {
		log.Debug("Lookup rejected: " + err.Error())
		return l.fail(res, err), true
	}

	if !l.guard.TryAcquire() {
		telemetry.LookupsDropped.Inc()
		log.Debug("Lookup dropped, another is in flight")
		return Result{}, false
	}
	defer l.guard.Release()

	ctx, span := telemetry.StartSpan(ctx, "core.Lookup")
	defer span.End()
	span.SetAttributes(
		attribute.String("leetstats.request_id", res.RequestID),
		attribute.String("leetstats.username", username),
	)

	ctx, cancel := utils.WithTimeout(ctx, l.timeout)
	defer cancel()

	start := time.Now()
	raw, err := l.fetch(ctx, username)
	res.Duration = time.Since(start)
	if err != nil {
		log.With("duration_ms", res.Duration.Milliseconds()).Warn("Lookup failed: " + err.Error())
		return l.fail(res, err), true
	}

	res.Model = Normalize(*raw)
	telemetry.LookupsTotal.WithLabelValues(telemetry.OutcomeSuccess).Inc()
	log.With("duration_ms", res.Duration.Milliseconds()).
		With("completion", res.Model.CompletionPercent).
		Info("Lookup succeeded")
	return res, true
}

// fetch converts a panicking fetcher into an ordinary failure
func (l *Lookup) fetch(ctx context.Context, username string) (raw *models.RawStatsResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			raw, err = nil, fmt.Errorf("fetcher panic: %v", r)
		}
	}()
	raw, err = l.fetcher.FetchStats(ctx, username)
	if err == nil && raw == nil {
		err = models.NewParseError(errors.New("empty response"))
	}
	return raw, err
}

func (l *Lookup) fail(res Result, err error) Result {
	res.Err = err
	res.Message = models.UserMessage(err)
	res.Model = models.ResetModel()
	telemetry.LookupsTotal.WithLabelValues(outcome(err)).Inc()
	return res
}

func outcome(err error) string {
	switch {
	case errors.Is(err, models.ErrEmptyUsername), errors.Is(err, models.ErrInvalidUsername):
		return telemetry.OutcomeValidation
	case errors.Is(err, models.ErrNotFound):
		return telemetry.OutcomeNotFound
	case errors.Is(err, models.ErrNetwork):
		return telemetry.OutcomeNetwork
	case errors.Is(err, models.ErrHTTP):
		return telemetry.OutcomeHTTP
	case errors.Is(err, models.ErrParse):
		return telemetry.OutcomeParse
	default:
		return telemetry.OutcomeError
	}
}

// Present writes a finished lookup onto the renderer: the model on
// success, the reset model plus the status message on failure.
func Present(res Result, r *render.Renderer) {
	if res.OK() {
		r.ClearStatus()
		r.Apply(res.Model)
		return
	}
	r.Reset()
	r.ShowStatus(res.Message)
}
