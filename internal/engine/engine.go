package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/mercator/internal/ast"
	"github.com/roach88/mercator/internal/store"
)

// Engine runs query turns against a Store.
//
// A turn validates the projection, predicts its volume and executes it.
// Validation failures stop the turn before the store is queried; prediction
// failures are logged and do not stop it.
//
// Thread-safety: Engine holds no per-turn state; Run is safe for concurrent
// use when the Store is.
type Engine struct {
	store     Store
	logger    *slog.Logger
	ids       QueryIDGenerator
	validator *Validator
	predictor *Predictor
}

// Option allows configuration of engine parameters.
type Option func(*Engine)

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithIDGenerator sets the query id generator. Default: UUIDv7Generator.
// Use NewFixedGenerator for deterministic ids in tests.
func WithIDGenerator(gen QueryIDGenerator) Option {
	return func(e *Engine) {
		e.ids = gen
	}
}

// New creates an Engine querying s.
func New(s Store, opts ...Option) *Engine {
	e := &Engine{
		store:     s,
		logger:    slog.Default(),
		ids:       UUIDv7Generator{},
		validator: NewValidator(s),
		predictor: NewPredictor(s),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Report is the outcome of one query turn.
type Report struct {
	QueryID string

	// Type is the validated value type of the projection.
	Type ast.LiteralType

	// Predicted is the predicted volume; zero when prediction failed.
	Predicted float64

	// PredictionErr is the prediction failure, if any.
	PredictionErr error

	Results store.ResultSet
}

// Validate type-checks p without querying the store.
func (e *Engine) Validate(p ast.Projection) (ast.LiteralType, error) {
	return e.validator.Validate(p)
}

// Predict estimates the volume p covers.
func (e *Engine) Predict(p ast.Projection) (float64, error) {
	return e.predictor.Predict(p)
}

// Run executes one query turn.
func (e *Engine) Run(ctx context.Context, p ast.Projection, params Parameters) (*Report, error) {
	report := &Report{QueryID: e.ids.Generate()}
	logger := e.logger.With("query_id", report.QueryID)
	logger.Debug("query received", "query", ast.Format(p))

	start := time.Now()
	t, err := e.validator.Validate(p)
	logger.Debug("phase complete", "phase", "validate", "duration", time.Since(start))
	if err != nil {
		logger.Info("query rejected", "error", err)
		return report, err
	}
	report.Type = t

	start = time.Now()
	report.Predicted, report.PredictionErr = e.predictor.Predict(p)
	logger.Debug("phase complete", "phase", "predict", "duration", time.Since(start),
		"predicted", report.Predicted)
	if report.PredictionErr != nil {
		logger.Warn("prediction failed", "error", report.PredictionErr)
	}

	start = time.Now()
	results, err := NewExecutor(e.store, params, logger).Execute(ctx, p)
	logger.Debug("phase complete", "phase", "execute", "duration", time.Since(start))
	if err != nil {
		logger.Info("query failed", "error", err)
		return report, err
	}
	report.Results = results

	logger.Info("query complete",
		"type", t.String(),
		"spaces", len(results.Spaces()),
		"objects", results.Len(),
	)
	return report, nil
}
