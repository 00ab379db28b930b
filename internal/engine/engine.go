package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dejo1307/rockymcp/internal/completeness"
	"github.com/dejo1307/rockymcp/internal/config"
	"github.com/dejo1307/rockymcp/internal/extractors"
	"github.com/dejo1307/rockymcp/internal/facts"
	"github.com/dejo1307/rockymcp/internal/logging"
	"github.com/dejo1307/rockymcp/internal/normalize"
	"github.com/dejo1307/rockymcp/internal/renderers/notes"
)

// ErrInvalidInput is returned for input that is not valid UTF-8 text.
// Sparse or odd content is never an error.
var ErrInvalidInput = errors.New("invalid input")

// LowCompletenessThreshold is the overall score below which a warning is raised.
const LowCompletenessThreshold = 50

// Engine orchestrates the Rocky pipeline: normalize -> extract -> evaluate ->
// hash -> assemble -> derive views.
type Engine struct {
	extractors *extractors.Registry
	logger     *zap.Logger
	now        func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = logging.Or(l).Named("engine") }
}

// WithClock sets the clock used for ProcessedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRegistry replaces the default extractor registry.
func WithRegistry(r *extractors.Registry) Option {
	return func(e *Engine) { e.extractors = r }
}

// WithConfig keeps only the extractors enabled in cfg.
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) {
		r := extractors.NewRegistry()
		for _, ext := range extractors.Default().All() {
			if cfg.IsExtractorEnabled(ext.Name()) {
				r.Register(ext)
			}
		}
		e.extractors = r
	}
}

// New creates an Engine with the default extractors.
func New(opts ...Option) *Engine {
	e := &Engine{
		extractors: extractors.Default(),
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extractors returns the names of the extractors the engine runs, in order.
func (e *Engine) Extractors() []string {
	return e.extractors.Names()
}

// Result is everything Process produces for one transcript.
type Result struct {
	Facts            facts.Facts          `json:"facts"`
	AutomaticNotes   facts.AutomaticNotes `json:"automaticNotes"`
	EngineerBasics   facts.EngineerBasics `json:"engineerBasics"`
	ProcessingTimeMs int64                `json:"processingTimeMs"`
	Warnings         []string             `json:"warnings"`
}

// Process extracts Facts from rawText. It always returns a best-effort result
// for valid text; gaps are reported as warnings and missing data. language is
// recorded in logs only.
func (e *Engine) Process(sessionID, rawText, language string) (*Result, error) {
	start := time.Now()

	if !utf8.ValidString(rawText) {
		return nil, fmt.Errorf("session %s: transcript is not valid UTF-8: %w", sessionID, ErrInvalidInput)
	}

	normalized := normalize.Normalize(rawText)
	data := e.extractors.Run(normalized)
	eval := completeness.Evaluate(&data)

	f := facts.Facts{
		Version:          facts.Version,
		SessionID:        sessionID,
		ProcessedAt:      e.now().UTC(),
		NaturalNotesHash: Hash(rawText),
		Facts:            data,
		Completeness:     eval.Completeness,
		MissingData:      eval.MissingData,
	}

	res := &Result{
		Facts:          f,
		AutomaticNotes: notes.AutomaticNotes(&f),
		EngineerBasics: notes.EngineerBasics(&f),
		Warnings:       warnings(eval),
	}
	res.ProcessingTimeMs = time.Since(start).Milliseconds()

	e.logger.Info("processed transcript",
		zap.String("session_id", sessionID),
		zap.String("hash", shortHash(f.NaturalNotesHash)),
		zap.String("language", language),
		zap.Int("overall", f.Completeness.Overall),
		zap.Int("warnings", len(res.Warnings)),
		zap.Int64("elapsed_ms", res.ProcessingTimeMs),
	)
	return res, nil
}

// Input is one transcript for ProcessAll.
type Input struct {
	SessionID string `json:"sessionId"`
	Text      string `json:"text"`
	Language  string `json:"language,omitempty"`
}

// ProcessAll runs Process over inputs with at most concurrency in flight.
// Results are returned in input order. The first error cancels the rest.
func (e *Engine) ProcessAll(ctx context.Context, inputs []Input, concurrency int) ([]*Result, error) {
	if concurrency <= 0 {
		concurrency = 1
	}

	results := make([]*Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := e.Process(in.SessionID, in.Text, in.Language)
			if err != nil {
				return fmt.Errorf("input %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	e.logger.Debug("batch processed", zap.Int("inputs", len(inputs)), zap.Int("concurrency", concurrency))
	return results, nil
}

// Hash returns the hex SHA-256 digest of the raw transcript.
func Hash(rawText string) string {
	h := sha256.Sum256([]byte(rawText))
	return hex.EncodeToString(h[:])
}

func warnings(eval completeness.Result) []string {
	out := []string{}
	if eval.Completeness.Overall < LowCompletenessThreshold {
		out = append(out, fmt.Sprintf("Low completeness: overall score %d%% is below %d%%",
			eval.Completeness.Overall, LowCompletenessThreshold))
	}
	for _, m := range eval.MissingData {
		if m.Required {
			out = append(out, fmt.Sprintf("Missing required field: %s.%s", m.Category, m.Field))
		}
	}
	return out
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
