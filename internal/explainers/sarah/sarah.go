// Package sarah renders a Facts record as audience-specific prose.
//
// Sarah only reformats: every value in the output is interpolated from the
// input Facts. There is no numeric derivation and no classification beyond
// what Facts already carries.
package sarah

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dejo1307/rockymcp/internal/facts"
	"github.com/dejo1307/rockymcp/internal/logging"
)

// Request is one explanation request. Tone may be empty.
type Request struct {
	Facts    *facts.Facts `json:"facts"`
	Audience string       `json:"audience"`
	Tone     string       `json:"tone,omitempty"`
}

// Renderer produces Explanations.
type Renderer struct {
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Renderer) { r.logger = logging.Or(l).Named("sarah") }
}

// WithClock sets the clock used for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Explain parses the request and renders it. Unknown audiences and tones are
// errors, never defaulted.
func (r *Renderer) Explain(req Request) (*facts.Explanation, error) {
	if req.Facts == nil {
		return nil, ErrNilFacts
	}
	aud, err := ParseAudience(req.Audience)
	if err != nil {
		return nil, err
	}
	tone, err := ParseTone(req.Tone)
	if err != nil {
		return nil, err
	}
	return r.Render(req.Facts, aud, tone)
}

// Render renders f for a parsed audience. A zero tone selects the audience
// default.
func (r *Renderer) Render(f *facts.Facts, aud Audience, tone Tone) (*facts.Explanation, error) {
	if f == nil {
		return nil, ErrNilFacts
	}
	if tone == 0 {
		tone = aud.DefaultTone()
	}

	var sections []facts.ExplanationSection
	switch aud {
	case Customer:
		sections = customerSections(f, tone)
	case Engineer:
		sections = engineerSections(f, tone)
	case Surveyor, Manager:
		sections = surveyorSections(f, tone)
	case Admin:
		tone = Simple
		sections = customerSections(f, tone)
	default:
		return nil, &InputError{Field: "audience", Value: aud.String(), Err: ErrUnknownAudience}
	}

	exp := &facts.Explanation{
		Audience:          aud.String(),
		Tone:              tone.String(),
		GeneratedAt:       r.now().UTC(),
		RockyFactsVersion: f.Version,
		Sections:          sections,
		Disclaimer:        disclaimer(aud, f.Version),
	}

	for _, sec := range sections {
		if found := FindProhibited(sec.Body); len(found) > 0 {
			r.logger.Warn("prohibited phrase in explanation",
				zap.String("session_id", f.SessionID),
				zap.String("section", sec.Key),
				zap.Strings("phrases", found),
			)
		}
	}

	r.logger.Debug("explanation rendered",
		zap.String("session_id", f.SessionID),
		zap.String("audience", exp.Audience),
		zap.String("tone", exp.Tone),
		zap.Int("sections", len(sections)),
	)
	return exp, nil
}

var disclaimers = map[Audience]string{
	Customer: "This summary is based only on the notes recorded during your survey. It adds nothing that was not recorded. Facts version %s.",
	Engineer: "Values are as extracted from the survey notes and should be verified on site. Facts version %s.",
	Surveyor: "Scores and gaps reflect the recorded survey notes only. Facts version %s.",
	Manager:  "Prepared from the recorded survey notes for review. Scores and gaps reflect the notes only. Facts version %s.",
	Admin:    "Plain summary of the recorded survey notes. Facts version %s.",
}

func disclaimer(aud Audience, version string) string {
	return fmt.Sprintf(disclaimers[aud], version)
}
