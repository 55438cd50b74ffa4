// Package scanner wires the analysis flow together: validate the idea text,
// produce a record via the external model or the heuristic generator, and
// persist it to history.
package scanner

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/saascan/saascan/internal/analysis"
	"github.com/saascan/saascan/internal/heuristic"
	"github.com/saascan/saascan/internal/history"
	"github.com/saascan/saascan/internal/llm"
	"github.com/saascan/saascan/internal/normalize"
	"github.com/saascan/saascan/internal/validate"
)

// Analyzer produces raw model output for a prompt. *llm.Executor satisfies
// it; a nil Analyzer means heuristic-only operation.
type Analyzer interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Path records which route produced a record.
type Path string

const (
	PathLLM       Path = "llm"
	PathHeuristic Path = "heuristic"
)

type kind int

const (
	kindSingle kind = iota
	kindLegacy
	kindComprehensive
)

// Outcome carries the produced record plus per-analysis metadata.
type Outcome struct {
	Record         analysis.Record   `json:"record"`
	Validation     []validate.Result `json:"validation"`
	QualityScore   float64           `json:"qualityScore"`
	Path           Path              `json:"path"`
	FallbackReason string            `json:"fallbackReason,omitempty"`
	DurationMS     int64             `json:"durationMs"`
	Saved          bool              `json:"saved"`
}

type Service struct {
	analyzer Analyzer
	gen      *heuristic.Generator
	norm     *normalize.Normalizer
	store    *history.Store
}

var ErrEmptyInput = errors.New("idea text is empty")

// New builds a Service. analyzer may be nil; every analysis then takes the
// heuristic path.
func New(analyzer Analyzer, gen *heuristic.Generator, store *history.Store) *Service {
	return &Service{
		analyzer: analyzer,
		gen:      gen,
		norm:     normalize.New(gen),
		store:    store,
	}
}

// Analyze runs the single-analysis flow producing a horizontal record.
func (s *Service) Analyze(ctx context.Context, idea string) (Outcome, error) {
	return s.run(ctx, idea, kindSingle)
}

// AnalyzeLegacy runs the legacy flow producing a score/issues record.
func (s *Service) AnalyzeLegacy(ctx context.Context, idea string) (Outcome, error) {
	return s.run(ctx, idea, kindLegacy)
}

// AnalyzeComprehensive always takes the heuristic path: the comprehensive
// shape is synthesized locally, not requested from the model.
func (s *Service) AnalyzeComprehensive(ctx context.Context, idea string) (Outcome, error) {
	return s.run(ctx, idea, kindComprehensive)
}

func (s *Service) run(ctx context.Context, idea string, k kind) (Outcome, error) {
	if strings.TrimSpace(idea) == "" {
		return Outcome{}, ErrEmptyInput
	}

	start := time.Now()
	results := validate.Validate(idea)
	out := Outcome{
		Validation:   results,
		QualityScore: validate.QualityScore(results),
	}

	out.Record, out.Path, out.FallbackReason = s.produce(ctx, idea, k)
	out.Saved = s.store.Save(out.Record)
	if !out.Saved {
		log.Printf("scanner: history save failed for %s", out.Record.ID)
	}
	out.DurationMS = time.Since(start).Milliseconds()
	return out, nil
}

func (s *Service) produce(ctx context.Context, idea string, k kind) (analysis.Record, Path, string) {
	if k == kindComprehensive {
		return s.gen.GenerateComprehensive(idea), PathHeuristic, ""
	}
	if s.analyzer == nil {
		return s.heuristicFor(idea, k), PathHeuristic, "no external analyzer configured"
	}

	prompt := llm.HorizontalPrompt(idea)
	if k == kindLegacy {
		prompt = llm.LegacyPrompt(idea)
	}
	raw, err := s.analyzer.Generate(ctx, prompt)
	if err != nil {
		log.Printf("scanner: external analysis failed, using heuristic: %v", err)
		return s.heuristicFor(idea, k), PathHeuristic, err.Error()
	}

	// The normalizer repairs partial payloads itself; only a wholly
	// unusable response reaches the generator from here.
	if k == kindLegacy {
		return s.norm.Legacy(raw, idea), PathLLM, ""
	}
	return s.norm.Horizontal(raw, idea), PathLLM, ""
}

func (s *Service) heuristicFor(idea string, k kind) analysis.Record {
	if k == kindLegacy {
		return s.gen.GenerateLegacy(idea)
	}
	return s.gen.Generate(idea)
}
