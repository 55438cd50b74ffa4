// Package normalize reconciles raw model output into the canonical analysis
// record shape. It never fails: unparseable output falls back to the
// heuristic generator and partial output is backfilled with named defaults.
package normalize

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/saascan/saascan/internal/analysis"
)

// Fallback produces a full record when the raw payload is unusable.
// *heuristic.Generator satisfies it.
type Fallback interface {
	Generate(input string) analysis.Record
	GenerateLegacy(input string) analysis.Record
}

type Normalizer struct {
	fallback Fallback
}

func New(fallback Fallback) *Normalizer {
	return &Normalizer{fallback: fallback}
}

// Horizontal field defaults, applied when the payload omits a field or gives
// it the wrong type.
const (
	defaultTargetAudience   = "Small to medium businesses"
	defaultProblemsSolved   = "Efficiency and productivity challenges"
	defaultProposedSolution = "Automated workflow solution"
	defaultScalability      = "Moderate scalability potential"
	defaultRevenueModel     = "Subscription-based model"
	defaultHorizontalScore  = 70
	defaultLegacyScore      = 75
	legacyScoreFloor        = 40
)

var (
	defaultCompetitors     = []string{"Generic competitors"}
	defaultIssues          = []string{"No specific issues identified"}
	defaultRecommendations = []string{"Focus on market validation"}
)

// Horizontal maps raw model output onto the horizontal record shape. Parse
// failures delegate wholly to the heuristic generator; the caller always
// receives a complete record.
func (n *Normalizer) Horizontal(raw, idea string) analysis.Record {
	fields, ok := parsePayload(raw)
	if !ok {
		log.Printf("normalize: unparseable response, using heuristic fallback (%d bytes)", len(raw))
		return n.fallback.Generate(idea)
	}

	score := clampedScore(fields, []string{"overallScore", "score"},
		defaultHorizontalScore, analysis.SingleFloor)

	rec := analysis.Record{
		ID:               stringField(fields, "id", analysis.NewRecordID(time.Now())),
		Timestamp:        stringField(fields, "timestamp", analysis.FormatTimestamp(time.Now())),
		Variant:          analysis.VariantHorizontal,
		OriginalIdea:     stringField(fields, "originalIdea", idea),
		TargetAudience:   stringField(fields, "targetAudience", defaultTargetAudience),
		ProblemsSolved:   stringField(fields, "problemsSolved", defaultProblemsSolved),
		ProposedSolution: stringField(fields, "proposedSolution", defaultProposedSolution),
		Competitors:      listField(fields, "competitors", defaultCompetitors),
		Scalability:      stringField(fields, "scalability", defaultScalability),
		RevenueModel:     stringField(fields, "revenueModel", defaultRevenueModel),
		InnovationLevel:  analysis.ParseInnovationLevel(stringField(fields, "innovationLevel", "Medium")),
		OverallScore:     score,
		Verdict:          analysis.VerdictForScore(score),
	}
	return rec
}

// Legacy maps raw model output onto the legacy shape (score, issues,
// recommendations).
func (n *Normalizer) Legacy(raw, idea string) analysis.Record {
	fields, ok := parsePayload(raw)
	if !ok {
		log.Printf("normalize: unparseable response, using legacy heuristic fallback (%d bytes)", len(raw))
		return n.fallback.GenerateLegacy(idea)
	}

	return analysis.Record{
		ID:              stringField(fields, "id", analysis.NewRecordID(time.Now())),
		Timestamp:       stringField(fields, "timestamp", analysis.FormatTimestamp(time.Now())),
		Variant:         analysis.VariantLegacy,
		OriginalIdea:    stringField(fields, "originalIdea", idea),
		OverallScore:    clampedScore(fields, []string{"score", "overallScore"}, defaultLegacyScore, legacyScoreFloor),
		Issues:          listField(fields, "issues", defaultIssues),
		Recommendations: listField(fields, "recommendations", defaultRecommendations),
	}
}

func parsePayload(raw string) (map[string]any, bool) {
	cleaned := strings.TrimSpace(stripCodeFences(raw))
	var fields map[string]any
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

// stripCodeFences removes every ```json and ``` marker from the text, not
// just a leading and trailing pair. Models occasionally fence twice.
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	return strings.ReplaceAll(s, "```", "")
}

func stringField(fields map[string]any, key, fallback string) string {
	if v, ok := fields[key].(string); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

// listField coerces the value into a string list: arrays keep their string
// elements, a bare string is wrapped, anything else takes the default.
func listField(fields map[string]any, key string, fallback []string) []string {
	switch v := fields[key].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	case string:
		if strings.TrimSpace(v) != "" {
			return []string{v}
		}
	}
	return append([]string(nil), fallback...)
}

// clampedScore reads the first numeric field among keys and clamps it to
// [floor, 95]; a missing or non-numeric value takes the default unclamped.
func clampedScore(fields map[string]any, keys []string, def, floor int) int {
	for _, key := range keys {
		if v, ok := fields[key].(float64); ok {
			score := int(v)
			if score < floor {
				return floor
			}
			if score > analysis.ScoreCeiling {
				return analysis.ScoreCeiling
			}
			return score
		}
	}
	return def
}
