package analysis

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const Disclaimer = "This is an automated preliminary viability assessment, not investment advice. " +
	"Scores and projections are heuristic estimates based on the idea description alone."

// Score bounds. Records are never persisted with a score outside
// [StorageFloor, ScoreCeiling]; the two generation modes apply their own
// floors on top of that.
const (
	ScoreCeiling       = 95
	StorageFloor       = 10
	SingleFloor        = 45
	ComprehensiveFloor = 10
)

// Mode selects which score floor applies to a generated or normalized record.
// The single-analysis path never reports below 45; the comprehensive path
// allows the full 10-95 range.
type Mode string

const (
	ModeSingle        Mode = "single"
	ModeComprehensive Mode = "comprehensive"
)

func (m Mode) Floor() int {
	if m == ModeComprehensive {
		return ComprehensiveFloor
	}
	return SingleFloor
}

// ClampScore forces v into the score range for the given mode.
func ClampScore(v int, mode Mode) int {
	floor := mode.Floor()
	if v < floor {
		return floor
	}
	if v > ScoreCeiling {
		return ScoreCeiling
	}
	return v
}

// Variant tags which shape of record a Record carries. Exactly one shape is
// fully populated per record; the normalizer and generator never emit a
// half-filled mix.
type Variant string

const (
	VariantLegacy        Variant = "legacy"
	VariantHorizontal    Variant = "horizontal"
	VariantComprehensive Variant = "comprehensive"
)

type InnovationLevel string

const (
	InnovationLow    InnovationLevel = "Low"
	InnovationMedium InnovationLevel = "Medium"
	InnovationHigh   InnovationLevel = "High"
)

// ParseInnovationLevel maps any raw label the UI layers have historically
// produced (English and Arabic) onto the canonical enum. The mapping is
// total: unknown input collapses to Medium rather than leaking a raw string
// into storage.
func ParseInnovationLevel(raw string) InnovationLevel {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low", "منخفض":
		return InnovationLow
	case "medium", "متوسط":
		return InnovationMedium
	case "high", "عالي":
		return InnovationHigh
	default:
		return InnovationMedium
	}
}

type Verdict string

const (
	VerdictHighlyViable      Verdict = "Highly Viable"
	VerdictViable            Verdict = "Viable"
	VerdictPotentiallyViable Verdict = "Potentially Viable"
	VerdictRisky             Verdict = "Risky"
	VerdictNotViable         Verdict = "Not Viable"
)

// VerdictForScore derives the categorical viability label from the numeric
// score. Thresholds: 85, 70, 55, 35.
func VerdictForScore(score int) Verdict {
	switch {
	case score >= 85:
		return VerdictHighlyViable
	case score >= 70:
		return VerdictViable
	case score >= 55:
		return VerdictPotentiallyViable
	case score >= 35:
		return VerdictRisky
	default:
		return VerdictNotViable
	}
}

type Level string

const (
	LevelLow    Level = "Low"
	LevelMedium Level = "Medium"
	LevelHigh   Level = "High"
)

type Risk struct {
	Category    string `json:"category"`
	Risk        string `json:"risk"`
	Probability Level  `json:"probability"`
	Impact      Level  `json:"impact"`
	Mitigation  string `json:"mitigation"`
}

type Opportunity struct {
	Area            string `json:"area"`
	Opportunity     string `json:"opportunity"`
	PotentialImpact string `json:"potential_impact"`
	EffortRequired  Level  `json:"effort_required"`
}

type Recommendation struct {
	Priority  Level  `json:"priority"`
	Action    string `json:"action"`
	Rationale string `json:"rationale"`
	Timeline  string `json:"timeline"`
}

type DetailedAnalysis struct {
	MarketAnalysis       string   `json:"market_analysis"`
	TechnicalFeasibility string   `json:"technical_feasibility"`
	CompetitiveAdvantage string   `json:"competitive_advantage"`
	RiskAssessment       string   `json:"risk_assessment"`
	Recommendations      []string `json:"recommendations"`
}

// Record is the canonical structured result of evaluating one SaaS idea.
// ID, Timestamp and OriginalIdea are immutable once created. Competitors
// preserves insertion order and is not de-duplicated.
type Record struct {
	ID           string  `json:"id"`
	Timestamp    string  `json:"timestamp"`
	Variant      Variant `json:"variant"`
	OriginalIdea string  `json:"originalIdea"`

	// Horizontal / comprehensive fields.
	TargetAudience   string          `json:"targetAudience,omitempty"`
	ProblemsSolved   string          `json:"problemsSolved,omitempty"`
	ProposedSolution string          `json:"proposedSolution,omitempty"`
	Competitors      []string        `json:"competitors,omitempty"`
	Scalability      string          `json:"scalability,omitempty"`
	RevenueModel     string          `json:"revenueModel,omitempty"`
	InnovationLevel  InnovationLevel `json:"innovationLevel,omitempty"`

	OverallScore int     `json:"overallScore"`
	Verdict      Verdict `json:"verdict,omitempty"`

	// Legacy fields.
	Issues          []string `json:"issues,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`

	// Comprehensive extras.
	Summary        string            `json:"summary,omitempty"`
	Detailed       *DetailedAnalysis `json:"detailedAnalysis,omitempty"`
	Risks          []Risk            `json:"risks,omitempty"`
	Opportunities  []Opportunity     `json:"opportunities,omitempty"`
	StructuredRecs []Recommendation  `json:"structured_recommendations,omitempty"`
	InputQuality   int               `json:"inputQualityScore,omitempty"`
}

// NewRecordID builds the id format used across the app:
// analysis_<unix millis>_<9 random hex chars>.
func NewRecordID(now time.Time) string {
	buf := make([]byte, 5)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("analysis_%d_%s", now.UnixMilli(), hex.EncodeToString(buf)[:9])
}

// Timestamp format stored on records. RFC 3339 with millisecond precision,
// matching the ISO-8601 strings older exports contain.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Validate reports whether the record satisfies the shape invariants for its
// variant. Used by the history store when importing untrusted payloads.
func (r Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("record id is required")
	}
	if strings.TrimSpace(r.Timestamp) == "" {
		return fmt.Errorf("record timestamp is required")
	}
	if strings.TrimSpace(r.OriginalIdea) == "" {
		return fmt.Errorf("record original idea is required")
	}
	if r.OverallScore < StorageFloor || r.OverallScore > ScoreCeiling {
		return fmt.Errorf("score %d outside [%d, %d]", r.OverallScore, StorageFloor, ScoreCeiling)
	}
	switch r.Variant {
	case VariantLegacy:
		if len(r.Issues) == 0 || len(r.Recommendations) == 0 {
			return fmt.Errorf("legacy record missing issues or recommendations")
		}
	case VariantHorizontal, VariantComprehensive:
		if r.TargetAudience == "" || r.ProblemsSolved == "" || r.ProposedSolution == "" ||
			r.Scalability == "" || r.RevenueModel == "" {
			return fmt.Errorf("%s record missing analysis fields", r.Variant)
		}
		if len(r.Competitors) == 0 {
			return fmt.Errorf("%s record missing competitors", r.Variant)
		}
		switch r.InnovationLevel {
		case InnovationLow, InnovationMedium, InnovationHigh:
		default:
			return fmt.Errorf("invalid innovation level %q", r.InnovationLevel)
		}
	default:
		return fmt.Errorf("unknown record variant %q", r.Variant)
	}
	return nil
}
