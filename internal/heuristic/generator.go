package heuristic

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/saascan/saascan/internal/analysis"
)

// Source is the randomness injection point. *rand.Rand satisfies it; tests
// substitute a fixed sequence.
type Source interface {
	Intn(n int) int
}

// Generator fabricates a plausible analysis record from the idea text alone.
// It makes no network calls and is pure apart from the injected Source.
type Generator struct {
	rng Source
}

func New(rng Source) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng}
}

var businessKeywords = []string{
	"problem", "solution", "customer", "market", "revenue", "business",
	"user", "platform", "service", "efficiency", "automation", "analytics",
}

var specificityKeywords = []string{
	"target", "segment", "demographic", "pricing", "subscription",
	"integration", "api", "dashboard", "workflow", "optimization",
}

var innovativeKeywords = []string{
	"ai", "ml", "blockchain", "iot", "ar", "vr",
	"automation", "intelligent", "smart", "predictive",
}

// ContentQuality scores how much analyzable substance the idea text carries,
// on a 0-100 scale. Length, business vocabulary, sentence structure and
// specificity each contribute a capped component.
func ContentQuality(input string) int {
	lower := strings.ToLower(input)
	words := len(strings.Fields(strings.TrimSpace(input)))

	score := 0
	switch {
	case words >= 50:
		score += 25
	case words >= 20:
		score += 15
	default:
		score += 5
	}

	hits := 0
	for _, kw := range businessKeywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	score += min(30, hits*5)

	switch s := sentenceCount(input); {
	case s >= 3:
		score += 20
	case s >= 2:
		score += 10
	}

	hits = 0
	for _, kw := range specificityKeywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	score += min(25, hits*5)

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// InnovationFor counts innovative-keyword hits: 3 or more is High, at least
// one is Medium, none is Low.
func InnovationFor(input string) analysis.InnovationLevel {
	lower := strings.ToLower(input)
	hits := 0
	for _, kw := range innovativeKeywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	switch {
	case hits >= 3:
		return analysis.InnovationHigh
	case hits >= 1:
		return analysis.InnovationMedium
	default:
		return analysis.InnovationLow
	}
}

func (g *Generator) score(input string, mode analysis.Mode) int {
	cq := ContentQuality(input)
	base := 60 + int(float64(cq)*0.3)
	if base < 30 {
		base = 30
	}
	if base > 95 {
		base = 95
	}
	base += g.rng.Intn(11) - 5
	return analysis.ClampScore(base, mode)
}

func (g *Generator) pick(pool []string) string {
	return pool[g.rng.Intn(len(pool))]
}

// Generate produces a horizontal-shape record for the single-analysis path
// (score floor 45).
func (g *Generator) Generate(input string) analysis.Record {
	now := time.Now()
	score := g.score(input, analysis.ModeSingle)
	return analysis.Record{
		ID:               analysis.NewRecordID(now),
		Timestamp:        analysis.FormatTimestamp(now),
		Variant:          analysis.VariantHorizontal,
		OriginalIdea:     input,
		TargetAudience:   g.pick(targetAudiences),
		ProblemsSolved:   g.pick(problemsSolved),
		ProposedSolution: g.pick(proposedSolutions),
		Competitors:      append([]string(nil), competitorSets[g.rng.Intn(len(competitorSets))]...),
		Scalability:      g.pick(scalabilityOptions),
		RevenueModel:     g.pick(revenueModels),
		InnovationLevel:  InnovationFor(input),
		OverallScore:     score,
		Verdict:          analysis.VerdictForScore(score),
	}
}

// GenerateComprehensive produces the comprehensive shape (score floor 10):
// the horizontal fields plus summary, detailed analysis and the structured
// risk, opportunity and recommendation lists.
func (g *Generator) GenerateComprehensive(input string) analysis.Record {
	now := time.Now()
	score := g.score(input, analysis.ModeComprehensive)
	level := InnovationFor(input)
	revenue := g.pick(revenueModels)
	competitors := append([]string(nil), competitorSets[g.rng.Intn(len(competitorSets))]...)

	rec := analysis.Record{
		ID:               analysis.NewRecordID(now),
		Timestamp:        analysis.FormatTimestamp(now),
		Variant:          analysis.VariantComprehensive,
		OriginalIdea:     input,
		TargetAudience:   g.pick(targetAudiences),
		ProblemsSolved:   g.pick(problemsSolved),
		ProposedSolution: g.pick(proposedSolutions),
		Competitors:      competitors,
		Scalability:      g.pick(scalabilityOptions),
		RevenueModel:     revenue,
		InnovationLevel:  level,
		OverallScore:     score,
		Verdict:          analysis.VerdictForScore(score),
		InputQuality:     ContentQuality(input),
		Summary:          summaryFor(score, level),
		Detailed:         detailedFor(score, level, revenue, len(competitors)),
		Risks:            risksFor(score, level),
		Opportunities:    opportunitiesFor(level),
		StructuredRecs:   recommendationsFor(score),
	}
	return rec
}

// GenerateLegacy produces the legacy shape (score, issues, recommendations).
func (g *Generator) GenerateLegacy(input string) analysis.Record {
	now := time.Now()
	lower := strings.ToLower(input)
	words := len(strings.Fields(strings.TrimSpace(input)))

	base := 85
	if words > 50 {
		base += 5
	}
	if words > 100 {
		base += 3
	}
	for _, kw := range []string{"problem", "issue", "difficult", "confusing", "abandon", "error", "slow", "broken"} {
		if strings.Contains(lower, kw) {
			base -= 5
		}
	}
	for _, kw := range []string{"good", "easy", "clear", "simple", "fast", "intuitive", "user-friendly"} {
		if strings.Contains(lower, kw) {
			base += 3
		}
	}
	if base < 35 {
		base = 35
	}
	if base > 95 {
		base = 95
	}

	n := (100 - base) / 15
	if n < 2 {
		n = 2
	}
	if n > 5 {
		n = 5
	}

	return analysis.Record{
		ID:              analysis.NewRecordID(now),
		Timestamp:       analysis.FormatTimestamp(now),
		Variant:         analysis.VariantLegacy,
		OriginalIdea:    input,
		OverallScore:    base,
		Issues:          g.pickN(legacyIssues, n),
		Recommendations: g.pickN(legacyRecommendations, n),
	}
}

// pickN selects n distinct entries via a partial Fisher-Yates shuffle.
func (g *Generator) pickN(pool []string, n int) []string {
	cp := append([]string(nil), pool...)
	if n > len(cp) {
		n = len(cp)
	}
	for i := 0; i < n; i++ {
		j := i + g.rng.Intn(len(cp)-i)
		cp[i], cp[j] = cp[j], cp[i]
	}
	return cp[:n]
}

func summaryFor(score int, level analysis.InnovationLevel) string {
	tail := "Significant challenges requiring major pivots or improvements."
	switch {
	case score >= 80:
		tail = "Strong market opportunity with clear value proposition."
	case score >= 60:
		tail = "Moderate potential requiring strategic refinement."
	}
	return fmt.Sprintf("This SaaS concept shows %s innovation potential with a %d/100 viability score. %s",
		strings.ToLower(string(level)), score, tail)
}

func detailedFor(score int, level analysis.InnovationLevel, revenue string, competitorCount int) *analysis.DetailedAnalysis {
	demand := "moderate"
	if score >= 70 {
		demand = "strong"
	}
	complexity := "Standard"
	switch level {
	case analysis.InnovationHigh:
		complexity = "Complex"
	case analysis.InnovationMedium:
		complexity = "Moderate"
	}
	positioning := "premium"
	if strings.Contains(revenue, "Freemium") {
		positioning = "accessible"
	}
	risk := "Moderate to high"
	if score >= 70 {
		risk = "Low to moderate"
	}
	return &analysis.DetailedAnalysis{
		MarketAnalysis: fmt.Sprintf("Target market shows %s demand signals with %d major competitors identified.",
			demand, competitorCount),
		TechnicalFeasibility: fmt.Sprintf("%s technical implementation required.", complexity),
		CompetitiveAdvantage: fmt.Sprintf("Differentiation through %s innovation and %s positioning.",
			strings.ToLower(string(level)), positioning),
		RiskAssessment: fmt.Sprintf("%s risk profile with primary concerns in market adoption and competitive response.",
			risk),
		Recommendations: []string{
			"Conduct customer discovery interviews to validate problem-solution fit",
			"Develop minimum viable product (MVP) to test core assumptions",
			"Analyze competitive landscape and identify differentiation opportunities",
			"Create detailed financial projections and funding strategy",
		},
	}
}

func risksFor(score int, level analysis.InnovationLevel) []analysis.Risk {
	adoption := analysis.LevelHigh
	if score >= 70 {
		adoption = analysis.LevelMedium
	}
	technical := analysis.LevelLow
	switch level {
	case analysis.InnovationHigh:
		technical = analysis.LevelHigh
	case analysis.InnovationMedium:
		technical = analysis.LevelMedium
	}
	return []analysis.Risk{
		{
			Category:    "Market",
			Risk:        "Slow customer adoption in a crowded segment",
			Probability: adoption,
			Impact:      analysis.LevelHigh,
			Mitigation:  "Validate demand with a narrow initial niche before broadening the offering",
		},
		{
			Category:    "Technical",
			Risk:        "Implementation complexity exceeds initial estimates",
			Probability: technical,
			Impact:      analysis.LevelMedium,
			Mitigation:  "Ship a scoped MVP and defer advanced capabilities to later milestones",
		},
		{
			Category:    "Financial",
			Risk:        "Customer acquisition cost outpaces early revenue",
			Probability: analysis.LevelMedium,
			Impact:      analysis.LevelHigh,
			Mitigation:  "Model CAC payback early and favor low-cost acquisition channels",
		},
	}
}

func opportunitiesFor(level analysis.InnovationLevel) []analysis.Opportunity {
	opps := []analysis.Opportunity{
		{
			Area:            "Market",
			Opportunity:     "Expand into adjacent verticals once the core segment is established",
			PotentialImpact: "Meaningful revenue growth beyond the initial market",
			EffortRequired:  analysis.LevelMedium,
		},
		{
			Area:            "Business Model",
			Opportunity:     "Layer usage-based pricing on top of the base subscription",
			PotentialImpact: "Higher revenue per account as customers scale",
			EffortRequired:  analysis.LevelLow,
		},
	}
	if level == analysis.InnovationHigh {
		opps = append(opps, analysis.Opportunity{
			Area:            "Technology",
			Opportunity:     "Productize the underlying models as a standalone API",
			PotentialImpact: "New developer-focused revenue stream",
			EffortRequired:  analysis.LevelHigh,
		})
	}
	return opps
}

func recommendationsFor(score int) []analysis.Recommendation {
	first := analysis.Recommendation{
		Priority:  analysis.LevelHigh,
		Action:    "Conduct customer discovery interviews to validate problem-solution fit",
		Rationale: "Direct evidence of the problem reduces the largest source of early-stage risk",
		Timeline:  "2-4 weeks",
	}
	if score < 55 {
		first.Action = "Rework the value proposition before committing engineering effort"
		first.Rationale = "The current framing does not yet justify build investment"
	}
	return []analysis.Recommendation{
		first,
		{
			Priority:  analysis.LevelMedium,
			Action:    "Develop a minimum viable product to test core assumptions",
			Rationale: "A working slice of the product produces faster learning than further analysis",
			Timeline:  "2-3 months",
		},
		{
			Priority:  analysis.LevelLow,
			Action:    "Create detailed financial projections and a funding strategy",
			Rationale: "Needed before scaling, but premature until demand is validated",
			Timeline:  "3-6 months",
		},
	}
}

func sentenceCount(input string) int {
	parts := strings.FieldsFunc(input, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	n := 0
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}
