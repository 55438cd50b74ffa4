package validate

import (
	"fmt"
	"math"
	"strings"
)

// Result is the outcome of one validation rule. Rules are independent and a
// caller averaging scores does so explicitly; results are never merged.
type Result struct {
	Rule        string   `json:"rule"`
	IsValid     bool     `json:"isValid"`
	Score       float64  `json:"score"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
	Confidence  float64  `json:"confidence"`
}

const (
	RuleMinLength            = "min-length"
	RuleContentQuality       = "content-quality"
	RuleBusinessCompleteness = "business-completeness"
)

var placeholders = []string{
	"lorem ipsum", "test", "example", "placeholder", "sample", "demo", "xxx", "tbd", "todo",
}

var businessKeywords = []string{
	"problem", "solution", "customer", "user", "market", "business", "revenue",
	"profit", "service", "product", "platform", "application", "software",
	"tool", "system", "efficiency", "automation", "management", "analytics",
	"data", "workflow",
}

type aspect struct {
	name     string
	keywords []string
}

var businessAspects = []aspect{
	{"problem", []string{"problem", "issue", "challenge", "pain", "difficulty", "struggle"}},
	{"solution", []string{"solution", "solve", "fix", "address", "resolve", "tool", "platform", "service"}},
	{"target", []string{"customer", "user", "client", "audience", "market", "segment", "demographic"}},
	{"value", []string{"benefit", "value", "advantage", "improvement", "efficiency", "save", "reduce", "increase"}},
	{"business", []string{"business", "revenue", "profit", "monetize", "pricing", "subscription", "model"}},
}

// Validate runs every rule against the input and returns one Result per
// rule. Rules never short-circuit each other: an empty string still produces
// all three results (with the length rule scoring 0).
func Validate(input string) []Result {
	return []Result{
		minLength(input),
		contentQuality(input),
		businessCompleteness(input),
	}
}

// QualityScore is the simple arithmetic mean of all rule scores.
func QualityScore(results []Result) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range results {
		sum += r.Score
	}
	return sum / float64(len(results))
}

func minLength(input string) Result {
	trimmed := strings.TrimSpace(input)
	wordCount := len(strings.Fields(trimmed))
	charCount := len([]rune(trimmed))

	if charCount < 50 {
		return Result{
			Rule:    RuleMinLength,
			IsValid: false,
			Score:   0,
			Message: "Input too short. Please provide at least 50 characters.",
			Suggestions: []string{
				"Add more details about your target audience",
				"Describe the problem you're solving",
				"Explain your proposed solution",
			},
			Confidence: 1.0,
		}
	}
	if wordCount < 20 {
		return Result{
			Rule:    RuleMinLength,
			IsValid: false,
			Score:   25,
			Message: "Input lacks detail. Please provide at least 20 words for meaningful analysis.",
			Suggestions: []string{
				"Expand on the problem statement",
				"Include information about your target market",
				"Describe key features or benefits",
			},
			Confidence: 0.9,
		}
	}
	return Result{
		Rule:       RuleMinLength,
		IsValid:    true,
		Score:      math.Min(100, float64(wordCount)/100*100),
		Message:    fmt.Sprintf("Good input length with %d words.", wordCount),
		Confidence: 0.8,
	}
}

func contentQuality(input string) Result {
	lower := strings.ToLower(input)

	for _, p := range placeholders {
		if strings.Contains(lower, p) {
			return Result{
				Rule:    RuleContentQuality,
				IsValid: false,
				Score:   10,
				Message: "Input appears to contain placeholder text. Please provide real content.",
				Suggestions: []string{
					"Replace placeholder text with actual details",
					"Describe a real problem and solution",
					"Provide specific information about your idea",
				},
				Confidence: 0.95,
			}
		}
	}

	keywordCount := 0
	for _, kw := range businessKeywords {
		if strings.Contains(lower, kw) {
			keywordCount++
		}
	}
	keywordScore := math.Min(100, float64(keywordCount)/5*100)

	structureScore := 50.0
	if avg := meanSentenceLength(input); avg > 5 && avg < 30 {
		structureScore = 100
	}

	score := (keywordScore + structureScore) / 2
	res := Result{
		Rule:       RuleContentQuality,
		IsValid:    score >= 40,
		Score:      score,
		Confidence: 0.7,
	}
	if score >= 70 {
		res.Message = "Good content quality detected."
	} else {
		res.Message = "Content could be more detailed and business-focused."
		res.Suggestions = []string{
			"Include more business-specific terminology",
			"Describe the problem and solution more clearly",
			"Add details about target customers and market",
		}
	}
	return res
}

func businessCompleteness(input string) Result {
	lower := strings.ToLower(input)

	covered := 0
	var missing []string
	for _, a := range businessAspects {
		found := false
		for _, kw := range a.keywords {
			if strings.Contains(lower, kw) {
				found = true
				break
			}
		}
		if found {
			covered++
		} else {
			missing = append(missing, a.name)
		}
	}

	score := float64(covered) / float64(len(businessAspects)) * 100
	res := Result{
		Rule:    RuleBusinessCompleteness,
		IsValid: score >= 60,
		Score:   score,
		Message: fmt.Sprintf("Business completeness: %d%%. Covers %d/%d key aspects.",
			int(math.Round(score)), covered, len(businessAspects)),
		Confidence: 0.8,
	}
	if len(missing) > 0 {
		res.Suggestions = []string{
			"Consider adding information about: " + strings.Join(missing, ", "),
			"Describe the problem you're solving",
			"Explain your target audience",
			"Mention the value proposition",
		}
	}
	return res
}

// meanSentenceLength splits on sentence terminators and averages words per
// sentence. Returns 0 for input with no sentences.
func meanSentenceLength(input string) float64 {
	parts := strings.FieldsFunc(input, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	total, count := 0, 0
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		total += len(strings.Fields(p))
		count++
	}
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}
