package llm

import "strings"

const conceptMarker = "{SAAS_CONCEPT}"

const horizontalAnalysisPrompt = `Your task is to analyze the provided SaaS concept and return a comprehensive assessment in the exact JSON format specified below. Be specific, realistic, and provide actionable insights.

First assess input quality: if the concept is spam or test content (random strings, nonsense), give realistic low scores. Only genuine business concepts should receive higher scores.

Analyze the SaaS concept across these dimensions:

1. TARGET AUDIENCE: the primary user segments who would benefit most from this solution
2. PROBLEMS SOLVED: the specific pain points and challenges this SaaS addresses
3. PROPOSED SOLUTION: the unique value proposition and core functionality
4. COMPETITORS: existing solutions in this space, direct and indirect
5. SCALABILITY: growth potential and expansion strategies
6. REVENUE MODEL: optimal revenue generation approaches
7. INNOVATION LEVEL: novelty and differentiation (Low/Medium/High)
8. OVERALL SCORE: a comprehensive viability score

Return your analysis in this exact JSON structure:

{
  "originalIdea": "Repeat the original user input exactly as provided",
  "targetAudience": "Specific description of primary user segments and personas",
  "problemsSolved": "Clear articulation of pain points and challenges addressed",
  "proposedSolution": "Refined value proposition and core solution description",
  "competitors": ["List of 3-5 existing competitors or alternatives"],
  "scalability": "Assessment of growth potential and expansion strategies",
  "revenueModel": "Recommended revenue model and monetization approach",
  "innovationLevel": "Low" | "Medium" | "High",
  "overallScore": <number between 10-95 based on input quality and business viability>
}

Analyze the following SaaS concept: ` + conceptMarker

const legacyAnalysisPrompt = `Evaluate the provided SaaS idea and return a JSON assessment of its weaknesses and next steps.

Return your analysis in this exact JSON structure:

{
  "score": <number between 10-95>,
  "issues": ["List of 2-5 specific weaknesses in the idea"],
  "recommendations": ["List of 2-5 concrete next steps, matching the issues"]
}

Evaluate the following SaaS idea: ` + conceptMarker

// HorizontalPrompt substitutes the idea text into the horizontal-table
// analysis prompt.
func HorizontalPrompt(idea string) string {
	return strings.ReplaceAll(horizontalAnalysisPrompt, conceptMarker, idea)
}

// LegacyPrompt substitutes the idea text into the legacy score/issues prompt.
func LegacyPrompt(idea string) string {
	return strings.ReplaceAll(legacyAnalysisPrompt, conceptMarker, idea)
}
