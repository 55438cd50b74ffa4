// Package report renders analysis records as markdown, HTML and PDF.
package report

import (
	"fmt"
	"strings"

	"github.com/saascan/saascan/internal/analysis"
)

// BuildMarkdown renders one record as a GFM document. Sections appear only
// when the record's variant carries them.
func BuildMarkdown(rec analysis.Record) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# SaaS Idea Analysis\n\n")
	fmt.Fprintf(&b, "**Reference:** %s  \n", rec.ID)
	fmt.Fprintf(&b, "**Date:** %s  \n", rec.Timestamp)
	fmt.Fprintf(&b, "**Overall Score:** %d / 100", rec.OverallScore)
	if rec.Verdict != "" {
		fmt.Fprintf(&b, " (%s)", rec.Verdict)
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "## Idea\n\n%s\n\n", rec.OriginalIdea)

	if rec.Variant == analysis.VariantLegacy {
		writeLegacySections(&b, rec)
	} else {
		writeAssessmentTable(&b, rec)
	}

	if rec.Summary != "" {
		fmt.Fprintf(&b, "## Summary\n\n%s\n\n", rec.Summary)
	}
	if rec.Detailed != nil {
		writeDetailedSections(&b, rec.Detailed)
	}
	if len(rec.Risks) > 0 {
		writeRiskTable(&b, rec.Risks)
	}
	if len(rec.Opportunities) > 0 {
		writeOpportunityTable(&b, rec.Opportunities)
	}
	if len(rec.StructuredRecs) > 0 {
		writeRecommendationTable(&b, rec.StructuredRecs)
	}

	fmt.Fprintf(&b, "---\n\n*%s*\n", analysis.Disclaimer)
	return b.String()
}

func writeAssessmentTable(b *strings.Builder, rec analysis.Record) {
	b.WriteString("## Assessment\n\n")
	b.WriteString("| Dimension | Assessment |\n|---|---|\n")
	fmt.Fprintf(b, "| Target Audience | %s |\n", cell(rec.TargetAudience))
	fmt.Fprintf(b, "| Problems Solved | %s |\n", cell(rec.ProblemsSolved))
	fmt.Fprintf(b, "| Proposed Solution | %s |\n", cell(rec.ProposedSolution))
	fmt.Fprintf(b, "| Competitors | %s |\n", cell(strings.Join(rec.Competitors, ", ")))
	fmt.Fprintf(b, "| Scalability | %s |\n", cell(rec.Scalability))
	fmt.Fprintf(b, "| Revenue Model | %s |\n", cell(rec.RevenueModel))
	fmt.Fprintf(b, "| Innovation Level | %s |\n", rec.InnovationLevel)
	b.WriteString("\n")
}

func writeLegacySections(b *strings.Builder, rec analysis.Record) {
	if len(rec.Issues) > 0 {
		b.WriteString("## Issues\n\n")
		for _, iss := range rec.Issues {
			fmt.Fprintf(b, "- %s\n", iss)
		}
		b.WriteString("\n")
	}
	if len(rec.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, r := range rec.Recommendations {
			fmt.Fprintf(b, "- %s\n", r)
		}
		b.WriteString("\n")
	}
}

func writeDetailedSections(b *strings.Builder, d *analysis.DetailedAnalysis) {
	b.WriteString("## Detailed Analysis\n\n")
	if d.MarketAnalysis != "" {
		fmt.Fprintf(b, "**Market:** %s\n\n", d.MarketAnalysis)
	}
	if d.TechnicalFeasibility != "" {
		fmt.Fprintf(b, "**Technical Feasibility:** %s\n\n", d.TechnicalFeasibility)
	}
	if d.CompetitiveAdvantage != "" {
		fmt.Fprintf(b, "**Competitive Advantage:** %s\n\n", d.CompetitiveAdvantage)
	}
	if d.RiskAssessment != "" {
		fmt.Fprintf(b, "**Risk Assessment:** %s\n\n", d.RiskAssessment)
	}
	if len(d.Recommendations) > 0 {
		b.WriteString("**Next Steps:**\n\n")
		for _, r := range d.Recommendations {
			fmt.Fprintf(b, "- %s\n", r)
		}
		b.WriteString("\n")
	}
}

func writeRiskTable(b *strings.Builder, risks []analysis.Risk) {
	b.WriteString("## Risks\n\n")
	b.WriteString("| Category | Risk | Probability | Impact | Mitigation |\n|---|---|---|---|---|\n")
	for _, r := range risks {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n",
			cell(r.Category), cell(r.Risk), r.Probability, r.Impact, cell(r.Mitigation))
	}
	b.WriteString("\n")
}

func writeOpportunityTable(b *strings.Builder, opps []analysis.Opportunity) {
	b.WriteString("## Opportunities\n\n")
	b.WriteString("| Area | Opportunity | Potential Impact | Effort |\n|---|---|---|---|\n")
	for _, o := range opps {
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
			cell(o.Area), cell(o.Opportunity), cell(o.PotentialImpact), o.EffortRequired)
	}
	b.WriteString("\n")
}

func writeRecommendationTable(b *strings.Builder, recs []analysis.Recommendation) {
	b.WriteString("## Recommendations\n\n")
	b.WriteString("| Priority | Action | Rationale | Timeline |\n|---|---|---|---|\n")
	for _, r := range recs {
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
			r.Priority, cell(r.Action), cell(r.Rationale), cell(r.Timeline))
	}
	b.WriteString("\n")
}

// cell keeps table rows intact when a value carries pipes or newlines.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
