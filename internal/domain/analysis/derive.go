package analysis

import "strings"

// Placeholder shown when an optional field is absent from the payload.
const Placeholder = "Non disponible"

// OrPlaceholder substitutes the placeholder for empty display fields.
func OrPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

// ComplianceLabel splits the compliance score into its label and optional
// explanation. The API formats it as "<label> - <explanation>".
func (r *Result) ComplianceLabel() (label, explanation string) {
	label, explanation, found := strings.Cut(r.ComplianceScore, " - ")
	label = strings.TrimSpace(label)
	if label == "" {
		label = Placeholder
	}
	if !found {
		return label, ""
	}
	return label, strings.TrimSpace(explanation)
}

// HasImmediateOpportunity reports whether the market analysis found an
// actionable opportunity. The API signals it with the word "possible"
// somewhere in the free-text field.
func (m *MarketIntelligence) HasImmediateOpportunity() bool {
	return strings.Contains(strings.ToLower(m.ImmediateOpportunity), "possible")
}

// SimilarityPercent converts the [0,1] similarity score for display.
func (c *MarketComparable) SimilarityPercent() int {
	return int(c.SimilarityScore*100 + 0.5)
}

// Quantified reports whether the opportunity carries a chiffrable impact.
func (o *Opportunity) Quantified() bool {
	impact := strings.TrimSpace(o.Impact)
	return impact != "" && impact != "N/A"
}
