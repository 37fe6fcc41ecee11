package analysis

import "io"

// Severity / urgency levels used by legal alerts and critical deadlines.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// MarketComparable is one comparable transaction near the leased premises.
type MarketComparable struct {
	Address         string  `json:"address"`
	DistanceKM      float64 `json:"distance_km"`
	PricePerSQM     float64 `json:"price_per_sqm"`
	TransactionDate string  `json:"transaction_date,omitempty"`
	Surface         float64 `json:"surface"`
	SimilarityScore float64 `json:"similarity_score"`
}

// MarketIntelligence positions the lease against local market data.
type MarketIntelligence struct {
	PercentilePosition   string             `json:"percentile_position"`
	MarketMedianPrice    string             `json:"market_median_price"`
	YourEstimatedPrice   string             `json:"your_estimated_price"`
	ImmediateOpportunity string             `json:"immediate_opportunity"`
	ConfidenceLevel      string             `json:"confidence_level"`
	ComparableCount      int                `json:"comparable_count"`
	Comparables          []MarketComparable `json:"comparables"`
}

// LegalAlert is a compliance issue found in the lease.
type LegalAlert struct {
	Severity        Severity `json:"severity"`
	Type            string   `json:"type"`
	Description     string   `json:"description"`
	LegalReference  string   `json:"legal_reference"`
	ActionRequired  string   `json:"action_required"`
	Deadline        string   `json:"deadline,omitempty"`
	FinancialImpact string   `json:"financial_impact,omitempty"`
}

// CriticalDeadline is a contractual date the tenant must act on.
type CriticalDeadline struct {
	Type           string   `json:"type"`
	Date           string   `json:"date"`
	DaysRemaining  int      `json:"days_remaining"`
	Urgency        Severity `json:"urgency"`
	ActionRequired string   `json:"action_required"`
	PotentialLoss  string   `json:"potential_loss,omitempty"`
}

// Opportunity is a financial optimization lever detected in the lease.
// Impact is a display string; the literal "N/A" means not yet quantified.
type Opportunity struct {
	Type             string `json:"type"`
	Description      string `json:"description"`
	Impact           string `json:"impact"`
	Recommendation   string `json:"recommendation"`
	Confidence       string `json:"confidence,omitempty"`
	LegalBasis       string `json:"legal_basis,omitempty"`
	ComparablesCount int    `json:"comparables_count,omitempty"`
}

// FinancialMetrics are display-formatted amounts, not raw numbers.
type FinancialMetrics struct {
	AnnualRent         string `json:"annual_rent"`
	OperationalCharges string `json:"operational_charges"`
	PotentialSavings   string `json:"potential_savings"`
	OptimizedRent      string `json:"optimized_rent"`
	MarketPosition     string `json:"market_position,omitempty"`
}

// Result is the analysis payload returned by the LeaseBoost analysis API.
// The frontend treats it as an immutable value: it is persisted in the
// session store and rendered, never modified.
type Result struct {
	MarketIntelligence MarketIntelligence `json:"market_intelligence"`
	LegalAlerts        []LegalAlert       `json:"legal_alerts"`
	CriticalDeadlines  []CriticalDeadline `json:"critical_deadlines"`
	Opportunities      []Opportunity      `json:"opportunities"`
	FinancialMetrics   FinancialMetrics   `json:"financial_metrics"`
	ExecutiveSummary   string             `json:"executive_summary"`
	AnalysisConfidence string             `json:"analysis_confidence"`
	ComplianceScore    string             `json:"compliance_score"`
}

// Upload is the lease document submitted for analysis.
type Upload struct {
	Filename    string
	Size        int64
	ContentType string
	Content     io.Reader
}
