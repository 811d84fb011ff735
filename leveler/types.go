package leveler

import (
	"time"

	"github.com/JaimeStill/verum/evidence"
)

// Severity grades the seriousness of a finding.
type Severity string

// Severity levels.
const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// ChronologyEvent is one evidence item placed on the timeline.
type ChronologyEvent struct {
	EvidenceID  string        `json:"evidence_id"`
	Kind        evidence.Kind `json:"kind"`
	Timestamp   time.Time     `json:"timestamp"`
	Description string        `json:"description"`
	Confidence  float64       `json:"confidence"`
	Sealed      bool          `json:"sealed"`
}

// TimeGap is an interval between adjacent chronology events longer than the gap threshold.
type TimeGap struct {
	FromEvidenceID string   `json:"from_evidence_id"`
	ToEvidenceID   string   `json:"to_evidence_id"`
	Hours          float64  `json:"hours"`
	Severity       Severity `json:"severity"`
}

// Chronology is the timestamp-ordered reconstruction of the evidence set (B1).
type Chronology struct {
	Events         []ChronologyEvent `json:"events"`
	Gaps           []TimeGap         `json:"gaps"`
	IntegrityScore int               `json:"integrity_score"`
}

// ContradictionType classifies a contradiction.
type ContradictionType string

// Contradiction types.
const (
	ContradictionDirectOpposite ContradictionType = "DIRECT_OPPOSITE"
)

// Contradiction is a pair of statements by one speaker matching an opposing rule (B2).
type Contradiction struct {
	Type       ContradictionType  `json:"type"`
	Speaker    string             `json:"speaker"`
	StatementA evidence.Statement `json:"statement_a"`
	StatementB evidence.Statement `json:"statement_b"`
	Severity   Severity           `json:"severity"`
	Rule       string             `json:"rule"`
}

// EvidenceGap is an expected evidence type missing from the chronology (B3).
type EvidenceGap struct {
	ExpectedType      string   `json:"expected_type"`
	Criticality       Severity `json:"criticality"`
	RecommendedAction string   `json:"recommended_action"`
}

// AnomalyType classifies a timeline anomaly.
type AnomalyType string

// Timeline anomaly types.
const (
	AnomalyEditAfterFact AnomalyType = "EDIT_AFTER_FACT"
	AnomalySuspiciousGap AnomalyType = "SUSPICIOUS_GAP"
)

// TimelineAnomaly flags an evidence item or pair whose timing is suspicious (B4).
type TimelineAnomaly struct {
	Type        AnomalyType `json:"type"`
	EvidenceIDs []string    `json:"evidence_ids"`
	Description string      `json:"description"`
	Suspicion   float64     `json:"suspicion"`
}

// BehavioralPattern is a lexical indicator family found across statements (B5).
type BehavioralPattern struct {
	Type      string   `json:"type"`
	Score     float64  `json:"score"`
	Examples  []string `json:"examples"`
	Frequency int      `json:"frequency"`
}

// TransactionType classifies a monetary statement.
type TransactionType string

// Transaction types.
const (
	TransactionInvoice       TransactionType = "INVOICE"
	TransactionPayment       TransactionType = "PAYMENT"
	TransactionReceipt       TransactionType = "RECEIPT"
	TransactionContractValue TransactionType = "CONTRACT_VALUE"
)

// Transaction is a monetary amount extracted from a statement.
type Transaction struct {
	StatementID string          `json:"statement_id"`
	Speaker     string          `json:"speaker"`
	Type        TransactionType `json:"type"`
	Amount      float64         `json:"amount"`
	Currency    string          `json:"currency"`
	Timestamp   time.Time       `json:"timestamp"`
}

// DiscrepancyType classifies a financial discrepancy.
type DiscrepancyType string

// Financial discrepancy types.
const (
	DiscrepancyAmountMismatch   DiscrepancyType = "AMOUNT_MISMATCH"
	DiscrepancyMissingPayment   DiscrepancyType = "MISSING_PAYMENT"
	DiscrepancyDuplicateInvoice DiscrepancyType = "DUPLICATE_INVOICE"
	DiscrepancyDateDiscrepancy  DiscrepancyType = "DATE_DISCREPANCY"
)

// FinancialDiscrepancy is an inconsistency between invoices and payments (B6).
// RelatedIDs references the statements the amounts were extracted from.
type FinancialDiscrepancy struct {
	Type        DiscrepancyType `json:"type"`
	Description string          `json:"description"`
	Expected    float64         `json:"expected"`
	Actual      float64         `json:"actual"`
	Currency    string          `json:"currency"`
	Severity    Severity        `json:"severity"`
	RelatedIDs  []string        `json:"related_ids"`
}

// Financial is the B6 result: every extracted transaction and the discrepancies found.
type Financial struct {
	Transactions  []Transaction          `json:"transactions"`
	Discrepancies []FinancialDiscrepancy `json:"discrepancies"`
}

// CommunicationType classifies a communication pattern.
type CommunicationType string

// Communication pattern types.
const (
	CommunicationResponseDelay   CommunicationType = "RESPONSE_DELAY"
	CommunicationDeletedMessages CommunicationType = "DELETED_MESSAGES"
	CommunicationUnusualTiming   CommunicationType = "UNUSUAL_TIMING"
	CommunicationToneShift       CommunicationType = "TONE_SHIFT"
	CommunicationHighHostility   CommunicationType = "HIGH_HOSTILITY"
)

// CommunicationPattern is a per-speaker communication signal (B7).
type CommunicationPattern struct {
	Type             CommunicationType `json:"type"`
	Speaker          string            `json:"speaker"`
	Frequency        int               `json:"frequency"`
	MeanLatencyHours float64           `json:"mean_latency_hours"`
	Indicators       []string          `json:"indicators"`
	Score            float64           `json:"score"`
}

// Violation is a failed jurisdictional rule check.
type Violation struct {
	Rule        string   `json:"rule"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// JurisdictionalCompliance is the B8 result for one jurisdiction.
type JurisdictionalCompliance struct {
	Jurisdiction string      `json:"jurisdiction"`
	Compliant    bool        `json:"compliant"`
	Violations   []Violation `json:"violations"`
	Requirements []string    `json:"requirements"`
	Score        int         `json:"score"`
}

// Category buckets an integrity score.
type Category string

// Integrity categories.
const (
	CategoryExcellent   Category = "EXCELLENT"
	CategoryGood        Category = "GOOD"
	CategoryFair        Category = "FAIR"
	CategoryPoor        Category = "POOR"
	CategoryCompromised Category = "COMPROMISED"
)

// PenaltyBreakdown records the capped penalty taken from each source.
type PenaltyBreakdown struct {
	Contradictions float64 `json:"contradictions"`
	Timeline       float64 `json:"timeline"`
	Behavioral     float64 `json:"behavioral"`
	EvidenceGaps   float64 `json:"evidence_gaps"`
}

// IntegrityIndex is the final bounded score of a case (B9).
type IntegrityIndex struct {
	Score     float64          `json:"score"`
	Category  Category         `json:"category"`
	Breakdown PenaltyBreakdown `json:"breakdown"`
}

// KeywordHit counts statements containing an extraction keyword.
type KeywordHit struct {
	Keyword      string   `json:"keyword"`
	Count        int      `json:"count"`
	StatementIDs []string `json:"statement_ids"`
}

// DishonestyFlag is a dishonesty-matrix pattern matched by a statement.
type DishonestyFlag struct {
	Category    string `json:"category"`
	Pattern     string `json:"pattern"`
	Weight      int    `json:"weight"`
	StatementID string `json:"statement_id"`
}

// Extraction is the informational keyword, tag, and dishonesty-matrix scan of the statements.
type Extraction struct {
	Keywords []KeywordHit     `json:"keywords"`
	Tags     []string         `json:"tags"`
	Flags    []DishonestyFlag `json:"flags"`
	Weight   int              `json:"weight"`
}

// Result aggregates every Leveler stage. It is a value object produced
// fresh per run and carries no time-of-run data, so identical inputs
// produce identical results.
type Result struct {
	RulesVersion    string                     `json:"rules_version"`
	Chronology      Chronology                 `json:"chronology"`
	Contradictions  []Contradiction            `json:"contradictions"`
	EvidenceGaps    []EvidenceGap              `json:"evidence_gaps"`
	Anomalies       []TimelineAnomaly          `json:"anomalies"`
	Behavioral      []BehavioralPattern        `json:"behavioral"`
	Financial       Financial                  `json:"financial"`
	Communication   []CommunicationPattern     `json:"communication"`
	Compliance      []JurisdictionalCompliance `json:"compliance"`
	Extraction      Extraction                 `json:"extraction"`
	Integrity       IntegrityIndex             `json:"integrity"`
	Confidence      float64                    `json:"confidence"`
	Recommendations []string                   `json:"recommendations"`
}
