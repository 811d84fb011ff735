// Package leveler implements the deterministic B1-B9 forensic analysis
// pipeline. Every stage is a pure function of its inputs and a versioned
// rule set; an analysis run never mutates its inputs and never consults
// the clock, so identical snapshots yield identical results.
package leveler

import (
	"log/slog"
	"slices"

	"github.com/JaimeStill/verum/evidence"
)

// Leveler sequences the B1-B9 stages over a case snapshot.
// A Leveler is immutable and safe for concurrent use.
type Leveler struct {
	rules  *Rules
	logger *slog.Logger
}

// Option configures a Leveler.
type Option func(*Leveler)

// WithLogger routes stage summaries to logger at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Leveler) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a Leveler over rules. A nil rule set selects DefaultRules.
func New(rules *Rules, opts ...Option) *Leveler {
	if rules == nil {
		rules = DefaultRules()
	}
	l := &Leveler{
		rules:  rules,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Rules returns the rule set the Leveler matches against.
func (l *Leveler) Rules() *Rules {
	return l.rules
}

// Analyze runs B1 through B9 over the statements, evidence, and expected
// evidence checklist and returns the assembled result.
func (l *Leveler) Analyze(statements []evidence.Statement, items []evidence.Evidence, expected []string) Result {
	statements = slices.Clone(statements)
	items = slices.Clone(items)
	expected = slices.Clone(expected)

	r := Result{RulesVersion: l.rules.Version}

	r.Chronology = BuildChronology(items)
	l.logger.Debug("chronology built", "events", len(r.Chronology.Events), "gaps", len(r.Chronology.Gaps), "score", r.Chronology.IntegrityScore)

	r.Contradictions = DetectContradictions(statements, l.rules)
	l.logger.Debug("contradictions detected", "count", len(r.Contradictions))

	r.EvidenceGaps = AnalyzeGaps(r.Chronology, expected, l.rules)
	l.logger.Debug("evidence gaps analyzed", "count", len(r.EvidenceGaps))

	r.Anomalies = DetectAnomalies(items)
	l.logger.Debug("timeline anomalies detected", "count", len(r.Anomalies))

	r.Behavioral = AnalyzeBehavior(statements, l.rules)
	l.logger.Debug("behavioral patterns analyzed", "count", len(r.Behavioral))

	r.Financial = CorrelateFinancials(statements, l.rules)
	l.logger.Debug("financials correlated", "transactions", len(r.Financial.Transactions), "discrepancies", len(r.Financial.Discrepancies))

	r.Communication = AnalyzeCommunication(statements, l.rules)
	l.logger.Debug("communication analyzed", "count", len(r.Communication))

	r.Compliance = CheckCompliance(items, statements, l.rules)
	l.logger.Debug("compliance checked", "jurisdictions", len(r.Compliance))

	r.Extraction = Extract(statements, l.rules)

	r.Integrity = ComputeIntegrity(r.Contradictions, r.Anomalies, r.Behavioral, r.EvidenceGaps)
	r.Confidence = Confidence(len(items), len(r.Contradictions))
	r.Recommendations = Recommendations(r)
	l.logger.Debug("integrity computed", "score", r.Integrity.Score, "category", r.Integrity.Category, "confidence", r.Confidence)

	return r
}

// Analyze runs the pipeline with DefaultRules.
func Analyze(statements []evidence.Statement, items []evidence.Evidence, expected []string) Result {
	return New(nil).Analyze(statements, items, expected)
}

// Input is a self-contained analysis request: a case snapshot with its
// evidence, the statements to weigh against it, and the expected evidence checklist.
type Input struct {
	Case       evidence.Case        `json:"case"`
	Statements []evidence.Statement `json:"statements"`
	Expected   []string             `json:"expected_evidence"`
}

// Run analyzes in's statements against its case evidence.
func (l *Leveler) Run(in Input) Result {
	return l.Analyze(in.Statements, in.Case.Evidence, in.Expected)
}
