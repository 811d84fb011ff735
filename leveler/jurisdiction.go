package leveler

import (
	"fmt"
	"regexp"
	"slices"
	"unicode"

	"github.com/JaimeStill/verum/evidence"
)

// ComplianceBaseScore is the per-jurisdiction score before violation weights.
const ComplianceBaseScore = 100

var violationWeight = map[Severity]int{
	SeverityCritical: 30,
	SeverityHigh:     20,
	SeverityMedium:   10,
	SeverityLow:      5,
}

var emailPattern = regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.-]+`)

type complianceCheck func(items []evidence.Evidence, statements []evidence.Statement, rules *Rules) []Violation

// jurisdictionChecks holds the rule checks of each supported jurisdiction code.
// Rule sets may only name jurisdictions present here.
var jurisdictionChecks = map[string]complianceCheck{
	"UAE": checkUAE,
	"UK":  checkUK,
	"EU":  checkEU,
	"US":  checkUS,
}

// CheckCompliance evaluates the evidence and statements against every
// jurisdiction profile of rules, in rule order (B8).
func CheckCompliance(items []evidence.Evidence, statements []evidence.Statement, rules *Rules) []JurisdictionalCompliance {
	results := make([]JurisdictionalCompliance, 0, len(rules.Jurisdictions))
	for _, j := range rules.Jurisdictions {
		results = append(results, CheckJurisdiction(j, items, statements, rules))
	}
	return results
}

// CheckJurisdiction evaluates a single jurisdiction profile. A jurisdiction
// is compliant when no CRITICAL or HIGH violation is found.
func CheckJurisdiction(j JurisdictionProfile, items []evidence.Evidence, statements []evidence.Statement, rules *Rules) JurisdictionalCompliance {
	violations := []Violation{}
	if check, ok := jurisdictionChecks[j.Code]; ok {
		violations = append(violations, check(items, statements, rules)...)
	}

	score := ComplianceBaseScore
	compliant := true
	for _, v := range violations {
		score -= violationWeight[v.Severity]
		if v.Severity == SeverityCritical || v.Severity == SeverityHigh {
			compliant = false
		}
	}

	requirements := slices.Clone(j.Requirements)
	if requirements == nil {
		requirements = []string{}
	}

	return JurisdictionalCompliance{
		Jurisdiction: j.Code,
		Compliant:    compliant,
		Violations:   violations,
		Requirements: requirements,
		Score:        max(score, 0),
	}
}

func checkUAE(items []evidence.Evidence, statements []evidence.Statement, _ *Rules) []Violation {
	var v []Violation
	if n := untranslated(statements); n > 0 {
		v = append(v, Violation{
			Rule:        "UAE Law of Evidence Art. 17",
			Description: fmt.Sprintf("%d statements contain no Arabic text and require a certified Arabic translation", n),
			Severity:    SeverityMedium,
		})
	}
	if n := unsealed(items); n > 0 {
		v = append(v, Violation{
			Rule:        "UAE Electronic Transactions Law Art. 9",
			Description: fmt.Sprintf("%d of %d evidence items are not sealed and cannot be authenticated", n, len(items)),
			Severity:    SeverityHigh,
		})
	}
	return v
}

func checkUK(items []evidence.Evidence, _ []evidence.Statement, _ *Rules) []Violation {
	var v []Violation
	if n := unsealed(items); n > 0 {
		v = append(v, Violation{
			Rule:        "Civil Evidence Act 1995 s.8",
			Description: fmt.Sprintf("%d of %d evidence items are unauthenticated", n, len(items)),
			Severity:    SeverityHigh,
		})
	}

	missing := 0
	for _, e := range items {
		if e.Location == nil {
			missing++
		}
	}
	if missing*2 > len(items) {
		v = append(v, Violation{
			Rule:        "ACPO Principle 3",
			Description: fmt.Sprintf("%d of %d evidence items carry no geolocation", missing, len(items)),
			Severity:    SeverityMedium,
		})
	}
	return v
}

func checkEU(items []evidence.Evidence, statements []evidence.Statement, rules *Rules) []Violation {
	var v []Violation
	open := unsealed(items)

	if open > 0 && personalData(statements, rules) {
		v = append(v, Violation{
			Rule:        "GDPR Art. 5(1)(f)",
			Description: fmt.Sprintf("personal data present while %d evidence items are not sealed", open),
			Severity:    SeverityHigh,
		})
	}
	if open > 0 && open < len(items) {
		v = append(v, Violation{
			Rule:        "eIDAS Art. 41",
			Description: fmt.Sprintf("evidence set is partially sealed (%d of %d sealed)", len(items)-open, len(items)),
			Severity:    SeverityMedium,
		})
	}
	return v
}

func checkUS(items []evidence.Evidence, _ []evidence.Statement, _ *Rules) []Violation {
	var v []Violation
	if n := unsealed(items); n > 0 {
		v = append(v, Violation{
			Rule:        "FRE 901",
			Description: fmt.Sprintf("%d of %d evidence items lack authentication", n, len(items)),
			Severity:    SeverityHigh,
		})
	}

	var incomplete, undated int
	for _, e := range items {
		m := e.Metadata
		if m.Filename == "" || m.DeviceInfo == "" || m.CreatedAt.IsZero() {
			incomplete++
		}
		if e.Timestamp.IsZero() {
			undated++
		}
	}
	if incomplete > 0 {
		v = append(v, Violation{
			Rule:        "FRCP 34",
			Description: fmt.Sprintf("%d evidence items have incomplete ESI metadata", incomplete),
			Severity:    SeverityMedium,
		})
	}
	if undated > 0 {
		v = append(v, Violation{
			Rule:        "FRE 902(13)",
			Description: fmt.Sprintf("%d evidence items have no capture timestamp", undated),
			Severity:    SeverityHigh,
		})
	}
	return v
}

func unsealed(items []evidence.Evidence) int {
	n := 0
	for _, e := range items {
		if !e.Sealed {
			n++
		}
	}
	return n
}

// untranslated counts statements with letters but no Arabic script.
func untranslated(statements []evidence.Statement) int {
	n := 0
	for _, s := range statements {
		var letters, arabic bool
		for _, r := range s.Content {
			if unicode.IsLetter(r) {
				letters = true
			}
			if unicode.Is(unicode.Arabic, r) {
				arabic = true
				break
			}
		}
		if letters && !arabic {
			n++
		}
	}
	return n
}

func personalData(statements []evidence.Statement, rules *Rules) bool {
	for _, s := range statements {
		if emailPattern.MatchString(s.Content) || containsAny(fold(s.Content), rules.PersonalData) {
			return true
		}
	}
	return false
}
