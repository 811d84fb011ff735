package leveler

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// PatternPair is an opposing pair of lexical patterns.
type PatternPair struct {
	First  string `yaml:"first"`
	Second string `yaml:"second"`
}

// Label renders the pair as the violated-rule label of a contradiction.
func (p PatternPair) Label() string {
	return p.First + " / " + p.Second
}

// KeywordFamily groups the keywords that indicate one pattern type.
type KeywordFamily struct {
	Type     string   `yaml:"type"`
	Keywords []string `yaml:"keywords"`
}

// Currency describes how a currency is recognized in statement text.
type Currency struct {
	Code     string   `yaml:"code"`
	Symbols  []string `yaml:"symbols"`
	Keywords []string `yaml:"keywords"`
}

// JurisdictionProfile holds the static requirement citations of a jurisdiction.
type JurisdictionProfile struct {
	Code         string   `yaml:"code"`
	Name         string   `yaml:"name"`
	Requirements []string `yaml:"requirements"`
}

// Tag maps extraction keywords to a case tag.
type Tag struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// MatrixCategory is a weighted dishonesty-matrix category of `a.*b` patterns.
type MatrixCategory struct {
	Category string   `yaml:"category"`
	Weight   int      `yaml:"weight"`
	Patterns []string `yaml:"patterns"`
}

// Rules is the versioned rule set every Leveler stage matches against.
// Rules are data: swapping the rule set changes detections without
// touching stage logic. Keyword lists are case-folded when loaded.
type Rules struct {
	Version        string        `yaml:"version"`
	Contradictions []PatternPair `yaml:"contradictions"`
	Gaps           struct {
		Critical []string `yaml:"critical"`
		High     []string `yaml:"high"`
	} `yaml:"gaps"`
	Behavioral    []KeywordFamily `yaml:"behavioral"`
	Communication struct {
		DeletionPhrases []string `yaml:"deletion_phrases"`
		Formal          []string `yaml:"formal"`
		Informal        []string `yaml:"informal"`
		Hostile         []string `yaml:"hostile"`
	} `yaml:"communication"`
	Financial struct {
		DefaultCurrency string          `yaml:"default_currency"`
		GenericSymbols  []string        `yaml:"generic_symbols"`
		Classes         []KeywordFamily `yaml:"classes"`
		Currencies      []Currency      `yaml:"currencies"`
	} `yaml:"financial"`
	PersonalData  []string              `yaml:"personal_data"`
	Jurisdictions []JurisdictionProfile `yaml:"jurisdictions"`
	Extraction    struct {
		Keywords []string         `yaml:"keywords"`
		Tags     []Tag            `yaml:"tags"`
		Matrix   []MatrixCategory `yaml:"matrix"`
	} `yaml:"extraction"`

	amountPattern  *regexp.Regexp
	matrixPatterns map[string]*regexp.Regexp
}

var (
	defaultOnce  sync.Once
	defaultRules *Rules
	defaultErr   error
)

// DefaultRules returns the embedded rule set. It panics if the embedded
// rules fail to load, which indicates a build defect.
func DefaultRules() *Rules {
	defaultOnce.Do(func() {
		defaultRules, defaultErr = parseRules(defaultRulesYAML)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("load embedded rules: %v", defaultErr))
	}
	return defaultRules
}

// LoadRules parses a rule set from r.
func LoadRules(r io.Reader) (*Rules, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return parseRules(data)
}

// LoadRulesFile parses a rule set from the file at path.
func LoadRulesFile(path string) (*Rules, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules: %w", err)
	}
	defer f.Close()
	return LoadRules(f)
}

func parseRules(data []byte) (*Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRules, err)
	}
	if err := r.compile(); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *Rules) compile() error {
	if r.Version == "" {
		return fmt.Errorf("%w: version required", ErrInvalidRules)
	}
	if r.Financial.DefaultCurrency == "" {
		r.Financial.DefaultCurrency = "USD"
	}
	r.normalize()

	symbols := slices.Clone(r.Financial.GenericSymbols)
	for _, c := range r.Financial.Currencies {
		symbols = append(symbols, c.Symbols...)
	}
	if len(symbols) == 0 {
		return fmt.Errorf("%w: no currency symbols", ErrInvalidRules)
	}
	// longest first so "US$" wins over "$"
	slices.SortStableFunc(symbols, func(a, b string) int { return len(b) - len(a) })

	alts := make([]string, len(symbols))
	for i, s := range symbols {
		alts[i] = regexp.QuoteMeta(s)
		if isWord(s) {
			alts[i] = `\b` + alts[i]
		}
	}
	// dot-grouped amounts need a decimal comma ("1.000,50"); "1.000" alone reads as 1.0
	pattern := `(?i)(` + strings.Join(alts, "|") + `)\s?(\d{1,3}(?:\.\d{3})+,\d+|\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)`
	amount, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("%w: amount pattern: %w", ErrInvalidRules, err)
	}
	r.amountPattern = amount

	r.matrixPatterns = make(map[string]*regexp.Regexp)
	for _, cat := range r.Extraction.Matrix {
		for _, p := range cat.Patterns {
			re, err := regexp.Compile(`(?is)` + p)
			if err != nil {
				return fmt.Errorf("%w: matrix pattern %q: %w", ErrInvalidRules, p, err)
			}
			r.matrixPatterns[p] = re
		}
	}

	for _, j := range r.Jurisdictions {
		if _, ok := jurisdictionChecks[j.Code]; !ok {
			return fmt.Errorf("%w: unknown jurisdiction %q", ErrInvalidRules, j.Code)
		}
	}
	return nil
}

// normalize folds every keyword list so stages can match against folded text.
func (r *Rules) normalize() {
	for i, p := range r.Contradictions {
		r.Contradictions[i] = PatternPair{First: fold(p.First), Second: fold(p.Second)}
	}
	r.Gaps.Critical = foldAll(r.Gaps.Critical)
	r.Gaps.High = foldAll(r.Gaps.High)
	for i := range r.Behavioral {
		r.Behavioral[i].Keywords = foldAll(r.Behavioral[i].Keywords)
	}

	comm := &r.Communication
	comm.DeletionPhrases = foldAll(comm.DeletionPhrases)
	comm.Formal = foldAll(comm.Formal)
	comm.Informal = foldAll(comm.Informal)
	comm.Hostile = foldAll(comm.Hostile)

	for i := range r.Financial.Classes {
		r.Financial.Classes[i].Keywords = foldAll(r.Financial.Classes[i].Keywords)
	}
	for i := range r.Financial.Currencies {
		r.Financial.Currencies[i].Keywords = foldAll(r.Financial.Currencies[i].Keywords)
	}

	r.PersonalData = foldAll(r.PersonalData)
	r.Extraction.Keywords = foldAll(r.Extraction.Keywords)
	for i := range r.Extraction.Tags {
		r.Extraction.Tags[i].Keywords = foldAll(r.Extraction.Tags[i].Keywords)
	}
}

func isWord(s string) bool {
	for _, c := range s {
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return s != ""
}
