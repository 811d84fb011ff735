package leveler

import (
	"slices"
	"strings"

	"github.com/JaimeStill/verum/evidence"
)

// Extract scans statements for extraction keywords, derives case tags from
// the keywords found, and flags dishonesty-matrix patterns. It is
// informational and does not feed the integrity index.
func Extract(statements []evidence.Statement, rules *Rules) Extraction {
	x := Extraction{
		Keywords: []KeywordHit{},
		Tags:     []string{},
		Flags:    []DishonestyFlag{},
	}

	texts := make([]string, len(statements))
	for i, s := range statements {
		texts[i] = fold(s.Content)
	}

	hit := make(map[string]bool)
	for _, k := range rules.Extraction.Keywords {
		if k == "" {
			continue
		}
		kh := KeywordHit{Keyword: k, StatementIDs: []string{}}
		for i, text := range texts {
			if strings.Contains(text, k) {
				kh.Count++
				kh.StatementIDs = append(kh.StatementIDs, statements[i].ID)
			}
		}
		if kh.Count > 0 {
			hit[k] = true
			x.Keywords = append(x.Keywords, kh)
		}
	}

	for _, tag := range rules.Extraction.Tags {
		if slices.ContainsFunc(tag.Keywords, func(k string) bool { return hit[k] }) {
			x.Tags = append(x.Tags, tag.Name)
		}
	}

	for _, cat := range rules.Extraction.Matrix {
		for _, p := range cat.Patterns {
			re := rules.matrixPatterns[p]
			if re == nil {
				continue
			}
			for _, s := range statements {
				if !re.MatchString(s.Content) {
					continue
				}
				x.Flags = append(x.Flags, DishonestyFlag{
					Category:    cat.Category,
					Pattern:     p,
					Weight:      cat.Weight,
					StatementID: s.ID,
				})
				x.Weight += cat.Weight
			}
		}
	}
	return x
}
