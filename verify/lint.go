// Package verify performs static checks on a parsed rule table. The
// parser already rejects hard defects; lint flags tables that load fine
// but cannot behave the way their author probably intended.
package verify

import (
	"fmt"

	"github.com/retargetlab/relower/rule"
)

type IssueType string

const (
	// IssueShadow flags a variant that repeats an earlier variant's mode
	// tuple. First listed wins, so the later variant never matches.
	IssueShadow IssueType = "SHADOW"

	// IssueLoader flags a loader-rule variant whose arity is not one.
	// Sub-expansion always presents exactly one operand.
	IssueLoader IssueType = "LOADER"

	// IssueCycle flags a substitution whose replacement re-matches its
	// own pattern, which can never reach a fixed point.
	IssueCycle IssueType = "CYCLE"

	// IssueWildcard flags a deletion rule made only of wildcards; it
	// deletes every line of the output.
	IssueWildcard IssueType = "WILDCARD"
)

// Issue is one lint finding.
type Issue struct {
	Type    IssueType
	Opcode  string
	Variant int
	Line    int
	Message string
}

// RunLint checks the whole table and returns the issues found, or an
// empty list if the table is clean.
func RunLint(t *rule.Table) []Issue {
	var issues []Issue

	for _, opcode := range t.Order {
		issues = append(issues, lintMapRule(t.Maps[opcode])...)
	}
	for _, p := range t.Peeps {
		issues = append(issues, lintPeepRule(p)...)
	}

	return issues
}

func lintMapRule(r *rule.MapRule) []Issue {
	var issues []Issue

	for n, v := range r.Variants {
		for m := 0; m < n; m++ {
			if !sameSignature(r.Variants[m], v) {
				continue
			}
			issues = append(issues, Issue{
				Type:    IssueShadow,
				Opcode:  r.Opcode,
				Variant: n,
				Line:    r.Line,
				Message: fmt.Sprintf(
					"variant %d (%s) repeats the mode tuple of variant %d and can never match",
					n, v.Signature(), m),
			})
			break
		}

		if r.Opcode == rule.LoaderOpcode && len(v.Operands) != 1 {
			issues = append(issues, Issue{
				Type:    IssueLoader,
				Opcode:  r.Opcode,
				Variant: n,
				Line:    r.Line,
				Message: fmt.Sprintf(
					"loader variant %d takes %d operands; sub-expansion always supplies one",
					n, len(v.Operands)),
			})
		}
	}

	return issues
}

func sameSignature(a, b rule.Variant) bool {
	if len(a.Operands) != len(b.Operands) {
		return false
	}
	for n := range a.Operands {
		if a.Operands[n].Mode != b.Operands[n].Mode {
			return false
		}
	}
	return true
}

func lintPeepRule(p rule.PeepRule) []Issue {
	var issues []Issue

	switch p.Kind {
	case rule.PeepDelete:
		if allWildcards(p.Match) {
			issues = append(issues, Issue{
				Type:    IssueWildcard,
				Line:    p.Line,
				Message: "deletion pattern matches any line; it erases the whole output",
			})
		}

	case rule.PeepSubstitute:
		if replacementMatchesPattern(p) {
			issues = append(issues, Issue{
				Type:    IssueCycle,
				Line:    p.Line,
				Message: "replacement re-matches the rule's own pattern; the pass cannot settle",
			})
		}
	}

	return issues
}

func allWildcards(pats []rule.LinePattern) bool {
	for _, lp := range pats {
		for _, tp := range lp.Toks {
			if tp.Kind == rule.TokLiteral {
				return false
			}
		}
	}
	return true
}

// replacementMatchesPattern conservatively re-matches the rendered
// replacement (captures standing for themselves) against the rule's own
// pattern. A hit means the rule rewrites its output into another match.
func replacementMatchesPattern(p rule.PeepRule) bool {
	if len(p.Replace) < len(p.Match) {
		return false
	}

	caps := map[string]string{}
	for n, lp := range p.Match {
		rendered := renderSelf(p.Replace[n])
		if !lp.MatchLine(rendered, caps) {
			return false
		}
	}
	return true
}

// renderSelf turns "?name" references into plain "name" tokens so the
// replacement can be matched like an ordinary line. A "?" that does not
// start an identifier run is literal text and passes through.
func renderSelf(raw string) string {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] == '?' && i+1 < len(raw) && identByte(raw[i+1]) {
			continue
		}
		out = append(out, raw[i])
	}
	return string(out)
}

func identByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
