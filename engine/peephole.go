package engine

import "github.com/retargetlab/relower/rule"

// scanBudget bounds the number of peephole rule applications for a buffer
// of n lines. Every application removes or rewrites lines, so a sane rule
// set settles well below this; exceeding it means the rules cycle.
func scanBudget(n int) int {
	return 16 + 8*n
}

// optimize applies the table's deletion and substitution rules until a
// full top-to-bottom scan matches nothing. After every application the
// scan restarts from the top, so a rule that only becomes applicable
// after an earlier deletion is still caught, and no match can span a line
// that was just deleted.
func (t *Translator) optimize(lines []string) ([]string, error) {
	if len(t.table.Peeps) == 0 {
		return lines, nil
	}

	budget := scanBudget(len(lines))
	applied := 0

	for {
		changed := false

	scan:
		for i := 0; i < len(lines); i++ {
			for _, r := range t.table.Peeps {
				caps, ok := r.MatchAt(lines, i)
				if !ok {
					continue
				}

				applied++
				if applied > budget {
					return nil, &FixpointError{Applications: applied, Budget: budget}
				}

				Trace("peephole",
					"translator", t.name,
					"kind", r.Kind.Name(),
					"ruleLine", r.Line,
					"at", i)

				tail := lines[i+len(r.Match):]
				switch r.Kind {
				case rule.PeepDelete:
					lines = append(lines[:i:i], tail...)
				case rule.PeepSubstitute:
					repl := r.Render(caps)
					lines = append(lines[:i:i], append(repl, tail...)...)
				}

				changed = true
				break scan
			}
		}

		if !changed {
			return lines, nil
		}
	}
}
