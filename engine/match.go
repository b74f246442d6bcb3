package engine

import (
	"github.com/retargetlab/relower/isa"
	"github.com/retargetlab/relower/rule"
)

// matchVariant looks up the instruction's MapRule and scans its variants
// in declaration order. The first variant whose operand count and mode
// tuple exactly equal the instruction's wins; there is no coercion
// between modes and no most-specific-match resolution.
func (t *Translator) matchVariant(inst isa.Instruction) (rule.Variant, int, error) {
	r, ok := t.table.Lookup(inst.Opcode)
	if !ok {
		return rule.Variant{}, 0, &MatchError{
			Pos:  inst.Pos,
			Inst: inst,
			Msg:  "unknown opcode " + inst.Opcode,
		}
	}

	for n, v := range r.Variants {
		if v.Matches(inst) {
			return v, n, nil
		}
	}

	return rule.Variant{}, 0, &MatchError{
		Pos:  inst.Pos,
		Inst: inst,
		Msg:  "no variant of " + inst.Opcode + " accepts this operand mode tuple",
	}
}
