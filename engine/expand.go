package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/retargetlab/relower/isa"
	"github.com/retargetlab/relower/rule"
)

// Sub-expansion re-enters the expander with a synthetic loader
// instruction. Operands are not compound, so one level suffices in
// practice; the guard only exists for loader rules that reference
// themselves.
const maxSubDepth = 4

// expandInst matches the instruction and appends its expanded template
// lines to the output buffer. A template line that is a sub-expansion
// reference recursively expands the named operand through the table's
// loader rule.
func (t *Translator) expandInst(inst isa.Instruction, st *xlatState, depth int) error {
	v, n, err := t.matchVariant(inst)
	if err != nil {
		return err
	}

	Trace("expand",
		"translator", t.name,
		"inst", inst.String(),
		"variant", n,
		"signature", v.Signature())

	binds := map[string]isa.Operand{}
	for i, op := range v.Operands {
		binds[op.Name] = inst.Operands[i]
	}

	for _, tl := range v.Template.Lines {
		if tl.Sub != "" {
			if depth >= maxSubDepth {
				return &MatchError{
					Pos:  inst.Pos,
					Inst: inst,
					Msg: fmt.Sprintf(
						"sub-expansion of %q exceeds depth %d; the loader rule recurses",
						tl.Sub, maxSubDepth),
				}
			}

			sub := isa.Instruction{
				Opcode:   rule.LoaderOpcode,
				Operands: []isa.Operand{binds[tl.Sub]},
				Pos:      inst.Pos,
			}
			if err := t.expandInst(sub, st, depth+1); err != nil {
				return err
			}
			continue
		}

		st.lines = append(st.lines, t.renderLine(tl, binds, st))
	}

	return nil
}

// renderLine substitutes every placeholder of a literal template line
// with the bound operand's rendering.
func (t *Translator) renderLine(tl rule.TemplateLine, binds map[string]isa.Operand, st *xlatState) string {
	var b strings.Builder

	for _, f := range tl.Frags {
		switch f.Kind {
		case rule.FragLiteral:
			b.WriteString(f.Text)
		case rule.FragValue:
			b.WriteString(binds[f.Text].Text)
		case rule.FragOffset:
			b.WriteString(t.offsetText(binds[f.Text], st))
		case rule.FragLoc:
			b.WriteString(t.locText(binds[f.Text], st))
		default:
			panic("invalid fragment kind")
		}
	}

	return b.String()
}

// offsetText renders the bare slot offset of an Indirect operand. Direct
// and Immediate operands have no addressing decoration to strip, so their
// token passes through.
func (t *Translator) offsetText(op isa.Operand, st *xlatState) string {
	if op.Mode == isa.Indirect {
		return strconv.Itoa(st.syms.offsetOf(op.Text))
	}
	return op.Text
}

// locText renders the operand as a target location expression: the
// composed base-minus-offset form for a stack slot, the token itself for
// a register or constant.
func (t *Translator) locText(op isa.Operand, st *xlatState) string {
	if op.Mode == isa.Indirect {
		return fmt.Sprintf("%s-%d", t.baseReg, st.syms.offsetOf(op.Text))
	}
	return op.Text
}
