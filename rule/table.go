// Package rule parses the rewrite-rule grammar and holds the resulting
// rule table. A table is built once per translation run and is read-only
// afterwards.
package rule

import (
	"strings"

	"github.com/retargetlab/relower/isa"
)

// LoaderOpcode is the reserved rule symbol that renders an operand into
// the scratch location during sub-expansion. Rule files define it like any
// other opcode: ".map * ::= * *x".
const LoaderOpcode = "*"

// OperandPattern declares one operand a variant accepts: the addressing
// mode it requires and the name its template uses to refer to it.
type OperandPattern struct {
	Name string
	Mode isa.Mode
}

// Variant is one alternative operand-mode signature of a MapRule, paired
// with the template that realizes it.
type Variant struct {
	Opcode   string
	Operands []OperandPattern
	Template Template
}

// Matches reports whether the instruction's operand count and per-position
// modes exactly equal this variant's signature.
func (v Variant) Matches(inst isa.Instruction) bool {
	if len(inst.Operands) != len(v.Operands) {
		return false
	}
	for n, op := range inst.Operands {
		if op.Mode != v.Operands[n].Mode {
			return false
		}
	}
	return true
}

// Signature renders the variant's operand signature the way the rule file
// spells it, e.g. "*tgt, #src".
func (v Variant) Signature() string {
	if len(v.Operands) == 0 {
		return "(none)"
	}
	parts := make([]string, len(v.Operands))
	for n, op := range v.Operands {
		parts[n] = string(op.Mode.Sigil()) + op.Name
	}
	return strings.Join(parts, ", ")
}

// MapRule maps one opcode to its variants. Variant order is declaration
// order and matching is first-listed-wins.
type MapRule struct {
	Opcode   string
	Variants []Variant
	Line     int
}

// Template is the ordered target-text fragment of one variant.
type Template struct {
	Lines []TemplateLine
}

// TemplateLine is either a literal line built from fragments, or a
// sub-expansion reference (Sub names the operand to re-expand; Frags is
// nil in that case).
type TemplateLine struct {
	Sub   string
	Frags []Frag
}

// FragKind tells how a fragment of a literal template line is rendered.
type FragKind int

const (
	// FragLiteral is emitted verbatim.
	FragLiteral FragKind = iota
	// FragValue ($name) emits the operand's literal token.
	FragValue
	// FragOffset (!name) emits only the slot offset digits.
	FragOffset
	// FragLoc (bare name) emits the operand's location expression.
	FragLoc
)

// Frag is one fragment of a literal template line. Text is the literal
// text for FragLiteral and the bound operand name otherwise.
type Frag struct {
	Kind FragKind
	Text string
}

// Table is the immutable output of Parse: opcode mappings plus the
// peephole rules in declaration order.
type Table struct {
	Maps  map[string]*MapRule
	Order []string
	Peeps []PeepRule
}

// Lookup returns the MapRule for an opcode.
func (t *Table) Lookup(opcode string) (*MapRule, bool) {
	r, ok := t.Maps[opcode]
	return r, ok
}

// HasLoader reports whether the table defines the reserved sub-expansion
// loader rule.
func (t *Table) HasLoader() bool {
	_, ok := t.Maps[LoaderOpcode]
	return ok
}
