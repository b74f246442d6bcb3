// Package isa defines the commonly used data structures for the abstract
// instruction stream that the rewriter consumes.
package isa

import "strings"

// Mode defines the addressing mode of an operand.
type Mode int

const (
	Indirect Mode = iota
	Direct
	Immediate
)

// Name returns the name of the mode.
func (m Mode) Name() string {
	switch m {
	case Indirect:
		return "Indirect"
	case Direct:
		return "Direct"
	case Immediate:
		return "Immediate"
	default:
		panic("invalid mode")
	}
}

// Sigil returns the character that marks the mode in rule files and in
// instruction text.
func (m Mode) Sigil() byte {
	switch m {
	case Indirect:
		return '*'
	case Direct:
		return '&'
	case Immediate:
		return '#'
	default:
		panic("invalid mode")
	}
}

// ModeForSigil maps a sigil character back to its mode.
func ModeForSigil(c byte) (Mode, bool) {
	switch c {
	case '*':
		return Indirect, true
	case '&':
		return Direct, true
	case '#':
		return Immediate, true
	default:
		return 0, false
	}
}

// Operand is one concrete operand of an instruction. Text carries the
// operand without its sigil: a slot name for Indirect, a register name for
// Direct, or a literal constant for Immediate.
type Operand struct {
	Mode Mode
	Text string
}

func (o Operand) String() string {
	return string(o.Sigil()) + o.Text
}

// Sigil returns the sigil of the operand's mode.
func (o Operand) Sigil() byte {
	return o.Mode.Sigil()
}

// Instruction is one abstract instruction: an opcode plus ordered operands.
// Pos is the 1-based position of the instruction in its stream, kept for
// error reporting.
type Instruction struct {
	Opcode   string
	Operands []Operand
	Pos      int
}

func (i Instruction) String() string {
	if len(i.Operands) == 0 {
		return i.Opcode
	}
	parts := make([]string, len(i.Operands))
	for n, op := range i.Operands {
		parts[n] = op.String()
	}
	return i.Opcode + " " + strings.Join(parts, ", ")
}

// ModeTuple returns the ordered addressing modes of the operands.
func (i Instruction) ModeTuple() []Mode {
	modes := make([]Mode, len(i.Operands))
	for n, op := range i.Operands {
		modes[n] = op.Mode
	}
	return modes
}
