package isa

import (
	"fmt"
	"strings"
)

// ParseOperand parses one operand token such as "*x", "&ax", or "#5".
func ParseOperand(token string) (Operand, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Operand{}, fmt.Errorf("empty operand")
	}

	mode, ok := ModeForSigil(token[0])
	if !ok {
		return Operand{}, fmt.Errorf("operand %q has no addressing sigil", token)
	}

	text := token[1:]
	if text == "" {
		return Operand{}, fmt.Errorf("operand %q has a sigil but no name", token)
	}

	return Operand{Mode: mode, Text: text}, nil
}

// ParseInstruction parses one instruction line such as "MOV *x, #5".
// The opcode is separated from the operands by whitespace; operands are
// comma separated.
func ParseInstruction(line string) (Instruction, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Instruction{}, fmt.Errorf("empty instruction")
	}

	opcode := line
	rest := ""
	if idx := strings.IndexAny(line, " \t"); idx >= 0 {
		opcode = line[:idx]
		rest = strings.TrimSpace(line[idx:])
	}

	inst := Instruction{Opcode: opcode}
	if rest == "" {
		return inst, nil
	}

	for _, token := range strings.Split(rest, ",") {
		op, err := ParseOperand(token)
		if err != nil {
			return Instruction{}, fmt.Errorf("instruction %q: %w", line, err)
		}
		inst.Operands = append(inst.Operands, op)
	}

	return inst, nil
}

// ParseStream parses a whole instruction stream, one instruction per line.
// Blank lines and lines starting with ";" are skipped. Instruction
// positions count parsed instructions from 1.
func ParseStream(text string) ([]Instruction, error) {
	var stream []Instruction

	for n, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		inst, err := ParseInstruction(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		inst.Pos = len(stream) + 1
		stream = append(stream, inst)
	}

	return stream, nil
}
