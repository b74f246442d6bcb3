package engine

import (
	"strings"

	"github.com/retargetlab/relower/isa"
	"github.com/retargetlab/relower/rule"
)

// Translator rewrites an abstract instruction stream into target text,
// driven entirely by its rule table. The table is read-only; all per-run
// state lives in a xlatState owned by one Translate call, so a Translator
// can be reused across runs.
type Translator struct {
	name     string
	table    *rule.Table
	wordSize int
	baseReg  string
}

// xlatState is the mutable state of one translation run: the slot symbol
// table and the append-only output buffer.
type xlatState struct {
	syms  *symTab
	lines []string
}

// Translate runs the whole pipeline over the stream: match and expand
// every instruction in order, then optimize the concatenated output to a
// fixed point. Output is strictly batch; nothing is observable until the
// peephole pass completes.
func (t *Translator) Translate(stream []isa.Instruction) (string, error) {
	st := &xlatState{syms: newSymTab(t.wordSize)}

	for _, inst := range stream {
		if err := t.expandInst(inst, st, 0); err != nil {
			return "", err
		}
	}

	Trace("expanded stream",
		"translator", t.name,
		"instructions", len(stream),
		"lines", len(st.lines))

	lines, err := t.optimize(st.lines)
	if err != nil {
		return "", err
	}

	if len(lines) == 0 {
		return "", nil
	}
	return strings.Join(lines, "\n") + "\n", nil
}

// TranslateText parses an instruction stream from text and translates it.
func (t *Translator) TranslateText(source string) (string, error) {
	stream, err := isa.ParseStream(source)
	if err != nil {
		return "", err
	}
	return t.Translate(stream)
}
