package engine

import "github.com/retargetlab/relower/rule"

// Builder can create new translators.
type Builder struct {
	table    *rule.Table
	wordSize int
	baseReg  string
}

func NewBuilder() Builder {
	return Builder{
		wordSize: 2,
		baseReg:  "bp",
	}
}

// WithTable sets the rule table that drives the translator.
func (b Builder) WithTable(table *rule.Table) Builder {
	b.table = table
	return b
}

// WithWordSize sets the slot size in bytes.
func (b Builder) WithWordSize(wordSize int) Builder {
	if wordSize < 1 {
		panic("word size must be at least 1")
	}
	b.wordSize = wordSize
	return b
}

// WithBaseRegister sets the base register used in composed location
// expressions.
func (b Builder) WithBaseRegister(baseReg string) Builder {
	b.baseReg = baseReg
	return b
}

// Build creates a translator.
func (b Builder) Build(name string) *Translator {
	if b.table == nil {
		panic("translator needs a rule table")
	}

	return &Translator{
		name:     name,
		table:    b.table,
		wordSize: b.wordSize,
		baseReg:  b.baseReg,
	}
}
