// Package api defines the driver API for the rewrite engine.
package api

import (
	"fmt"

	"github.com/retargetlab/relower/engine"
	"github.com/retargetlab/relower/isa"
	"github.com/retargetlab/relower/rule"
)

// Driver provides the interface to control a translation run. Rules are
// loaded once; instructions are fed in, translated as one batch by Run,
// and the final text collected afterwards.
type Driver interface {
	// LoadRules parses the rule-file text and installs the resulting
	// table. A malformed table is rejected and nothing is installed.
	LoadRules(text string) error

	// FeedIn appends instructions to the pending stream.
	FeedIn(stream []isa.Instruction)

	// FeedInText parses instruction text and appends it to the pending
	// stream.
	FeedInText(source string) error

	// Run translates the pending stream and optimizes the output. The
	// pending stream is consumed. Output is only observable through
	// Collect (or the Emitter) after Run returns successfully.
	Run() error

	// Collect returns the output of the last successful Run.
	Collect() string
}

// Emitter receives the final translated text. The I/O layer supplies one
// to route output to its destination.
type Emitter interface {
	Emit(text string) error
}

type driverImpl struct {
	name     string
	wordSize int
	baseReg  string
	emitter  Emitter

	table   *rule.Table
	xlat    *engine.Translator
	pending []isa.Instruction
	output  string
}

func (d *driverImpl) LoadRules(text string) error {
	table, err := rule.Parse(text)
	if err != nil {
		return err
	}

	d.table = table
	d.xlat = engine.NewBuilder().
		WithTable(table).
		WithWordSize(d.wordSize).
		WithBaseRegister(d.baseReg).
		Build(d.name + ".Translator")

	engine.PrintRuleTable(table)
	return nil
}

func (d *driverImpl) FeedIn(stream []isa.Instruction) {
	for _, inst := range stream {
		inst.Pos = len(d.pending) + 1
		d.pending = append(d.pending, inst)
	}
}

func (d *driverImpl) FeedInText(source string) error {
	stream, err := isa.ParseStream(source)
	if err != nil {
		return err
	}
	d.FeedIn(stream)
	return nil
}

func (d *driverImpl) Run() error {
	if d.xlat == nil {
		return fmt.Errorf("driver %s: no rule table loaded", d.name)
	}

	out, err := d.xlat.Translate(d.pending)
	if err != nil {
		return err
	}

	if d.emitter != nil {
		if err := d.emitter.Emit(out); err != nil {
			return fmt.Errorf("driver %s: emit: %w", d.name, err)
		}
	}

	d.pending = nil
	d.output = out
	return nil
}

func (d *driverImpl) Collect() string {
	return d.output
}
