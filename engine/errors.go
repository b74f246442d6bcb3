package engine

import (
	"fmt"

	"github.com/retargetlab/relower/isa"
)

// MatchError reports an instruction the rule table cannot translate.
// There is no fallback variant; the whole run stops.
type MatchError struct {
	Pos  int
	Inst isa.Instruction
	Msg  string
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("instruction %d (%s): %s", e.Pos, e.Inst.String(), e.Msg)
}

// FixpointError reports a peephole rule set that did not settle within
// its application budget. This is a defect of the rule file, not a reason
// to emit truncated output.
type FixpointError struct {
	Applications int
	Budget       int
}

func (e *FixpointError) Error() string {
	return fmt.Sprintf(
		"peephole pass exceeded its application budget (%d applications, budget %d); the rule set does not reach a fixed point",
		e.Applications, e.Budget)
}
