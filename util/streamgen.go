// Some helpers using closures to generate instruction streams for tests
package streamgen

import "github.com/retargetlab/relower/isa"

func MakeConstGen(inst isa.Instruction) func() isa.Instruction {
	return func() isa.Instruction {
		return inst
	}
}

func MakeRoundRobinGen(insts []isa.Instruction) func() isa.Instruction {
	current := 0
	return func() isa.Instruction {
		inst := insts[current%len(insts)]
		current++
		return inst
	}
}

// Take draws n instructions from a generator and numbers their stream
// positions from 1.
func Take(gen func() isa.Instruction, n int) []isa.Instruction {
	stream := make([]isa.Instruction, n)
	for i := 0; i < n; i++ {
		inst := gen()
		inst.Pos = i + 1
		stream[i] = inst
	}
	return stream
}
