package engine

// symTab assigns stack offsets to named slots. Slots get consecutive
// offsets in first-use order, one word apart, starting at 0.
type symTab struct {
	wordSize int
	offsets  map[string]int
	next     int
}

func newSymTab(wordSize int) *symTab {
	return &symTab{
		wordSize: wordSize,
		offsets:  map[string]int{},
	}
}

func (s *symTab) offsetOf(name string) int {
	if off, ok := s.offsets[name]; ok {
		return off
	}
	off := s.next
	s.offsets[name] = off
	s.next += s.wordSize
	return off
}
