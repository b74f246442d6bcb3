package rule

import "fmt"

// LoadError reports a defect in the rule file. Loading never proceeds
// past the first defect; a malformed table must not translate anything.
type LoadError struct {
	Line      int
	Directive string
	Msg       string
}

func (e *LoadError) Error() string {
	if e.Directive == "" {
		return fmt.Sprintf("rule file line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("rule file line %d: %s: %s", e.Line, e.Directive, e.Msg)
}

func loadErrf(line int, directive, format string, args ...any) *LoadError {
	return &LoadError{
		Line:      line,
		Directive: directive,
		Msg:       fmt.Sprintf(format, args...),
	}
}
