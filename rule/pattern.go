package rule

import "strings"

// The peephole rules match generated output with a small line-and-token
// model: a subject line is split into tokens on whitespace and commas, and
// each pattern token either matches a literal token, any token ("?"), or
// captures/backreferences a token ("?name").

// PeepKind distinguishes deletion rules from substitution rules.
type PeepKind int

const (
	PeepDelete PeepKind = iota
	PeepSubstitute
)

func (k PeepKind) Name() string {
	switch k {
	case PeepDelete:
		return "del"
	case PeepSubstitute:
		return "sub"
	default:
		panic("invalid peephole kind")
	}
}

// TokenKind tells how one pattern token matches.
type TokenKind int

const (
	TokLiteral TokenKind = iota
	TokAny
	TokCapture
)

// TokenPattern is one token of a line pattern. Text holds the literal
// text for TokLiteral and the capture name for TokCapture.
type TokenPattern struct {
	Kind TokenKind
	Text string
}

// LinePattern matches one generated output line.
type LinePattern struct {
	Toks []TokenPattern
}

// PeepRule is one ".del" or ".sub" rule. Match may span more than one
// consecutive line. Replace holds the raw replacement lines of a ".sub"
// rule, with "?name" references still embedded; it is nil for ".del".
type PeepRule struct {
	Kind    PeepKind
	Match   []LinePattern
	Replace []string
	Line    int
}

// TokenizeLine splits a subject line into match tokens. Commas and runs
// of whitespace both separate tokens, so "\tadd ax, 0" yields
// ["add" "ax" "0"].
func TokenizeLine(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
}

// MatchLine matches the pattern against a single line. Captures already
// present in caps act as backreferences; new captures are added to caps.
func (p LinePattern) MatchLine(line string, caps map[string]string) bool {
	toks := TokenizeLine(line)
	if len(toks) != len(p.Toks) {
		return false
	}

	for n, pt := range p.Toks {
		switch pt.Kind {
		case TokLiteral:
			if toks[n] != pt.Text {
				return false
			}
		case TokAny:
			// matches anything
		case TokCapture:
			if prev, seen := caps[pt.Text]; seen {
				if toks[n] != prev {
					return false
				}
			} else {
				caps[pt.Text] = toks[n]
			}
		}
	}

	return true
}

// MatchAt matches the whole rule against the lines starting at index i.
// On success it returns the capture bindings.
func (r PeepRule) MatchAt(lines []string, i int) (map[string]string, bool) {
	if i+len(r.Match) > len(lines) {
		return nil, false
	}

	caps := map[string]string{}
	for n, lp := range r.Match {
		if !lp.MatchLine(lines[i+n], caps) {
			return nil, false
		}
	}

	return caps, true
}

// Render produces the replacement lines of a substitution rule with the
// captured tokens spliced in. The replacement text is emitted verbatim
// apart from the "?name" splices, so the rule author controls formatting.
func (r PeepRule) Render(caps map[string]string) []string {
	out := make([]string, len(r.Replace))
	for n, raw := range r.Replace {
		out[n] = spliceCaptures(raw, caps)
	}
	return out
}

func spliceCaptures(raw string, caps map[string]string) string {
	var b strings.Builder
	for i := 0; i < len(raw); {
		if raw[i] == '?' && i+1 < len(raw) && isIdentByte(raw[i+1]) {
			j := i + 1
			for j < len(raw) && isIdentByte(raw[j]) {
				j++
			}
			b.WriteString(caps[raw[i+1:j]])
			i = j
			continue
		}
		b.WriteByte(raw[i])
		i++
	}
	return b.String()
}

// captureRefs lists the "?name" references embedded anywhere in a
// replacement line, using the same identifier-run scan the splicer uses.
func captureRefs(raw string) []string {
	var names []string
	for i := 0; i < len(raw); {
		if raw[i] == '?' && i+1 < len(raw) && isIdentByte(raw[i+1]) {
			j := i + 1
			for j < len(raw) && isIdentByte(raw[j]) {
				j++
			}
			names = append(names, raw[i+1:j])
			i = j
			continue
		}
		i++
	}
	return names
}

func isIdentByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// captureNames collects the capture names of a compiled pattern.
func captureNames(pats []LinePattern) map[string]bool {
	names := map[string]bool{}
	for _, lp := range pats {
		for _, tp := range lp.Toks {
			if tp.Kind == TokCapture {
				names[tp.Text] = true
			}
		}
	}
	return names
}
