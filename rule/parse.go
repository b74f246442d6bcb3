package rule

import (
	"fmt"
	"os"
	"strings"

	"github.com/retargetlab/relower/isa"
)

// Parse builds a rule table from rule-file text. Parsing is line-oriented
// and directive-driven; the first defect aborts the load with a LoadError.
func Parse(text string) (*Table, error) {
	t := &Table{Maps: map[string]*MapRule{}}

	// Opcodes that still miss their ".fmt" directive.
	missingFmt := map[string]int{}
	// First rule-file line that used a sub-expansion reference.
	subUseLine := 0

	for n, raw := range strings.Split(text, "\n") {
		lineNo := n + 1
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if !strings.HasPrefix(line, ".") {
			return nil, loadErrf(lineNo, "", "expected a directive, got %q", line)
		}

		directive := line
		payload := ""
		if idx := strings.IndexAny(line, " \t"); idx >= 0 {
			directive = line[:idx]
			payload = strings.TrimSpace(line[idx:])
		}

		switch directive {
		case ".map":
			if err := t.parseMap(payload, lineNo, missingFmt); err != nil {
				return nil, err
			}

		case ".fmt":
			used, err := t.parseFmt(payload, lineNo, missingFmt)
			if err != nil {
				return nil, err
			}
			if used && subUseLine == 0 {
				subUseLine = lineNo
			}

		case ".del":
			pats, err := compileLinePatterns(payload, lineNo, ".del")
			if err != nil {
				return nil, err
			}
			t.Peeps = append(t.Peeps, PeepRule{
				Kind:  PeepDelete,
				Match: pats,
				Line:  lineNo,
			})

		case ".sub":
			r, err := parseSub(payload, lineNo)
			if err != nil {
				return nil, err
			}
			t.Peeps = append(t.Peeps, r)

		default:
			return nil, loadErrf(lineNo, directive, "unknown directive")
		}
	}

	for _, opcode := range t.Order {
		if lineNo, pending := missingFmt[opcode]; pending {
			return nil, loadErrf(lineNo, ".map",
				"opcode %s has no matching .fmt directive", opcode)
		}
	}
	if subUseLine != 0 && !t.HasLoader() {
		return nil, loadErrf(subUseLine, ".fmt",
			"sub-expansion used but the table defines no %q loader rule",
			LoaderOpcode)
	}

	return t, nil
}

// LoadFile reads and parses a rule file from disk.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load rule file %s: %w", path, err)
	}
	return Parse(string(data))
}

func (t *Table) parseMap(payload string, lineNo int, missingFmt map[string]int) error {
	opcode, alts, err := splitDirective(payload, lineNo, ".map")
	if err != nil {
		return err
	}

	if _, dup := t.Maps[opcode]; dup {
		return loadErrf(lineNo, ".map", "duplicate mapping for opcode %s", opcode)
	}

	r := &MapRule{Opcode: opcode, Line: lineNo}
	for _, alt := range alts {
		v, err := parseVariantPattern(alt, opcode, lineNo)
		if err != nil {
			return err
		}
		r.Variants = append(r.Variants, v)
	}

	t.Maps[opcode] = r
	t.Order = append(t.Order, opcode)
	missingFmt[opcode] = lineNo
	return nil
}

// parseFmt attaches templates to a previously declared MapRule. It
// reports whether any template line is a sub-expansion reference.
func (t *Table) parseFmt(payload string, lineNo int, missingFmt map[string]int) (bool, error) {
	opcode, alts, err := splitDirective(payload, lineNo, ".fmt")
	if err != nil {
		return false, err
	}

	r, ok := t.Maps[opcode]
	if !ok {
		return false, loadErrf(lineNo, ".fmt", "no .map directive for opcode %s", opcode)
	}
	if _, pending := missingFmt[opcode]; !pending {
		return false, loadErrf(lineNo, ".fmt", "duplicate .fmt for opcode %s", opcode)
	}
	if len(alts) != len(r.Variants) {
		return false, loadErrf(lineNo, ".fmt",
			"opcode %s declares %d pattern alternatives but %d templates",
			opcode, len(r.Variants), len(alts))
	}

	usesSub := false
	for n, alt := range alts {
		tpl, err := compileTemplate(alt, r.Variants[n], lineNo)
		if err != nil {
			return false, err
		}
		r.Variants[n].Template = tpl
		for _, tl := range tpl.Lines {
			if tl.Sub != "" {
				usesSub = true
			}
		}
	}

	delete(missingFmt, opcode)
	return usesSub, nil
}

// splitDirective splits "OPCODE ::= a | b | c" into the opcode and the
// pipe-separated alternatives.
func splitDirective(payload string, lineNo int, directive string) (string, []string, error) {
	head, rest, found := strings.Cut(payload, "::=")
	if !found {
		return "", nil, loadErrf(lineNo, directive, "missing \"::=\"")
	}

	opcode := strings.TrimSpace(head)
	if opcode == "" {
		return "", nil, loadErrf(lineNo, directive, "missing opcode")
	}

	alts := strings.Split(rest, "|")
	for n := range alts {
		alts[n] = strings.TrimSpace(alts[n])
		if alts[n] == "" {
			return "", nil, loadErrf(lineNo, directive,
				"opcode %s: empty alternative %d", opcode, n+1)
		}
	}

	return opcode, alts, nil
}

// parseVariantPattern parses one ".map" alternative such as
// "MOV *tgt, #src" into a variant signature.
func parseVariantPattern(alt, opcode string, lineNo int) (Variant, error) {
	head := alt
	rest := ""
	if idx := strings.IndexAny(alt, " \t"); idx >= 0 {
		head = alt[:idx]
		rest = strings.TrimSpace(alt[idx:])
	}

	if head != opcode {
		return Variant{}, loadErrf(lineNo, ".map",
			"pattern opcode %q does not match directive opcode %q", head, opcode)
	}

	v := Variant{Opcode: opcode}
	if rest == "" {
		return v, nil
	}

	seen := map[string]bool{}
	for _, token := range strings.Split(rest, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			return Variant{}, loadErrf(lineNo, ".map",
				"opcode %s: empty operand pattern", opcode)
		}

		mode, ok := isa.ModeForSigil(token[0])
		if !ok {
			return Variant{}, loadErrf(lineNo, ".map",
				"opcode %s: operand %q has no addressing sigil", opcode, token)
		}
		name := token[1:]
		if !isIdent(name) {
			return Variant{}, loadErrf(lineNo, ".map",
				"opcode %s: bad operand name %q", opcode, token)
		}
		if seen[name] {
			return Variant{}, loadErrf(lineNo, ".map",
				"opcode %s: operand name %q bound twice", opcode, name)
		}
		seen[name] = true

		v.Operands = append(v.Operands, OperandPattern{Name: name, Mode: mode})
	}

	return v, nil
}

// compileTemplate turns one ".fmt" alternative into a Template. The raw
// text uses "\n" and "\t" escapes; a line consisting solely of "&name" is
// a sub-expansion reference.
func compileTemplate(raw string, v Variant, lineNo int) (Template, error) {
	bound := map[string]bool{}
	for _, op := range v.Operands {
		bound[op.Name] = true
	}

	lines := splitEscapedLines(raw)
	if len(lines) == 0 {
		return Template{}, loadErrf(lineNo, ".fmt", "opcode %s: empty template", v.Opcode)
	}

	tpl := Template{}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "&") && isIdent(trimmed[1:]) {
			name := trimmed[1:]
			if !bound[name] {
				return Template{}, loadErrf(lineNo, ".fmt",
					"opcode %s: sub-expansion of unbound operand %q", v.Opcode, name)
			}
			tpl.Lines = append(tpl.Lines, TemplateLine{Sub: name})
			continue
		}

		frags, err := scanFrags(line, v.Opcode, bound, lineNo)
		if err != nil {
			return Template{}, err
		}
		tpl.Lines = append(tpl.Lines, TemplateLine{Frags: frags})
	}

	return tpl, nil
}

// scanFrags splits one literal template line into fragments. "$name" and
// "!name" become placeholders, a bare bound operand name becomes a
// location-expression placeholder, and everything else stays literal.
func scanFrags(line, opcode string, bound map[string]bool, lineNo int) ([]Frag, error) {
	var frags []Frag
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			frags = append(frags, splitBareNames(lit.String(), bound)...)
			lit.Reset()
		}
	}

	for i := 0; i < len(line); {
		c := line[i]
		if (c == '$' || c == '!' || c == '&') &&
			i+1 < len(line) && isIdentByte(line[i+1]) {
			j := i + 1
			for j < len(line) && isIdentByte(line[j]) {
				j++
			}
			name := line[i+1 : j]

			if c == '&' {
				return nil, loadErrf(lineNo, ".fmt",
					"opcode %s: sub-expansion &%s must stand on its own line",
					opcode, name)
			}
			if !bound[name] {
				return nil, loadErrf(lineNo, ".fmt",
					"opcode %s: unbound placeholder %c%s", opcode, c, name)
			}

			flush()
			kind := FragValue
			if c == '!' {
				kind = FragOffset
			}
			frags = append(frags, Frag{Kind: kind, Text: name})
			i = j
			continue
		}

		lit.WriteByte(c)
		i++
	}
	flush()

	return frags, nil
}

// splitBareNames extracts bound operand names that appear as standalone
// identifier runs in literal text, turning them into location-expression
// placeholders.
func splitBareNames(text string, bound map[string]bool) []Frag {
	var frags []Frag
	start := 0
	i := 0
	for i < len(text) {
		if !isIdentByte(text[i]) {
			i++
			continue
		}
		j := i
		for j < len(text) && isIdentByte(text[j]) {
			j++
		}
		if word := text[i:j]; bound[word] {
			if i > start {
				frags = append(frags, Frag{Kind: FragLiteral, Text: text[start:i]})
			}
			frags = append(frags, Frag{Kind: FragLoc, Text: word})
			start = j
		}
		i = j
	}
	if start < len(text) {
		frags = append(frags, Frag{Kind: FragLiteral, Text: text[start:]})
	}
	return frags
}

func parseSub(payload string, lineNo int) (PeepRule, error) {
	pat, repl, found := strings.Cut(payload, ";")
	if !found {
		return PeepRule{}, loadErrf(lineNo, ".sub",
			"missing \";\" between pattern and replacement")
	}

	pats, err := compileLinePatterns(strings.TrimSpace(pat), lineNo, ".sub")
	if err != nil {
		return PeepRule{}, err
	}

	replLines := splitEscapedLines(strings.TrimSpace(repl))
	if len(replLines) == 0 {
		return PeepRule{}, loadErrf(lineNo, ".sub", "empty replacement")
	}

	names := captureNames(pats)
	for _, line := range replLines {
		for _, name := range captureRefs(line) {
			if !names[name] {
				return PeepRule{}, loadErrf(lineNo, ".sub",
					"replacement references capture %q not bound by the pattern", "?"+name)
			}
		}
	}

	return PeepRule{
		Kind:    PeepSubstitute,
		Match:   pats,
		Replace: replLines,
		Line:    lineNo,
	}, nil
}

func compileLinePatterns(raw string, lineNo int, directive string) ([]LinePattern, error) {
	lines := splitEscapedLines(raw)
	if len(lines) == 0 {
		return nil, loadErrf(lineNo, directive, "empty pattern")
	}

	var pats []LinePattern
	for _, line := range lines {
		toks := TokenizeLine(line)
		if len(toks) == 0 {
			return nil, loadErrf(lineNo, directive, "empty line in pattern")
		}

		lp := LinePattern{}
		for _, tok := range toks {
			switch {
			case tok == "?":
				lp.Toks = append(lp.Toks, TokenPattern{Kind: TokAny})
			case strings.HasPrefix(tok, "?") && isIdent(tok[1:]):
				lp.Toks = append(lp.Toks, TokenPattern{Kind: TokCapture, Text: tok[1:]})
			default:
				lp.Toks = append(lp.Toks, TokenPattern{Kind: TokLiteral, Text: tok})
			}
		}
		pats = append(pats, lp)
	}

	return pats, nil
}

// splitEscapedLines decodes "\n", "\t" and "\\" escapes and splits the
// result into lines. One trailing newline does not produce an empty line.
func splitEscapedLines(raw string) []string {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			switch raw[i+1] {
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case 't':
				b.WriteByte('\t')
				i++
				continue
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			}
		}
		b.WriteByte(raw[i])
	}

	text := strings.TrimSuffix(b.String(), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentByte(s[i]) {
			return false
		}
	}
	return true
}
