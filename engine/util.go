package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/retargetlab/relower/rule"
)

const (
	PrintToggle            = false
	LevelTrace  slog.Level = slog.LevelInfo + 1
)

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// FormatRuleTable renders the rule table for debugging: one row per
// variant, in declaration order, plus the peephole rules.
func FormatRuleTable(t *rule.Table) string {
	mapTable := table.NewWriter()
	mapTable.SetTitle("Opcode Mappings")
	mapTable.AppendHeader(table.Row{"Opcode", "Variant", "Signature", "Template Lines"})

	for _, opcode := range t.Order {
		r := t.Maps[opcode]
		for n, v := range r.Variants {
			mapTable.AppendRow(table.Row{opcode, n, v.Signature(), len(v.Template.Lines)})
		}
	}

	out := mapTable.Render() + "\n"

	if len(t.Peeps) == 0 {
		return out
	}

	peepTable := table.NewWriter()
	peepTable.SetTitle("Peephole Rules")
	peepTable.AppendHeader(table.Row{"#", "Kind", "Pattern Lines", "Rule File Line"})
	for n, p := range t.Peeps {
		peepTable.AppendRow(table.Row{n, p.Kind.Name(), len(p.Match), p.Line})
	}

	return out + peepTable.Render() + "\n"
}

// PrintRuleTable dumps the rule table to stdout when PrintToggle is on.
func PrintRuleTable(t *rule.Table) {
	if !PrintToggle {
		return
	}
	fmt.Println(FormatRuleTable(t))
}
