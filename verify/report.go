package verify

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/retargetlab/relower/rule"
)

// Report bundles the lint findings for one rule table.
type Report struct {
	Table  *rule.Table
	Issues []Issue
}

// GenerateReport runs lint and collects the findings.
func GenerateReport(t *rule.Table) *Report {
	return &Report{
		Table:  t,
		Issues: RunLint(t),
	}
}

// Clean reports whether lint found nothing.
func (r *Report) Clean() bool {
	return len(r.Issues) == 0
}

// Write renders the report.
func (r *Report) Write(w io.Writer) {
	fmt.Fprintf(w, "Rule table: %d opcode mappings, %d peephole rules\n",
		len(r.Table.Order), len(r.Table.Peeps))

	if r.Clean() {
		fmt.Fprintln(w, "LINT PASSED - no issues found")
		return
	}

	fmt.Fprintf(w, "LINT FAILED - %d issues:\n", len(r.Issues))

	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Type", "Opcode", "Variant", "Rule Line", "Message"})
	for _, issue := range r.Issues {
		opcode := issue.Opcode
		if opcode == "" {
			opcode = "-"
		}
		tw.AppendRow(table.Row{issue.Type, opcode, issue.Variant, issue.Line, issue.Message})
	}
	fmt.Fprintln(w, tw.Render())
}
