package main

import (
	"log"
	"os"

	"github.com/tebeka/atexit"

	"github.com/retargetlab/relower/rule"
	"github.com/retargetlab/relower/verify"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: verify-rules <rule-file>")
	}

	table, err := rule.LoadFile(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to load rule table: %v", err)
	}

	report := verify.GenerateReport(table)
	report.Write(os.Stdout)

	if !report.Clean() {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
