package main

import (
	"fmt"
	"log"
	"os"

	"github.com/tebeka/atexit"

	"github.com/retargetlab/relower/config"
	"github.com/retargetlab/relower/engine"
	"github.com/retargetlab/relower/rule"
)

func main() {
	rules, err := os.ReadFile("./rules.txt")
	if err != nil {
		log.Fatalf("Failed to read rule file: %v", err)
	}

	table, err := rule.Parse(string(rules))
	if err != nil {
		log.Fatalf("Failed to load rule table: %v", err)
	}
	engine.PrintRuleTable(table)

	stream, err := engine.LoadStreamFileFromASM("./program.asm")
	if err != nil {
		log.Fatalf("Failed to load program: %v", err)
	}

	driver := config.Default().MakeDriver("Driver")
	if err := driver.LoadRules(string(rules)); err != nil {
		log.Fatalf("Failed to install rules: %v", err)
	}
	driver.FeedIn(stream)

	if err := driver.Run(); err != nil {
		log.Fatalf("Translation failed: %v", err)
	}

	fmt.Println(driver.Collect())
	atexit.Exit(0)
}
