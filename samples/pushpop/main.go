package main

import (
	"fmt"
	"log"
	"os"

	"github.com/tebeka/atexit"

	"github.com/retargetlab/relower/config"
)

// The first push/pop pair cancels out; only the transfer through the
// stack survives the peephole pass.
const program = `
PUSH *a
POP *a
PUSH #7
POP *b
`

func main() {
	rules, err := os.ReadFile("./rules.txt")
	if err != nil {
		log.Fatalf("Failed to read rule file: %v", err)
	}

	driver := config.Default().MakeDriver("Driver")
	if err := driver.LoadRules(string(rules)); err != nil {
		log.Fatalf("Failed to install rules: %v", err)
	}
	if err := driver.FeedInText(program); err != nil {
		log.Fatalf("Failed to parse program: %v", err)
	}

	if err := driver.Run(); err != nil {
		log.Fatalf("Translation failed: %v", err)
	}

	fmt.Println(driver.Collect())
	atexit.Exit(0)
}
