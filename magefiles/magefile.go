//go:build mage

// Package main contains Mage build targets for ideation-engine developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "ideation-engine"
	cmdPkg  = "./cmd/ideation-engine"
)

// samplePrimer is written by Init so a fresh checkout has something to run
// against.
const samplePrimer = `# Mechanism primer pool: one free-text description per entry.
- Octopus skin changes color through chromatophores that expand and contract under direct neural control, bypassing the brain's visual processing.
- Suspension bridges use expansion joints so thermal growth is absorbed at known points instead of stressing the whole span.
- Ant colonies route around obstacles with pheromone trails that evaporate, so stale paths fade automatically.
- Kidneys filter blood by pressure gradient first and selective reabsorption second, wasting little energy on the common case.
- Mycelial networks pre-grow connections toward likely food sources before any reward exists.
- Bone remodels itself along stress lines, putting material only where load history demands it.
- Vaccines train the immune system on a harmless fragment so the full threat is recognized later.
- Electrical grids shed load in controlled blocks to prevent cascading failure.
- Deciduous trees drop leaves to cut resource costs during predictable scarcity.
- Camera aperture and exposure trade light sensitivity against depth of field on every shot.
`

// Init creates the working files a fresh checkout needs: a sample
// primer.yaml (if absent) and the secrets directory.
func Init() error {
	if _, err := os.Stat("primer.yaml"); os.IsNotExist(err) {
		if err := os.WriteFile("primer.yaml", []byte(samplePrimer), 0o644); err != nil {
			return fmt.Errorf("writing primer.yaml: %w", err)
		}
		fmt.Println("   primer.yaml")
	}
	if err := os.MkdirAll(".secrets", 0o700); err != nil {
		return fmt.Errorf("creating .secrets: %w", err)
	}
	fmt.Println("   .secrets/")
	fmt.Println("Project files initialized.")
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the full test suite.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// All builds the binary and runs the tests.
func All() {
	mg.Deps(Build, Test)
}
