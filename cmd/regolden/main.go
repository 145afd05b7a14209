// Command regolden refreshes the golden files of the torchscript generator.
// Run it from the repository root.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"goa.design/torchgen/codegen/torchscript"
	"goa.design/torchgen/codegen/torchscript/tests/testscenarios"
)

func main() {
	ctx := context.Background()
	for _, sc := range testscenarios.All() {
		for _, variant := range sc.Variants {
			policy, err := torchscript.NewPolicy(variant)
			must(err)
			g := sc.Graph()
			f, err := torchscript.File(ctx, g, torchscript.DefaultPath(g), torchscript.Options{Policy: policy})
			must(err)
			content, err := torchscript.Render(f)
			must(err)

			dir := filepath.Join("codegen", "torchscript", "tests", "testdata", "golden", sc.Name)
			must(os.MkdirAll(dir, 0o750))
			golden := filepath.Join(dir, testscenarios.GoldenName(variant))
			if err := os.WriteFile(golden, content, 0o600); err != nil {
				panic(fmt.Errorf("write golden: %w", err))
			}
			fmt.Println("Updated:", golden)
		}
	}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
