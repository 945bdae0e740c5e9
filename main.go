package main

import (
	"fmt"
	"log"
	"os"

	"github.com/RoberttBukowiecki/meble-sub001/pkg/design"
)

// defaultCatalog is the built-in material set used when no project
// catalog is loaded.
var defaultCatalog = design.Catalog{
	{ID: "egger-w980-18", Name: "White chipboard 18", Thickness: 18, Category: design.CategoryBoard, IsDefault: true},
	{ID: "egger-h1180-18", Name: "Oak front 18", Thickness: 18, Category: design.CategoryFront},
	{ID: "hdf-white-3", Name: "White HDF 3", Thickness: 3, Category: design.CategoryHDF},
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <script.lisp>\n", os.Args[0])
		os.Exit(2)
	}

	source, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("read script: %v", err)
	}

	app := NewApp(defaultCatalog)
	result := app.RunScript(string(source))

	for _, e := range result.Errors {
		if e.Line > 0 {
			fmt.Fprintf(os.Stderr, "error: line %d: %s\n", e.Line, e.Message)
		} else {
			fmt.Fprintf(os.Stderr, "error: %s\n", e.Message)
		}
	}
	if len(result.Errors) > 0 {
		os.Exit(1)
	}

	// Collision detection is debounced; settle it before reporting.
	app.Service().Collisions.DetectNow()

	fmt.Printf("cabinets: %d  parts: %d  collisions: %d\n",
		len(result.State.Cabinets), len(result.State.Parts), len(app.Service().Store.Collisions()))
	for _, cab := range result.State.Cabinets {
		fmt.Printf("  %-24s %s  %.0fx%.0fx%.0f  (%d parts)\n",
			cab.Name, cab.Params.Type, cab.Params.Width, cab.Params.Height, cab.Params.Depth, len(cab.PartIDs))
	}
}
