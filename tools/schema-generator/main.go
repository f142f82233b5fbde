package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/wardentools/core/config"
	"github.com/wardentools/core/watch"
)

func main() {
	// Define the output directory and ensure it exists.
	outputDir := "schema/definitions"
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Fatalf("Error creating schema directory: %v", err)
	}

	write := func(name string, generate func() ([]byte, error)) {
		schemaBytes, err := generate()
		if err != nil {
			log.Fatalf("Error generating %s: %v", name, err)
		}
		outputPath := filepath.Join(outputDir, name)
		if err := os.WriteFile(outputPath, schemaBytes, 0644); err != nil {
			log.Fatalf("Error writing %s: %v", name, err)
		}
		log.Printf("Successfully generated schema at %s", outputPath)
	}

	write("base.schema.json", config.GenerateSchema)
	write("rules.schema.json", watch.GenerateRulesSchema)
}
