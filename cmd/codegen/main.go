package main

import (
	"context"
	"go/format"
	"log"
	"os"
	"time"

	"github.com/delaneyj/finegrain/cmd/codegen/templates"
	"github.com/urfave/cli/v3"
)

const (
	sourceCountKey = "count"
	outputKey      = "out"
)

func main() {
	cmd := &cli.Command{
		Name:  "generate",
		Usage: "Generate typed derive helpers for the reactive package",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  sourceCountKey,
				Usage: "Highest number of explicit sources to generate",
				Value: 4,
			},
			&cli.StringFlag{
				Name:  outputKey,
				Usage: "File to write",
				Value: "reactive/derive_gen.go",
			},
		},
		Action: generate,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func generate(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	log.Printf("Codegen for reactive started !")
	defer func() {
		log.Printf("Codegen for reactive finished in %v", time.Since(start))
	}()

	count := int(cmd.Uint(sourceCountKey))
	out := cmd.String(outputKey)
	log.Printf("Derive helpers: 1..%d -> %s", count, out)

	contents, err := format.Source([]byte(templates.DeriveGen(count)))
	if err != nil {
		return err
	}
	return os.WriteFile(out, contents, 0644)
}
