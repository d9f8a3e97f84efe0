// Command mapgen runs the full city generation pipeline once and writes its
// output as JSON, grounded on the flag/log CLI shape of the teacher's
// server/terrain/render_cmd.
package main

import (
	"flag"
	"log"
	"math"
	"os"

	"mapgen/noise"
	"mapgen/params"
	"mapgen/pipeline"
)

const noSeedOverride = math.MinInt64

func main() {
	var paramsPath, outPath string
	var seed int64

	flag.StringVar(&paramsPath, "params", "", "path to a params JSON document (defaults built in if omitted)")
	flag.StringVar(&outPath, "out", "", "path to write the generated output JSON (stdout if omitted)")
	flag.Int64Var(&seed, "seed", noSeedOverride, "override params.seed")
	flag.Parse()

	p := params.Default()
	if paramsPath != "" {
		loaded, err := params.Load(paramsPath)
		if err != nil {
			log.Fatalf("loading params: %v", err)
		}
		p = loaded
	}
	if seed != noSeedOverride {
		p.Seed = seed
	}
	if err := p.Validate(); err != nil {
		log.Fatalf("invalid params: %v", err)
	}

	driver := pipeline.New(p, noise.NewPerlin(p.Seed))
	driver.Run()

	data, err := params.JSON.MarshalIndent(driver.Output, "", "  ")
	if err != nil {
		log.Fatalf("encoding output: %v", err)
	}

	w := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			log.Fatalf("creating %s: %v", outPath, err)
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(data); err != nil {
		log.Fatalf("writing output: %v", err)
	}

	if c := driver.Report.Counts; c.CoastNotFound+c.RiverNotFound+c.SeedExhausted+c.BufferFailure+c.GraphDegenerate > 0 {
		log.Printf("non-fatal pipeline issues: %+v", c)
	}
}
