// Command mapgen-png runs the pipeline and rasterizes its output to a PNG,
// grounded on the flag/log/png.Encode shape of the teacher's
// server/terrain/render_cmd/main.go.
package main

import (
	"flag"
	"image/png"
	"log"
	"os"

	"mapgen/noise"
	"mapgen/params"
	"mapgen/pipeline"
)

func main() {
	var paramsPath, outPath string
	var scale float64

	flag.StringVar(&paramsPath, "params", "", "path to a params JSON document (defaults built in if omitted)")
	flag.StringVar(&outPath, "out", "out.png", "path to write the rendered PNG")
	flag.Float64Var(&scale, "scale", 1, "pixels per world unit")
	flag.Parse()

	p := params.Default()
	if paramsPath != "" {
		loaded, err := params.Load(paramsPath)
		if err != nil {
			log.Fatalf("loading params: %v", err)
		}
		p = loaded
	}
	if err := p.Validate(); err != nil {
		log.Fatalf("invalid params: %v", err)
	}

	driver := pipeline.New(p, noise.NewPerlin(p.Seed))
	driver.Run()

	img := Render(driver.Output, p.WorldDimensions, scale)

	f, err := os.Create(outPath)
	if err != nil {
		log.Fatalf("creating %s: %v", outPath, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		log.Fatalf("encoding png: %v", err)
	}
}
