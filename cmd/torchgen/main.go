// Command torchgen generates the PyTorch source of a computation graph.
package main

import (
	"cmp"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"goa.design/clue/log"

	"goa.design/torchgen/codegen/torchscript"
	"goa.design/torchgen/config"
	"goa.design/torchgen/graph"
	"goa.design/torchgen/telemetry"
)

func main() {
	var (
		graphF   = flag.String("graph", "", "Path of the YAML graph description (required)")
		configF  = flag.String("config", "", "Path of the YAML configuration file")
		variantF = flag.String("variant", "", "Emission variant (plain or quant), overrides the configuration")
		outF     = flag.String("out", "", "Output file, defaults to a name derived from the graph name")
		classF   = flag.String("class", "", "Generated class name, defaults to the graph name")
		dbgF     = flag.Bool("debug", false, "Log every emitted node")
		jsonF    = flag.Bool("json", false, "Force JSON logs")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -graph FILE [options]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := config.Default()
	if *configF != "" {
		c, err := config.Load(*configF)
		if err != nil {
			fatal(err)
		}
		cfg = c
	}
	cfg.Variant = cmp.Or(*variantF, cfg.Variant)
	cfg.Output = cmp.Or(*outF, cfg.Output)
	cfg.ClassName = cmp.Or(*classF, cfg.ClassName)
	cfg.Log.Debug = cfg.Log.Debug || *dbgF
	if *jsonF {
		cfg.Log.Format = config.FormatJSON
	}

	// Setup logger.
	format := log.FormatJSON
	switch cfg.Log.Format {
	case config.FormatTerminal:
		format = log.FormatTerminal
	case config.FormatAuto:
		if log.IsTerminal() {
			format = log.FormatTerminal
		}
	}
	ctx := log.Context(context.Background(), log.WithFormat(format))
	if cfg.Log.Debug {
		ctx = log.Context(ctx, log.WithDebug())
		log.Debugf(ctx, "debug logs enabled")
	}
	ctx = telemetry.WithRunID(ctx, uuid.NewString())

	if *graphF == "" {
		flag.Usage()
		os.Exit(2)
	}
	policy, err := cfg.Policy()
	if err != nil {
		log.Fatalf(ctx, err, "invalid configuration")
	}
	g, err := graph.Load(*graphF)
	if err != nil {
		log.Fatalf(ctx, err, "failed to load graph %s", *graphF)
	}
	out := cmp.Or(cfg.Output, torchscript.DefaultPath(g))
	log.Print(ctx, log.KV{K: "graph", V: g.Name}, log.KV{K: "variant", V: policy.Name}, log.KV{K: "out", V: out})

	opts := torchscript.Options{
		Policy:    policy,
		ClassName: cfg.ClassName,
		Telemetry: telemetry.Clue(),
	}
	if err := torchscript.Write(ctx, g, out, opts); err != nil {
		log.Fatalf(ctx, err, "failed to generate %s", out)
	}
}

// fatal reports errors raised before the logger is configured.
func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
