package torchscript

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"goa.design/goa/v3/codegen"
	"goa.design/torchgen/codegen/attrs"
	"goa.design/torchgen/codegen/ir"
	"goa.design/torchgen/codegen/naming"
	"goa.design/torchgen/codegen/optable"
	"goa.design/torchgen/graph"
	"goa.design/torchgen/telemetry"
)

// DefaultClassName is used when the graph name yields no usable identifier.
const DefaultClassName = "Module"

// Options configures a generation pass. The zero value generates a plain
// module with the default classification table and no telemetry.
type Options struct {
	// Policy selects the emission variant, Plain when nil.
	Policy *Policy
	// Table is the operator classification table, optable.Default when nil.
	Table *optable.Table
	// ClassName overrides the graph name as generated class identifier.
	ClassName string
	// Telemetry receives logs, metrics and spans of the pass.
	Telemetry telemetry.Set
}

func (o Options) withDefaults() Options {
	if o.Policy == nil {
		o.Policy = Plain()
	}
	if o.Table == nil {
		o.Table = optable.Default()
	}
	o.Telemetry = o.Telemetry.WithDefaults()
	return o
}

// Build runs a generation pass over g and returns the module IR. It fails
// without partial result on the first error.
func Build(ctx context.Context, g *graph.Graph, opts Options) (*ir.Module, error) {
	opts = opts.withDefaults()
	tel := opts.Telemetry
	variant := opts.Policy.Name
	ctx, span := tel.Tracer.Start(ctx, "torchgen.generate", trace.WithAttributes(
		attribute.String("torchgen.graph", g.Name),
		attribute.String("torchgen.variant", variant),
	))
	defer span.End()

	start := time.Now()
	m, err := build(ctx, g, opts)
	tel.Metrics.RecordTimer(telemetry.MetricGenerateDuration, time.Since(start), "variant", variant)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		tel.Metrics.IncCounter(telemetry.MetricGenerateFailures, 1, "variant", variant)
		tel.Logger.Error(ctx, "generation failed", "graph", g.Name, "variant", variant, "err", err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "")
	tel.Logger.Info(ctx, "generated module", "graph", g.Name, "class", m.ClassName, "variant", variant, "nodes", len(g.Nodes))
	return m, nil
}

func build(ctx context.Context, g *graph.Graph, opts Options) (*ir.Module, error) {
	tel := opts.Telemetry
	className := naming.ClassName(cmp.Or(opts.ClassName, g.Name), DefaultClassName)
	e := newEmitter(opts.Table, opts.Policy)
	b := ir.NewBuilder(className, opts.Policy.Name, opts.Policy.imports()...)
	for _, n := range g.Nodes {
		em, err := e.emit(n)
		if err != nil {
			return nil, err
		}
		if err := b.Add(em.init, em.use); err != nil {
			return nil, err
		}
		tel.Metrics.IncCounter(telemetry.MetricNodesEmitted, 1, "variant", opts.Policy.Name, "dispatch", em.path)
		tel.Logger.Debug(ctx, "emitted node", "node", n.Name, "op", n.Op.Type, "dispatch", em.path)
	}
	if len(g.Outputs) == 0 {
		return nil, &attrs.EmptySequenceError{What: "terminal outputs"}
	}
	returns := make([]string, len(g.Outputs))
	for i, t := range g.Outputs {
		name, err := e.symbols.Lookup(t.Name)
		if err != nil {
			return nil, fmt.Errorf("graph output: %w", err)
		}
		returns[i] = name
	}
	b.Return(returns...)
	return b.Module(), nil
}

// DefaultPath returns the default output file name of the module generated
// from g, e.g. "my_net.py" for a graph named "MyNet".
func DefaultPath(g *graph.Graph) string {
	return naming.SanitizeToken(g.Name, "module") + ".py"
}

// File runs a generation pass over g and returns the generated file at path.
func File(ctx context.Context, g *graph.Graph, path string, opts Options) (*codegen.File, error) {
	m, err := Build(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	return &codegen.File{Path: path, SectionTemplates: sections(m)}, nil
}

func sections(m *ir.Module) []*codegen.SectionTemplate {
	return []*codegen.SectionTemplate{
		{Name: "torch-header", Source: torchTemplates.Read(headerT), Data: m},
		{Name: "torch-init", Source: torchTemplates.Read(initT), Data: m},
		{Name: "torch-forward", Source: torchTemplates.Read(forwardT), Data: m},
	}
}

// Render renders the sections of f in order.
func Render(f *codegen.File) ([]byte, error) {
	var buf bytes.Buffer
	for _, s := range f.SectionTemplates {
		tmpl, err := template.New(s.Name).Funcs(s.FuncMap).Parse(s.Source)
		if err != nil {
			return nil, fmt.Errorf("parse section %s: %w", s.Name, err)
		}
		if err := tmpl.Execute(&buf, s.Data); err != nil {
			return nil, fmt.Errorf("render section %s: %w", s.Name, err)
		}
	}
	return buf.Bytes(), nil
}

// Generate runs a generation pass over g and returns the rendered source.
func Generate(ctx context.Context, g *graph.Graph, opts Options) ([]byte, error) {
	f, err := File(ctx, g, DefaultPath(g), opts)
	if err != nil {
		return nil, err
	}
	return Render(f)
}

// Write generates the module of g and writes it to path. The source is
// rendered completely before path is touched and replaces it atomically.
func Write(ctx context.Context, g *graph.Graph, path string, opts Options) error {
	content, err := Generate(ctx, g, opts)
	if err != nil {
		return err
	}
	if err := writeFile(path, content); err != nil {
		return err
	}
	opts.Telemetry.WithDefaults().Logger.Info(ctx, "wrote module", "path", path, "bytes", len(content))
	return nil
}

// writeFile writes content to a temporary file next to path and renames it
// over path. The temporary file is closed on every path and removed on
// failure.
func writeFile(path string, content []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(content); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
