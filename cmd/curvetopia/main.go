package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"curvetopia/internal/logger"
	"curvetopia/pkg/cfg"
	"curvetopia/pkg/pathio"
	"curvetopia/pkg/pipeline"
	"curvetopia/pkg/render"
	"curvetopia/pkg/store"

	"github.com/dustin/go-humanize"
	"golang.org/x/xerrors"
)

type options struct {
	config     string
	svgOut     string
	pngOut     string
	pngSize    int
	csvOut     string
	db         string
	history    bool
	simplify   float64
	samples    int
	workers    int
	verbose    bool
	logLevel   string
	timestamps bool
	input      string
}

func parseFlags(args []string) (options, map[string]bool, error) {
	var o options
	fs := flag.NewFlagSet("curvetopia", flag.ContinueOnError)
	fs.StringVar(&o.config, "config", "", "YAML file overriding the default tolerances")
	fs.StringVar(&o.svgOut, "svg", "", "write the completed drawing as SVG")
	fs.StringVar(&o.pngOut, "png", "", "write the completed drawing as PNG")
	fs.IntVar(&o.pngSize, "size", 512, "longer side of the PNG in pixels")
	fs.StringVar(&o.csvOut, "csv", "", "write the completed curves as CSV")
	fs.StringVar(&o.db, "db", "", "SQLite file recording each run")
	fs.BoolVar(&o.history, "history", false, "list the runs stored in -db and exit")
	fs.Float64Var(&o.simplify, "simplify", 0, "Douglas-Peucker epsilon applied before analysis")
	fs.IntVar(&o.samples, "samples", 0, "points in each completed curve")
	fs.IntVar(&o.workers, "workers", 0, "worker goroutines")
	fs.BoolVar(&o.verbose, "v", false, "debug logging, same as -log-level debug")
	fs.StringVar(&o.logLevel, "log-level", "info", "debug, info, warn, error or fatal")
	fs.BoolVar(&o.timestamps, "timestamps", false, "prefix log lines with date and time")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: curvetopia [flags] input.csv\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return o, nil, err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if o.history {
		if o.db == "" {
			return o, nil, xerrors.New("-history needs -db")
		}
		return o, set, nil
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return o, nil, xerrors.New("expected one input file")
	}
	o.input = fs.Arg(0)
	return o, set, nil
}

func loadConfig(o options, set map[string]bool) (cfg.Config, error) {
	c := cfg.Default()
	if o.config != "" {
		var err error
		if c, err = cfg.Load(o.config); err != nil {
			return c, err
		}
	}
	if set["simplify"] {
		c.SimplifyEpsilon = o.simplify
	}
	if set["samples"] {
		c.Completion.SampleCount = o.samples
	}
	if set["workers"] {
		c.Workers = o.workers
	}
	return c, c.Validate()
}

func writeFile(name string, write func(io.Writer) error) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return xerrors.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	if info, err := os.Stat(name); err == nil {
		logger.Info("wrote %s (%s)", name, humanize.Bytes(uint64(info.Size())))
	}
	return nil
}

func printHistory(ctx context.Context, out io.Writer, dbPath string) error {
	db, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.Runs(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSOURCE\tWHEN\tPATHS\tCOMPLETED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Source, humanize.Time(r.CreatedAt),
			humanize.Comma(int64(r.Paths)), humanize.Comma(int64(r.Completed)))
	}
	return tw.Flush()
}

func printReport(out io.Writer, curves []pathio.Curve, report pipeline.Report) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tPOLYLINE\tLABEL\tAXES\tORDER\tCOMPLETED")
	for i, r := range report.Results {
		completed := "-"
		if c := report.Completed[i]; c.Completed {
			completed = fmt.Sprintf("across %d/%d", curves[c.Occluder].Group, curves[c.Occluder].Index)
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%d\t%s\n", curves[i].Group, curves[i].Index,
			r.Label, len(r.Symmetry.Axes), r.Symmetry.Order, completed)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	counts := report.LabelCounts()
	fmt.Fprintf(out, "\n%s paths:", humanize.Comma(int64(len(report.Results))))
	for _, label := range report.Labels() {
		fmt.Fprintf(out, " %s %s", humanize.Comma(int64(counts[label])), label)
	}
	fmt.Fprintln(out)
	return nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	o, set, err := parseFlags(args)
	if err != nil {
		return err
	}
	level, err := logger.ParseLevel(o.logLevel)
	if err != nil {
		return err
	}
	if o.verbose {
		level = logger.DEBUG
	}
	logger.SetLevel(level)
	logger.SetShowDateTime(o.timestamps)

	if o.history {
		return printHistory(ctx, out, o.db)
	}

	c, err := loadConfig(o, set)
	if err != nil {
		return err
	}

	f, err := os.Open(o.input)
	if err != nil {
		return err
	}
	curves, err := pathio.ReadCSV(f)
	f.Close()
	if err != nil {
		return xerrors.Errorf("%s: %w", o.input, err)
	}
	if len(curves) == 0 {
		logger.Warn("no curves in %s", o.input)
	}
	logger.Debug("read %d curves from %s", len(curves), o.input)

	report, err := pipeline.Run(pathio.Paths(curves), c)
	if err != nil {
		return err
	}
	if err := printReport(out, curves, report); err != nil {
		return err
	}

	completed := make([]pathio.Curve, len(curves))
	for i, p := range report.CompletedPaths() {
		completed[i] = pathio.Curve{Group: curves[i].Group, Index: curves[i].Index, Points: p}
	}

	if o.csvOut != "" {
		err := writeFile(o.csvOut, func(w io.Writer) error { return pathio.WriteCSV(w, completed) })
		if err != nil {
			return err
		}
	}
	if o.svgOut != "" {
		err := writeFile(o.svgOut, func(w io.Writer) error { return render.SVG(w, completed) })
		if err != nil {
			return err
		}
	}
	if o.pngOut != "" {
		err := writeFile(o.pngOut, func(w io.Writer) error { return render.PNG(w, completed, o.pngSize) })
		if err != nil {
			return err
		}
	}
	if o.db != "" {
		db, err := store.Open(o.db)
		if err != nil {
			return err
		}
		defer db.Close()
		id, err := db.SaveRun(ctx, o.input, report)
		if err != nil {
			return err
		}
		logger.Info("saved run %s to %s", id, o.db)
	}
	return nil
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if xerrors.Is(err, flag.ErrHelp) {
			return
		}
		logger.Fatal("%s", err)
	}
}
