package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-sigfilter/storage"
)

func runList(_ context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	dir := fs.String("store", "", "store directory")
	attrs := fs.Bool("attrs", true, "print attributes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" {
		return fmt.Errorf("ls: -store is required")
	}

	s, err := storage.Open(*dir)
	if err != nil {
		return err
	}
	defer s.Close()

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Path\tType\tShape\tAttributes\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "----\t----\t-----\t----------\n"); err != nil {
		return err
	}

	var walk func(g *storage.Group) error
	walk = func(g *storage.Group) error {
		if g.Path() != "/" {
			if _, err := fmt.Fprintf(tw, "%s/\tgroup\t\t%s\n", g.Path(), formatAttrs(g.Attrs(), *attrs)); err != nil {
				return err
			}
		}
		for _, name := range g.Datasets() {
			ds, _ := g.Dataset(name)
			if _, err := fmt.Fprintf(tw, "%s\t%s\t%v\t%s\n",
				ds.Path(), ds.DType(), ds.Shape(), formatAttrs(ds.Attrs(), *attrs)); err != nil {
				return err
			}
		}
		for _, name := range g.Groups() {
			child, _ := g.Group(name)
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(s.Root()); err != nil {
		return err
	}
	return tw.Flush()
}

func formatAttrs(a *storage.Attributes, show bool) string {
	if !show {
		return ""
	}
	parts := make([]string, 0, a.Len())
	for _, k := range a.Keys() {
		v, _ := a.Get(k)
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(parts, " ")
}
