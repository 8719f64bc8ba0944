package main

import (
	"errors"
	"fmt"
	"go/token"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/jhump/annomodel/processor"
)

var (
	errorColor  = color.New(color.FgRed, color.Bold)
	posColor    = color.New(color.Bold)
	schemaColor = color.New(color.FgCyan, color.Bold)
	faintColor  = color.New(color.Faint)
)

type positioned interface {
	Pos() token.Position
}

// reportDiagnostics prints each error on its own line, with its source
// position in bold.
func reportDiagnostics(w io.Writer, errs []error) {
	for _, err := range errs {
		msg := err.Error()
		var p positioned
		if errors.As(err, &p) {
			if pos := p.Pos(); pos.IsValid() {
				prefix := pos.String()
				msg = strings.TrimPrefix(msg, prefix+": ")
				posColor.Fprintf(w, "%s: ", prefix)
			}
		}
		errorColor.Fprint(w, "error: ")
		fmt.Fprintln(w, msg)
	}
	if len(errs) > 1 {
		fmt.Fprintf(w, "%d problems found\n", len(errs))
	}
}

func dumpInstances(w io.Writer, ctx *processor.Context, syntax processor.Syntax) error {
	for _, inst := range ctx.Instances() {
		ri, err := processor.Render(inst, syntax)
		if err != nil {
			return err
		}
		schemaColor.Fprintf(w, "@%s", ri.Annotation)
		fmt.Fprintf(w, " on %s %s", ri.TargetKind, ri.Target)
		faintColor.Fprintf(w, " (%s)\n", ri.Pos)
		for _, p := range ri.Params {
			fmt.Fprintf(w, "    %s = %s", p.Name, p.Code)
			if p.Default {
				faintColor.Fprint(w, " (default)")
			}
			fmt.Fprintln(w)
		}
	}
	return nil
}

func printSchemas(w io.Writer, ctx *processor.Context) {
	for _, s := range ctx.Schemas() {
		schemaColor.Fprintf(w, "%s", s.Name())
		faintColor.Fprintf(w, " (%s)\n", s.Pos())
		for _, p := range s.Params() {
			fmt.Fprintf(w, "    %s %s [%s]", p.Name, p.Type, p.Kind().Tag())
			if d, ok := p.Default(); ok {
				fmt.Fprintf(w, " = %s", processor.RenderValue(d, processor.JavaSyntax{}))
			} else {
				errorColor.Fprint(w, " required")
			}
			fmt.Fprintln(w)
		}
	}
}
