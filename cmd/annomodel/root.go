package main

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jhump/annomodel/codegen"
	"github.com/jhump/annomodel/processor"
)

// Version is set at build time.
var Version = "dev"

// errReported is returned by commands that already printed their failures.
var errReported = errors.New("problems were reported")

type app struct {
	configFile string
	cfg        *config
	logger     *zap.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}
	v := newViper()
	root := &cobra.Command{
		Use:           "annomodel",
		Short:         "Extract annotation models from Java and Kotlin sources",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, cmd, a.configFile)
			if err != nil {
				return err
			}
			if cfg.NoColor {
				color.NoColor = true
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "Config file to use instead of ./annomodel.yaml.")
	root.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, or error.")
	root.PersistentFlags().Bool("no-color", false, "Disable colored output.")

	root.AddCommand(a.newGenerateCommand())
	root.AddCommand(a.newDumpCommand())
	root.AddCommand(a.newSchemasCommand())
	root.AddCommand(newVersionCommand())
	return root
}

func (a *app) newGenerateCommand() *cobra.Command {
	var procNames []string
	cmd := &cobra.Command{
		Use:   "generate [paths...]",
		Short: "Generate a Go file that registers every annotation usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := codegen.Options{
				Package:        a.cfg.Package,
				PackageName:    a.cfg.PackageName,
				FileName:       a.cfg.FileName,
				RuntimePackage: a.cfg.RuntimePackage,
			}
			if opts.Package == "" {
				pkg, name, err := codegen.ResolvePackage(a.cfg.OutputDir)
				if err != nil {
					return err
				}
				opts.Package = pkg
				if opts.PackageName == "" {
					opts.PackageName = name
				}
				a.logger.Debug("resolved output package", zap.String("package", pkg), zap.String("name", name))
			}
			extra := processor.AllRegisteredProcessors()
			if len(procNames) > 0 {
				var err error
				if extra, err = processor.SelectProcessors(procNames...); err != nil {
					return err
				}
			}
			procs := append([]processor.Processor{codegen.Processor(opts)}, extra...)
			return a.run(cmd, args, procs, processor.DefaultOutputFactory(a.cfg.OutputDir))
		},
	}
	cmd.Flags().String("output-dir", ".", "Directory where the generated file is written.")
	cmd.Flags().String("package", "", "Import path of the generated package. Determined from the output directory if not set.")
	cmd.Flags().String("package-name", "", "Name of the generated package.")
	cmd.Flags().String("runtime-package", codegen.DefaultRuntimePackage, "Import path of the annomodel runtime package.")
	cmd.Flags().String("file-name", "", "Name of the generated file. Defaults to <package>.annos.go.")
	cmd.Flags().StringSliceVar(&procNames, "processor", nil, "Registered processors to run in addition to the generator. All of them if not set.")
	return cmd
}

func (a *app) newDumpCommand() *cobra.Command {
	var syntaxName string
	cmd := &cobra.Command{
		Use:   "dump [paths...]",
		Short: "Print every annotation instance with its resolved values",
		RunE: func(cmd *cobra.Command, args []string) error {
			var syntax processor.Syntax
			switch strings.ToLower(syntaxName) {
			case "java":
				syntax = processor.JavaSyntax{}
			case "go":
				syntax = processor.GoSyntax{Runtime: "annomodel"}
			default:
				return fmt.Errorf("unknown syntax %q: must be java or go", syntaxName)
			}
			dump := func(ctx *processor.Context, _ processor.OutputFactory) error {
				return dumpInstances(cmd.OutOrStdout(), ctx, syntax)
			}
			return a.run(cmd, args, []processor.Processor{dump}, nil)
		},
	}
	cmd.Flags().StringVar(&syntaxName, "syntax", "java", "Syntax for rendered values: java or go.")
	return cmd
}

func (a *app) newSchemasCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schemas [paths...]",
		Short: "Print the schema of every declared annotation",
		RunE: func(cmd *cobra.Command, args []string) error {
			show := func(ctx *processor.Context, _ processor.OutputFactory) error {
				printSchemas(cmd.OutOrStdout(), ctx)
				return nil
			}
			return a.run(cmd, args, []processor.Processor{show}, nil)
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			titleColor := color.New(color.FgCyan, color.Bold)
			out := cmd.OutOrStdout()
			titleColor.Fprint(out, "annomodel version: ")
			fmt.Fprintln(out, Version)
			titleColor.Fprint(out, "Go version: ")
			fmt.Fprintln(out, runtime.Version())
		},
	}
}

func (a *app) run(cmd *cobra.Command, args []string, procs []processor.Processor, out processor.OutputFactory) error {
	if len(args) == 0 {
		args = []string{"."}
	}
	files, err := processor.CollectSources(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no Java or Kotlin sources found in %s", strings.Join(args, ", "))
	}
	a.logger.Debug("collected sources", zap.Int("count", len(files)))
	if out == nil {
		out = discardOutput
	}
	cfg := processor.Config{
		Files:         files,
		Processors:    procs,
		OutputFactory: out,
		Logger:        a.logger,
	}
	if err := cfg.Execute(); err != nil {
		reportDiagnostics(cmd.ErrOrStderr(), processor.Diagnostics(err))
		return errReported
	}
	return nil
}

func discardOutput(string) (io.WriteCloser, error) {
	return nopCloser{io.Discard}, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
