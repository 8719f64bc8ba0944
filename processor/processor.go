package processor

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/jhump/annomodel/parser"
)

// OutputFactory is a function that creates a writer to an output for the
// given location. Output factories typically use os.OpenFile to create files
// but this function allows the behavior to be customized.
type OutputFactory func(path string) (io.WriteCloser, error)

// Processor is a function that acts on annotations and is invoked from the
// annotation processor tool. Typical processor implementations generate code
// based on the annotations present in source.
type Processor func(ctx *Context, output OutputFactory) error

// ProcessAll invokes all registered Processor instances to process the
// sources at the given paths. Paths may name files or directories, which are
// searched recursively for Java and Kotlin sources.
func ProcessAll(paths []string, outputDir string) error {
	return Process(paths, outputDir, AllRegisteredProcessors()...)
}

// Process invokes the given processors to process the sources at the given
// paths.
func Process(paths []string, outputDir string, procs ...Processor) error {
	files, err := CollectSources(paths)
	if err != nil {
		return err
	}
	cfg := Config{
		Files:         files,
		Processors:    procs,
		OutputFactory: DefaultOutputFactory(outputDir),
	}
	return cfg.Execute()
}

// CollectSources expands the given paths into a sorted list of source files.
// Directories are walked recursively and any .java, .kt, or .kts file found
// is included. Paths that name files are included as-is.
func CollectSources(paths []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if !seen[p] {
				seen[p] = true
				files = append(files, p)
			}
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isSource(path) || seen[path] {
				return nil
			}
			seen[path] = true
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

func isSource(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".java", ".kt", ".kts":
		return true
	default:
		return false
	}
}

// DefaultOutputFactory returns the default OutputFactory used by Process and
// ProcessAll. The actual full path will be <rootDir>/<path>. If rootDir is
// blank, paths are relative to the current working directory.
//
// Directories are created as needed. After computing the destination path,
// os.OpenFile is used to open the file for writing (creating the file if
// necessary, truncating it if it already exists).
func DefaultOutputFactory(rootDir string) OutputFactory {
	return func(path string) (io.WriteCloser, error) {
		dest := filepath.Join(rootDir, filepath.FromSlash(path))
		dir := filepath.Dir(dest)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("could not create output directory %s: %w", dir, err)
		}
		return os.OpenFile(dest, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0666)
	}
}

// Config represents the configuration for running one or more Processors.
// Callers should configure all of the exported fields and then call the
// Execute method to actually invoke the processors.
type Config struct {
	// Files are paths of source files to read.
	Files []string
	// Sources are additional in-memory sources, keyed by file name. The file
	// name determines the dialect.
	Sources    map[string]string
	Processors []Processor
	// OutputFactory is given to each processor. If nil, a factory that writes
	// relative to the current directory is used.
	OutputFactory OutputFactory
	// Logger receives progress messages. If nil, nothing is logged.
	Logger *zap.Logger
}

// Execute parses all configured sources, builds a schema for every declared
// annotation, and extracts an instance from every usage of one. It then
// invokes the configured processors.
//
// A failure in one declaration or usage does not prevent processing of the
// others. All failures, including those returned by processors, are combined
// into the returned error. Use Diagnostics to get the individual errors.
func (cfg *Config) Execute() error {
	ctx, err := cfg.Load()
	if err != nil {
		return err
	}
	out := cfg.OutputFactory
	if out == nil {
		out = DefaultOutputFactory("")
	}
	errs := ctx.Diagnostics()
	for _, proc := range cfg.Processors {
		if err := proc(ctx, out); err != nil {
			ctx.Logger.Warn("processor failed", zap.Error(err))
			errs = append(errs, err)
		}
	}
	return multierr.Combine(errs...)
}

// Load parses all configured sources and extracts annotation instances,
// without running any processors. The returned error is non-nil only if a
// source file cannot be read. Problems in the sources are reported by the
// returned context's Diagnostics method.
func (cfg *Config) Load() (*Context, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx := newContext(logger)

	for _, name := range cfg.Files {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		file, err := parser.Parse(name, f)
		_ = f.Close()
		ctx.addFile(file, err)
	}
	names := make([]string, 0, len(cfg.Sources))
	for name := range cfg.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		file, err := parser.Parse(name, strings.NewReader(cfg.Sources[name]))
		ctx.addFile(file, err)
	}

	ctx.computeSchemas()
	ctx.computeInstances()
	return ctx, nil
}
