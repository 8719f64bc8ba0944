// Package codegen provides a processor that generates Go code from annotation
// instances. The generated file has an init function that registers every
// instance with the annomodel runtime package, so the resolved values can be
// queried at runtime with annomodel.UsagesOf and annomodel.UsagesOn.
package codegen

import (
	"fmt"
	"path"
	"strings"

	"github.com/jhump/gopoet"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/jhump/annomodel"
	"github.com/jhump/annomodel/parser"
	"github.com/jhump/annomodel/processor"
)

// DefaultRuntimePackage is the import path of the runtime package that
// generated code registers usages with.
const DefaultRuntimePackage = "github.com/jhump/annomodel"

// Options configure the generated file.
type Options struct {
	// Package is the import path of the generated package. Required.
	Package string
	// PackageName is the name of the generated package. If empty, the last
	// element of Package is used.
	PackageName string
	// FileName is the name of the generated file. If empty, it is the package
	// name followed by ".annos.go".
	FileName string
	// Dir is the directory, relative to the output root, in which the file is
	// written.
	Dir string
	// RuntimePackage is the import path of the runtime package. If empty,
	// DefaultRuntimePackage is used.
	RuntimePackage string
}

func (o Options) withDefaults() (Options, error) {
	if o.Package == "" {
		return o, fmt.Errorf("output package is not specified")
	}
	if o.PackageName == "" {
		o.PackageName = packageNameFor(o.Package)
	}
	if o.FileName == "" {
		o.FileName = o.PackageName + ".annos.go"
	}
	if o.RuntimePackage == "" {
		o.RuntimePackage = DefaultRuntimePackage
	}
	return o, nil
}

// OutputPath returns the path, relative to the output root, of the file that
// the processor writes.
func (o Options) OutputPath() (string, error) {
	o, err := o.withDefaults()
	if err != nil {
		return "", err
	}
	return path.Join(o.Dir, o.FileName), nil
}

var elementTypeNames = map[parser.ElementKind]string{
	parser.TypeElement:           "Types",
	parser.AnnotationTypeElement: "AnnotationTypes",
	parser.EnumConstantElement:   "EnumConstants",
	parser.MethodElement:         "Methods",
	parser.FieldElement:          "Fields",
	parser.ConstructorElement:    "Constructors",
	parser.FunctionElement:       "Functions",
	parser.PropertyElement:       "Properties",
	parser.ParameterElement:      "Parameters",
}

// ElementType returns the runtime element type for the given kind of
// annotated declaration.
func ElementType(k parser.ElementKind) annomodel.ElementType {
	switch k {
	case parser.AnnotationTypeElement:
		return annomodel.AnnotationTypes
	case parser.EnumConstantElement:
		return annomodel.EnumConstants
	case parser.MethodElement:
		return annomodel.Methods
	case parser.FieldElement:
		return annomodel.Fields
	case parser.ConstructorElement:
		return annomodel.Constructors
	case parser.FunctionElement:
		return annomodel.Functions
	case parser.PropertyElement:
		return annomodel.Properties
	case parser.ParameterElement:
		return annomodel.Parameters
	default:
		return annomodel.Types
	}
}

// Processor returns a processor that writes one Go file that registers all
// annotation instances in the context. If there are no instances, no file is
// written.
func Processor(opts Options) processor.Processor {
	return func(ctx *processor.Context, output processor.OutputFactory) error {
		if ctx.NumInstances() == 0 {
			// nothing to do!
			return nil
		}
		o, err := opts.withDefaults()
		if err != nil {
			return err
		}
		file, err := GenerateFile(ctx.Instances(), o)
		if err != nil {
			return err
		}
		dest := path.Join(o.Dir, o.FileName)
		w, err := output(dest)
		if err != nil {
			return err
		}
		err = gopoet.WriteGoFile(w, file)
		err = multierr.Append(err, w.Close())
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", dest, err)
		}
		ctx.Logger.Info("generated annotation registrations",
			zap.String("file", dest),
			zap.Int("instances", ctx.NumInstances()))
		return nil
	}
}

// GenerateFile builds the Go file for the given instances. Instances that
// cannot be rendered are reported in the returned error, and the file still
// includes all others.
func GenerateFile(instances []*processor.AnnotationInstance, opts Options) (*gopoet.GoFile, error) {
	o, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	file := gopoet.NewGoFile(o.FileName, o.Package, o.PackageName)

	// we always reference this package, to call RegisterUsage. Registering it
	// up front fixes the prefix, so rendered values use the same qualifier that
	// gopoet emits for the symbols below.
	rtPkg := gopoet.Package{ImportPath: o.RuntimePackage, Name: packageNameFor(o.RuntimePackage)}
	prefix := file.RegisterImportForPackage(rtPkg)
	syntax := processor.GoSyntax{Runtime: strings.TrimSuffix(prefix, ".")}

	var errs error
	initFunc := gopoet.NewFunc("init")
	for i, inst := range instances {
		ri, err := processor.Render(inst, syntax)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if i != 0 {
			initFunc.Println("")
		}
		initFunc.Printlnf("// %s", ri.Pos)
		initFunc.Printlnf("%s(%q, %s, %q,", rtPkg.Symbol("RegisterUsage"),
			ri.Target, rtPkg.Symbol(elementTypeNames[ri.TargetKind]), ri.Annotation)
		for _, p := range ri.Params {
			initFunc.Printlnf("%s{Name: %q, Value: %s},", rtPkg.Symbol("Param"), p.Name, p.Code)
		}
		initFunc.Println(")")
	}
	file.AddElement(initFunc)
	return file, errs
}

// packageNameFor derives a package name from an import path, skipping a
// major version suffix and replacing characters that are not valid in
// identifiers.
func packageNameFor(importPath string) string {
	base := path.Base(importPath)
	if isMajorVersion(base) {
		if dir := path.Dir(importPath); dir != "." && dir != "/" {
			base = path.Base(dir)
		}
	}
	base = strings.TrimPrefix(base, "go-")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
