package processor

import (
	"go.uber.org/zap"

	"github.com/jhump/annomodel/parser"
)

// Context represents the environment for an annotation processor. It provides
// access to all parsed files, all annotation schemas, and all annotation
// instances extracted from usages in those files.
type Context struct {
	// Files holds every successfully parsed source file, in the order they
	// were read.
	Files []*parser.File
	// Symbols resolves the types declared in Files.
	Symbols *Symbols
	Logger  *zap.Logger

	schemas      []*AnnotationSchema
	schemaByName map[string]*AnnotationSchema
	failed       map[string]bool

	instances    []*AnnotationInstance
	byAnnotation map[string][]*AnnotationInstance
	byTargetKind map[parser.ElementKind][]*AnnotationInstance

	diagnostics []error
}

func newContext(logger *zap.Logger) *Context {
	return &Context{
		Symbols:      NewSymbols(),
		Logger:       logger,
		schemaByName: map[string]*AnnotationSchema{},
		failed:       map[string]bool{},
		byAnnotation: map[string][]*AnnotationInstance{},
		byTargetKind: map[parser.ElementKind][]*AnnotationInstance{},
	}
}

func (c *Context) report(err error) {
	c.Logger.Warn("annotation problem", zap.Error(err))
	c.diagnostics = append(c.diagnostics, err)
}

func (c *Context) addFile(f *parser.File, err error) {
	if err != nil {
		c.report(err)
		return
	}
	c.Logger.Debug("parsed source file",
		zap.String("file", f.Name),
		zap.Stringer("dialect", f.Dialect),
		zap.Int("annotations", len(f.Annotations)),
		zap.Int("usages", len(f.Usages)))
	c.Files = append(c.Files, f)
	c.Symbols.Add(f)
}

func (c *Context) computeSchemas() {
	for _, f := range c.Files {
		for _, decl := range f.Annotations {
			s, err := BuildSchema(decl, c.Symbols)
			if err != nil {
				c.failed[decl.QualifiedName] = true
				c.report(err)
				continue
			}
			c.Logger.Debug("built annotation schema",
				zap.String("annotation", s.Name()),
				zap.Int("params", s.Len()))
			c.schemas = append(c.schemas, s)
			c.schemaByName[s.Name()] = s
		}
	}
}

func (c *Context) computeInstances() {
	for _, f := range c.Files {
		for _, u := range f.Usages {
			sym, ok := c.Symbols.ResolveType(Scope{File: f, Enclosing: parentName(u.Target)}, u.Annotation)
			if !ok || sym.Kind != SymbolAnnotation {
				c.Logger.Debug("skipping usage of external annotation",
					zap.String("annotation", u.AnnotationName()),
					zap.String("target", u.Target))
				continue
			}
			if c.failed[sym.Name] {
				// already reported when building schema
				continue
			}
			s := c.schemaByName[sym.Name]
			inst, err := Extract(s, u, c.Symbols)
			if err != nil {
				c.report(err)
				continue
			}
			c.Logger.Debug("extracted annotation instance",
				zap.String("annotation", s.Name()),
				zap.String("target", inst.Target()))
			c.instances = append(c.instances, inst)
			c.byAnnotation[s.Name()] = append(c.byAnnotation[s.Name()], inst)
			c.byTargetKind[inst.TargetKind()] = append(c.byTargetKind[inst.TargetKind()], inst)
		}
	}
}

// Schemas returns the schemas of all annotation types declared in the
// processed files, in declaration order. Annotations whose schemas could not
// be built are not included.
func (c *Context) Schemas() []*AnnotationSchema {
	return append([]*AnnotationSchema(nil), c.schemas...)
}

// Schema returns the schema for the annotation type with the given qualified
// name.
func (c *Context) Schema(name string) (*AnnotationSchema, bool) {
	s, ok := c.schemaByName[name]
	return s, ok
}

// NumInstances returns the number of extracted annotation instances.
func (c *Context) NumInstances() int {
	return len(c.instances)
}

// GetInstance returns the instance at the given index. The given index must
// be greater than or equal to zero and less than c.NumInstances().
func (c *Context) GetInstance(index int) *AnnotationInstance {
	return c.instances[index]
}

// Instances returns all extracted instances, in source order.
func (c *Context) Instances() []*AnnotationInstance {
	return append([]*AnnotationInstance(nil), c.instances...)
}

// InstancesOf returns the instances of the annotation type with the given
// qualified name.
func (c *Context) InstancesOf(annotation string) []*AnnotationInstance {
	return append([]*AnnotationInstance(nil), c.byAnnotation[annotation]...)
}

// InstancesOn returns the instances whose targets are of the given kind.
func (c *Context) InstancesOn(kind parser.ElementKind) []*AnnotationInstance {
	return append([]*AnnotationInstance(nil), c.byTargetKind[kind]...)
}

// Diagnostics returns the problems found while parsing sources, building
// schemas, and extracting instances.
func (c *Context) Diagnostics() []error {
	return append([]error(nil), c.diagnostics...)
}
