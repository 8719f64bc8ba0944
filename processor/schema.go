package processor

import (
	"go/token"

	"github.com/jhump/annomodel/parser"
)

// ParameterSchema describes one declared parameter of an annotation.
type ParameterSchema struct {
	Name        string
	Type        ParamType
	Requirement Requirement
	Pos         token.Position
}

func (p *ParameterSchema) Kind() Kind {
	return p.Type.Kind
}

// IsRequired returns true if usages must supply a value for the parameter.
func (p *ParameterSchema) IsRequired() bool {
	_, ok := p.Requirement.(Required)
	return ok
}

// Default returns the parameter's default value. The second result is false
// if the parameter is required.
func (p *ParameterSchema) Default() (Value, bool) {
	if d, ok := p.Requirement.(HasDefault); ok {
		return d.Value, true
	}
	return Value{}, false
}

// AnnotationSchema is the ordered, immutable list of parameters declared by
// an annotation type. Schemas are built once and shared by every instance
// extracted from a usage of the annotation.
type AnnotationSchema struct {
	name       string
	simpleName string
	pos        token.Position
	params     []ParameterSchema
	index      map[string]int
}

// Name returns the qualified name of the annotation type.
func (s *AnnotationSchema) Name() string {
	return s.name
}

func (s *AnnotationSchema) SimpleName() string {
	return s.simpleName
}

func (s *AnnotationSchema) Pos() token.Position {
	return s.pos
}

// Params returns the parameters in declaration order. The returned slice is
// a copy.
func (s *AnnotationSchema) Params() []ParameterSchema {
	return append([]ParameterSchema(nil), s.params...)
}

// Param returns the parameter with the given name.
func (s *AnnotationSchema) Param(name string) (ParameterSchema, bool) {
	i, ok := s.index[name]
	if !ok {
		return ParameterSchema{}, false
	}
	return s.params[i], true
}

func (s *AnnotationSchema) Len() int {
	return len(s.params)
}

// BuildSchema classifies each parameter of the given declaration and
// resolves its default. If any parameter fails, no schema is returned and the
// error is a *SchemaBuildError that wraps the first failure.
func BuildSchema(decl *parser.AnnotationDecl, symbols SymbolResolver) (*AnnotationSchema, error) {
	scope := Scope{File: decl.File, Enclosing: decl.QualifiedName}
	s := &AnnotationSchema{
		name:       decl.QualifiedName,
		simpleName: decl.Name,
		pos:        decl.Pos,
		params:     make([]ParameterSchema, 0, len(decl.Params)),
		index:      make(map[string]int, len(decl.Params)),
	}
	for _, p := range decl.Params {
		if _, ok := s.index[p.Name]; ok {
			dup := &DuplicateParameterError{location: location{pos: p.Pos}}
			return nil, schemaBuildError(decl, p, dup)
		}
		pt, err := ClassifyType(p.Type, scope, symbols)
		if err != nil {
			return nil, schemaBuildError(decl, p, err)
		}
		req, err := ResolveDefault(p, pt, scope, symbols)
		if err != nil {
			return nil, schemaBuildError(decl, p, err)
		}
		s.index[p.Name] = len(s.params)
		s.params = append(s.params, ParameterSchema{
			Name:        p.Name,
			Type:        pt,
			Requirement: req,
			Pos:         p.Pos,
		})
	}
	return s, nil
}

func schemaBuildError(decl *parser.AnnotationDecl, p *parser.ParamDecl, err error) *SchemaBuildError {
	err = withContext(err, decl.QualifiedName, p.Name)
	return &SchemaBuildError{
		location: location{annotation: decl.QualifiedName, param: p.Name, pos: p.Pos},
		err:      err,
	}
}
