package processor

import (
	"strings"

	"github.com/jhump/annomodel/parser"
)

// SymbolKind is the kind of a declared type.
type SymbolKind int

const (
	SymbolClass SymbolKind = iota
	SymbolEnum
	SymbolAnnotation
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolEnum:
		return "enum"
	case SymbolAnnotation:
		return "annotation"
	default:
		return "class"
	}
}

// Symbol is a named type known to the processor.
type Symbol struct {
	Kind SymbolKind
	// Name is the qualified name of the type.
	Name       string
	Enum       *parser.EnumDecl
	Annotation *parser.AnnotationDecl
}

// Scope is the lexical context in which a name is resolved.
type Scope struct {
	File *parser.File
	// Enclosing is the qualified name of the innermost declaration that
	// contains the reference. Names are resolved against it, and then each of
	// its parents, before imports are consulted.
	Enclosing string
}

func (s Scope) dialect() parser.Dialect {
	if s.File == nil {
		return parser.Java
	}
	return s.File.Dialect
}

// SymbolResolver resolves type names. It is the processor's view of the host
// compiler's symbol table.
type SymbolResolver interface {
	// ResolveType resolves the given (possibly qualified) type name in the
	// given scope.
	ResolveType(scope Scope, name []string) (Symbol, bool)
}

// Symbols is a SymbolResolver for a set of parsed files.
type Symbols struct {
	byName map[string]Symbol
}

// NewSymbols indexes all types declared in the given files.
func NewSymbols(files ...*parser.File) *Symbols {
	s := &Symbols{byName: map[string]Symbol{}}
	for _, f := range files {
		s.Add(f)
	}
	return s
}

// Add indexes the types declared in the given file. Declarations that were
// already added under the same qualified name are replaced.
func (s *Symbols) Add(f *parser.File) {
	for _, t := range f.Types {
		s.byName[t] = Symbol{Kind: SymbolClass, Name: t}
	}
	for _, e := range f.Enums {
		s.byName[e.QualifiedName] = Symbol{Kind: SymbolEnum, Name: e.QualifiedName, Enum: e}
	}
	for _, a := range f.Annotations {
		s.byName[a.QualifiedName] = Symbol{Kind: SymbolAnnotation, Name: a.QualifiedName, Annotation: a}
	}
}

// Lookup returns the symbol with the given qualified name.
func (s *Symbols) Lookup(qualifiedName string) (Symbol, bool) {
	sym, ok := s.byName[qualifiedName]
	return sym, ok
}

// ResolveType implements SymbolResolver. Names are resolved against
// enclosing declarations, then single-type imports, then the file's package,
// then wildcard imports, and finally as fully-qualified names.
func (s *Symbols) ResolveType(scope Scope, name []string) (Symbol, bool) {
	if len(name) == 0 {
		return Symbol{}, false
	}
	joined := strings.Join(name, ".")

	for encl := scope.Enclosing; encl != ""; encl = parentName(encl) {
		if sym, ok := s.byName[encl+"."+joined]; ok {
			return sym, true
		}
	}
	if scope.File != nil {
		rest := strings.Join(name[1:], ".")
		for _, imp := range scope.File.Imports {
			if imp.Wildcard || imp.Name() != name[0] {
				continue
			}
			qn := imp.Path
			if rest != "" {
				qn += "." + rest
			}
			if sym, ok := s.byName[qn]; ok {
				return sym, true
			}
		}
		if scope.File.Package != "" {
			if sym, ok := s.byName[scope.File.Package+"."+joined]; ok {
				return sym, true
			}
		}
		for _, imp := range scope.File.Imports {
			if !imp.Wildcard {
				continue
			}
			if sym, ok := s.byName[imp.Path+"."+joined]; ok {
				return sym, true
			}
		}
	}
	sym, ok := s.byName[joined]
	return sym, ok
}

func parentName(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[:i]
	}
	return ""
}

// Types in java.lang and kotlin that are visible without imports, for
// qualifying class literals.
var (
	javaLangTypes = names("Object", "String", "Class", "Integer", "Long", "Short",
		"Byte", "Character", "Boolean", "Double", "Float", "Number", "Void",
		"Enum", "Record", "Runnable", "Thread", "Throwable", "Exception",
		"Error", "RuntimeException", "Iterable", "Comparable", "CharSequence",
		"Math", "System", "Override", "Deprecated", "SuppressWarnings",
		"FunctionalInterface", "SafeVarargs", "Cloneable", "AutoCloseable")
	kotlinTypes = names("Any", "Unit", "Nothing", "String", "Int", "Long",
		"Short", "Byte", "Char", "Boolean", "Double", "Float", "Number",
		"Enum", "Annotation", "Throwable", "Comparable", "CharSequence",
		"Array", "IntArray", "LongArray", "ShortArray", "ByteArray",
		"CharArray", "BooleanArray", "DoubleArray", "FloatArray")
)

func names(n ...string) map[string]bool {
	m := make(map[string]bool, len(n))
	for _, s := range n {
		m[s] = true
	}
	return m
}

// qualifyClassName returns the qualified name for a class literal. Unknown
// simple names are assumed to live in the file's package.
func qualifyClassName(scope Scope, symbols SymbolResolver, name []string) string {
	if sym, ok := symbols.ResolveType(scope, name); ok {
		return sym.Name
	}
	joined := strings.Join(name, ".")
	if scope.File != nil {
		for _, imp := range scope.File.Imports {
			if !imp.Wildcard && imp.Name() == name[0] {
				if len(name) == 1 {
					return imp.Path
				}
				return imp.Path + "." + strings.Join(name[1:], ".")
			}
		}
	}
	if len(name) > 1 {
		return joined
	}
	switch scope.dialect() {
	case parser.Java:
		if javaLangTypes[joined] {
			return "java.lang." + joined
		}
		if _, ok := javaPrimitives[joined]; ok || joined == "void" {
			return joined
		}
	case parser.Kotlin:
		if kotlinTypes[joined] {
			return "kotlin." + joined
		}
	}
	if scope.File != nil && scope.File.Package != "" {
		return scope.File.Package + "." + joined
	}
	return joined
}
