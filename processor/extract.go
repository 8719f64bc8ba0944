package processor

import (
	"go/token"

	"github.com/jhump/annomodel/parser"
)

// AnnotationInstance is a fully-resolved usage of an annotation: a value for
// every parameter of its schema, either supplied at the usage or defaulted.
type AnnotationInstance struct {
	schema     *AnnotationSchema
	target     string
	targetKind parser.ElementKind
	pos        token.Position
	values     []Value
	defaulted  []bool
}

// NamedValue is a parameter value in an instance, along with its name.
type NamedValue struct {
	Name  string
	Value Value
	// Default is true if the usage did not supply the value.
	Default bool
}

// Schema returns the schema for the annotation. It is shared by all
// instances of the same annotation.
func (a *AnnotationInstance) Schema() *AnnotationSchema {
	return a.schema
}

// Target returns the qualified name of the annotated element.
func (a *AnnotationInstance) Target() string {
	return a.target
}

func (a *AnnotationInstance) TargetKind() parser.ElementKind {
	return a.targetKind
}

// Pos returns the location of the usage.
func (a *AnnotationInstance) Pos() token.Position {
	return a.pos
}

func (a *AnnotationInstance) Len() int {
	return len(a.values)
}

// Names returns the parameter names in declaration order.
func (a *AnnotationInstance) Names() []string {
	names := make([]string, len(a.schema.params))
	for i := range a.schema.params {
		names[i] = a.schema.params[i].Name
	}
	return names
}

// Get returns the value of the named parameter.
func (a *AnnotationInstance) Get(name string) (Value, bool) {
	i, ok := a.schema.index[name]
	if !ok {
		return Value{}, false
	}
	return a.values[i], true
}

// IsDefault reports whether the named parameter took its default value.
func (a *AnnotationInstance) IsDefault(name string) bool {
	i, ok := a.schema.index[name]
	return ok && a.defaulted[i]
}

// Values returns all values in declaration order.
func (a *AnnotationInstance) Values() []NamedValue {
	vals := make([]NamedValue, len(a.values))
	for i := range a.values {
		vals[i] = NamedValue{
			Name:    a.schema.params[i].Name,
			Value:   a.values[i],
			Default: a.defaulted[i],
		}
	}
	return vals
}

// Extract resolves a usage of an annotation against its schema. Supplied
// values are converted to the parameter kinds; omitted parameters take their
// defaults. It returns an error if a required parameter is omitted or if a
// supplied value is unknown, repeated, or not valid for its parameter.
func Extract(schema *AnnotationSchema, usage *parser.Usage, symbols SymbolResolver) (*AnnotationInstance, error) {
	scope := Scope{File: usage.File, Enclosing: usage.Target}
	n := len(schema.params)
	inst := &AnnotationInstance{
		schema:     schema,
		target:     usage.Target,
		targetKind: usage.TargetKind,
		pos:        usage.Pos,
		values:     make([]Value, n),
		defaulted:  make([]bool, n),
	}
	supplied := make([]bool, n)
	cv := converter{scope: scope, symbols: symbols}

	for i, arg := range usage.Args {
		idx, err := argumentIndex(schema, scope.dialect(), usage, i)
		if err != nil {
			return nil, withContext(err, schema.name, "")
		}
		p := &schema.params[idx]
		if supplied[idx] {
			return nil, &DuplicateParameterError{location: location{annotation: schema.name, param: p.Name, pos: arg.Pos}}
		}
		v, err := cv.convert(arg.Value, p.Type)
		if err != nil {
			return nil, withContext(err, schema.name, p.Name)
		}
		inst.values[idx] = v
		supplied[idx] = true
	}

	for i := range schema.params {
		if supplied[i] {
			continue
		}
		p := &schema.params[i]
		d, ok := p.Default()
		if !ok {
			return nil, &MissingRequiredParameterError{
				location: location{annotation: schema.name, param: p.Name, pos: usage.Pos},
				Target:   usage.Target,
			}
		}
		inst.values[i] = d
		inst.defaulted[i] = true
	}
	return inst, nil
}

// argumentIndex finds the parameter to which the i-th argument of the usage
// applies. Java allows a single unnamed argument, for the "value" parameter.
// Kotlin allows positional arguments, but not after named ones.
func argumentIndex(schema *AnnotationSchema, dialect parser.Dialect, usage *parser.Usage, i int) (int, error) {
	arg := usage.Args[i]
	if arg.Name != "" {
		idx, ok := schema.index[arg.Name]
		if !ok {
			return 0, &UnknownParameterError{location: location{param: arg.Name, pos: arg.Pos}}
		}
		return idx, nil
	}
	if dialect == parser.Java {
		if len(usage.Args) > 1 {
			return 0, invalidValue(arg.Pos, Kind{}, "only a single argument may omit its name, and it is for \"value\"")
		}
		idx, ok := schema.index["value"]
		if !ok {
			return 0, &UnknownParameterError{location: location{param: "value", pos: arg.Pos}}
		}
		return idx, nil
	}
	for j := 0; j < i; j++ {
		if usage.Args[j].Name != "" {
			return 0, invalidValue(arg.Pos, Kind{}, "positional arguments must come before named arguments")
		}
	}
	if i >= len(schema.params) {
		return 0, invalidValue(arg.Pos, Kind{}, "too many arguments: annotation has %d parameters", len(schema.params))
	}
	return i, nil
}
