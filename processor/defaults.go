package processor

import (
	"github.com/jhump/annomodel/parser"
)

// Requirement describes whether a parameter must be supplied at each usage.
// It is either Required or HasDefault.
type Requirement interface {
	isRequirement()
}

// Required indicates a parameter that has no default value.
type Required struct{}

// HasDefault indicates a parameter whose declaration supplies a default. The
// default may be an empty array, which is distinct from Required.
type HasDefault struct {
	Value Value
}

func (Required) isRequirement()   {}
func (HasDefault) isRequirement() {}

// ResolveDefault resolves the default value of the given parameter
// declaration. The scope is the one in which the parameter is declared and is
// used to resolve enum and class names in the default expression.
func ResolveDefault(p *parser.ParamDecl, pt ParamType, scope Scope, symbols SymbolResolver) (Requirement, error) {
	if p.Default == nil {
		return Required{}, nil
	}
	cv := converter{scope: scope, symbols: symbols}
	v, err := cv.convert(p.Default, pt)
	if err != nil {
		return nil, withContext(err, scope.Enclosing, p.Name)
	}
	return HasDefault{Value: v}, nil
}
