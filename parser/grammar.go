package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// The grammars below only model what is needed to find annotation
// declarations, enum declarations, and annotation usages. Everything else
// (method bodies, initializers, supertypes) is recognized just well enough to
// be skipped.

var (
	javaGrammar = participle.MustBuild[javaFile](
		participle.Lexer(sourceLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.UseLookahead(4),
	)
	kotlinGrammar = participle.MustBuild[kotlinFile](
		participle.Lexer(sourceLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.UseLookahead(4),
	)
)

// Shared nodes

type qualifiedIdent struct {
	Pos   lexer.Position
	Parts []string `parser:"@Ident ( '.' @Ident )*"`
}

type importNode struct {
	Pos    lexer.Position
	Static bool     `parser:"@'static'?"`
	Parts  []string `parser:"@Ident ( '.' ( @Ident | @'*' ) )*"`
	Alias  string   `parser:"( 'as' @Ident )?"`
}

type usageNode struct {
	Pos     lexer.Position
	Site    string     `parser:"'@' ( @( 'field' | 'get' | 'set' | 'param' | 'property' | 'setparam' | 'delegate' | 'receiver' ) ':' )?"`
	Name    []string   `parser:"@Ident ( '.' @Ident )*"`
	HasArgs bool       `parser:"( @'('"`
	Args    []*argNode `parser:"  ( @@ ( ',' @@ )* ','? )? ')' )?"`
}

type argNode struct {
	Pos   lexer.Position
	Name  string    `parser:"( @Ident '=' )?"`
	Value *exprNode `parser:"@@"`
}

type exprNode struct {
	Pos     lexer.Position
	Unary   *unaryNode   `parser:"  @@"`
	Paren   *exprNode    `parser:"| '(' @@ ')'"`
	Array   *arrayNode   `parser:"| @@"`
	Call    *callNode    `parser:"| @@"`
	Literal *literalNode `parser:"| @@"`
	Nested  *usageNode   `parser:"| @@"`
	Ref     *refNode     `parser:"| @@"`
}

type unaryNode struct {
	Pos     lexer.Position
	Op      string    `parser:"@( '-' | '+' )"`
	Operand *exprNode `parser:"@@"`
}

type arrayNode struct {
	Pos   lexer.Position
	Open  string      `parser:"@( '{' | '[' )"`
	Elems []*exprNode `parser:"( @@ ( ',' @@ )* ','? )? ( '}' | ']' )"`
}

type callNode struct {
	Pos     lexer.Position
	Func    string      `parser:"@( 'booleanArrayOf' | 'byteArrayOf' | 'charArrayOf' | 'doubleArrayOf' | 'floatArrayOf' | 'intArrayOf' | 'longArrayOf' | 'shortArrayOf' | 'arrayOf' | 'emptyArray' )"`
	TypeArg *kotlinType `parser:"( '<' @@ '>' )?"`
	Elems   []*exprNode `parser:"'(' ( @@ ( ',' @@ )* ','? )? ')'"`
}

type literalNode struct {
	Pos   lexer.Position
	Float string `parser:"  @Float"`
	Int   string `parser:"| @Int"`
	Str   string `parser:"| @( String | RawString )"`
	Char  string `parser:"| @Char"`
	Bool  string `parser:"| @( 'true' | 'false' )"`
	Null  bool   `parser:"| @'null'"`
}

type refNode struct {
	Pos    lexer.Position
	Parts  []string `parser:"@Ident ( '.' @Ident )*"`
	KClass bool     `parser:"( '::' @'class' )?"`
}

type enumConstantNode struct {
	Pos    lexer.Position
	Usages []*usageNode `parser:"@@*"`
	Name   string       `parser:"@Ident"`
	Args   *skipParens  `parser:"@@?"`
	Body   *skipBlock   `parser:"@@?"`
}

type skipBlock struct {
	Pos   lexer.Position
	Items []*skipItem `parser:"'{' @@* '}'"`
}

type skipParens struct {
	Pos   lexer.Position
	Items []*skipItem `parser:"'(' @@* ')'"`
}

type skipItem struct {
	Block  *skipBlock  `parser:"  @@"`
	Parens *skipParens `parser:"| @@"`
	Token  string      `parser:"| @~( '{' | '}' | '(' | ')' )"`
}

// statementItem is like skipItem but stops at a semicolon.
type statementItem struct {
	Block  *skipBlock  `parser:"  @@"`
	Parens *skipParens `parser:"| @@"`
	Token  string      `parser:"| @~( ';' | '{' | '}' | '(' | ')' )"`
}

// Java

type javaFile struct {
	Package *qualifiedIdent `parser:"( 'package' @@ ';' )?"`
	Imports []*importNode   `parser:"( 'import' @@ ';' )*"`
	Decls   []*javaDecl     `parser:"@@*"`
}

type javaDecl struct {
	Pos        lexer.Position
	Usages     []*usageNode    `parser:"@@*"`
	Modifiers  []string        `parser:"@( 'public' | 'protected' | 'private' | 'static' | 'final' | 'abstract' | 'native' | 'synchronized' | 'transient' | 'volatile' | 'strictfp' | 'default' | 'sealed' )*"`
	Annotation *javaAnnotation `parser:"(   @@"`
	Enum       *javaEnum       `parser:"  | @@"`
	Class      *javaClass      `parser:"  | @@"`
	Init       *skipBlock      `parser:"  | @@"`
	Empty      bool            `parser:"  | @';'"`
	Member     *javaMember     `parser:"  | @@ )"`
}

type javaAnnotation struct {
	Pos     lexer.Position
	Name    string      `parser:"AtInterface @Ident"`
	Members []*javaDecl `parser:"'{' @@* '}'"`
}

type javaEnum struct {
	Pos       lexer.Position
	Name      string              `parser:"'enum' @Ident ( ~'{' )*"`
	Constants []*enumConstantNode `parser:"'{' ( @@ ','? )*"`
	Body      []*javaDecl         `parser:"( ';' @@* )? '}'"`
}

type javaClass struct {
	Pos     lexer.Position
	Kind    string      `parser:"@( 'class' | 'interface' | 'record' )"`
	Name    string      `parser:"@Ident ( ~'{' )*"`
	Members []*javaDecl `parser:"'{' @@* '}'"`
}

type javaMember struct {
	Pos    lexer.Position
	Type   *javaType   `parser:"@@"`
	Name   string      `parser:"@Ident?"`
	Method *javaMethod `parser:"(   @@"`
	Field  *javaField  `parser:"  | @@ )"`
}

type javaMethod struct {
	Pos     lexer.Position
	Params  *skipParens `parser:"@@"`
	Dims    []string    `parser:"( @'[' ']' )*"`
	Default *exprNode   `parser:"( 'default' @@ )?"`
	Body    *skipBlock  `parser:"( 'throws' ( ~( '{' | ';' ) )* )? ( @@ | ';' )"`
}

type javaField struct {
	Pos  lexer.Position
	Rest []*statementItem `parser:"@@* ';'"`
}

type javaType struct {
	Pos  lexer.Position
	Name []string       `parser:"@Ident ( '.' @Ident )*"`
	Args []*javaTypeArg `parser:"( '<' ( @@ ( ',' @@ )* )? '>' )?"`
	Dims []string       `parser:"( @'[' ']' )*"`
}

type javaTypeArg struct {
	Pos      lexer.Position
	Wildcard bool      `parser:"(   @'?'"`
	Variance string    `parser:"    ( @( 'extends' | 'super' )"`
	Bound    *javaType `parser:"      @@ )?"`
	Type     *javaType `parser:"  | @@ )"`
}

// Kotlin

type kotlinFile struct {
	FileUsages []*fileUsageNode `parser:"@@*"`
	Package    *qualifiedIdent  `parser:"( 'package' @@ ';'? )?"`
	Imports    []*importNode    `parser:"( 'import' @@ ';'? )*"`
	Decls      []*kotlinDecl    `parser:"@@*"`
}

type fileUsageNode struct {
	Pos  lexer.Position
	Name []string    `parser:"'@' 'file' ':' @Ident ( '.' @Ident )*"`
	Args *skipParens `parser:"@@?"`
}

type kotlinDecl struct {
	Pos        lexer.Position
	Usages     []*usageNode      `parser:"@@*"`
	Modifiers  []string          `parser:"@( 'public' | 'private' | 'internal' | 'protected' | 'open' | 'abstract' | 'final' | 'data' | 'sealed' | 'inline' | 'value' | 'override' | 'lateinit' | 'const' | 'companion' | 'inner' | 'suspend' | 'operator' | 'infix' | 'tailrec' | 'external' | 'expect' | 'actual' )*"`
	Annotation *kotlinAnnotation `parser:"(   @@"`
	Enum       *kotlinEnum       `parser:"  | @@"`
	Class      *kotlinClass      `parser:"  | @@"`
	Func       *kotlinFunc       `parser:"  | @@"`
	Property   *kotlinProperty   `parser:"  | @@"`
	Init       *skipBlock        `parser:"  | 'init' @@"`
	Empty      bool              `parser:"  | @';' )"`
}

type kotlinAnnotation struct {
	Pos       lexer.Position
	Name      string         `parser:"'annotation' 'class' @Ident"`
	HasParams bool           `parser:"( @'('"`
	Params    []*kotlinParam `parser:"  ( @@ ( ',' @@ )* ','? )? ')' )?"`
	Body      []*kotlinDecl  `parser:"( '{' @@* '}' )?"`
}

type kotlinParam struct {
	Pos     lexer.Position
	Usages  []*usageNode `parser:"@@*"`
	Name    string       `parser:"'val' @Ident"`
	Type    *kotlinType  `parser:"':' @@"`
	Default *exprNode    `parser:"( '=' @@ )?"`
}

type kotlinEnum struct {
	Pos       lexer.Position
	Name      string              `parser:"'enum' 'class' @Ident"`
	Ctor      *skipParens         `parser:"@@? ( ':' ( ~'{' )* )?"`
	Constants []*enumConstantNode `parser:"'{' ( @@ ','? )*"`
	Body      []*kotlinDecl       `parser:"( ';' @@* )? '}'"`
}

type kotlinClass struct {
	Pos     lexer.Position
	Kind    string         `parser:"@( 'class' | 'object' | 'interface' )"`
	Name    string         `parser:"@Ident? ( '<' ( ~'>' )* '>' )?"`
	Ctor    *skipParens    `parser:"( 'constructor'? @@ )?"`
	Supers  []*kotlinSuper `parser:"( ':' @@ ( ',' @@ )* )?"`
	Members []*kotlinDecl  `parser:"( '{' @@* '}' )?"`
}

type kotlinSuper struct {
	Pos  lexer.Position
	Type *kotlinType `parser:"@@"`
	Args *skipParens `parser:"@@?"`
}

type kotlinFunc struct {
	Pos    lexer.Position
	Name   []string    `parser:"'fun' ( '<' ( ~'>' )* '>' )? @Ident ( '.' @Ident )*"`
	Params *skipParens `parser:"@@"`
	Result *kotlinType `parser:"( ':' @@ )?"`
	Body   *skipBlock  `parser:"@@?"`
}

type kotlinProperty struct {
	Pos     lexer.Position
	Kind    string      `parser:"@( 'val' | 'var' )"`
	Name    string      `parser:"@Ident"`
	Type    *kotlinType `parser:"( ':' @@ )?"`
	Initial *exprNode   `parser:"( '=' @@ )?"`
}

type kotlinType struct {
	Pos      lexer.Position
	Name     []string         `parser:"@Ident ( '.' @Ident )*"`
	Args     []*kotlinTypeArg `parser:"( '<' @@ ( ',' @@ )* '>' )?"`
	Nullable bool             `parser:"@'?'?"`
}

type kotlinTypeArg struct {
	Pos      lexer.Position
	Star     bool        `parser:"(   @'*'"`
	Variance string      `parser:"  | @( 'out' | 'in' )?"`
	Type     *kotlinType `parser:"    @@ )"`
}
