package parser

import (
	"go/token"

	"github.com/alecthomas/participle/v2/lexer"
)

// sourceLexer tokenizes both Java and Kotlin sources. Rules are tried in
// order, so comments and "@interface" must come before punctuation and
// floating point literals must come before integers.
var sourceLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*|/\*(?s:.*?)\*/`},
	{Name: "AtInterface", Pattern: `@\s*interface\b`},
	{Name: "RawString", Pattern: `"""(?s:.*?)"""`},
	{Name: "String", Pattern: `"(\\.|[^"\\\n])*"`},
	{Name: "Char", Pattern: `'(\\u+[0-9a-fA-F]{4}|\\[0-7]{1,3}|\\.|[^'\\\n])'`},
	{Name: "Float", Pattern: `(\d[\d_]*\.\d[\d_]*|\.\d[\d_]*|\d[\d_]*)([eE][-+]?\d+)?[fFdD]|\d[\d_]*\.\d[\d_]*([eE][-+]?\d+)?|\.\d[\d_]*([eE][-+]?\d+)?|\d[\d_]*[eE][-+]?\d+`},
	{Name: "Int", Pattern: `0[xX][0-9a-fA-F][0-9a-fA-F_]*[lL]?|0[bB][01][01_]*[lL]?|\d[\d_]*[lL]?`},
	{Name: "Ident", Pattern: "[a-zA-Z_$][a-zA-Z0-9_$]*|`[^`\\n]+`"},
	{Name: "Punct", Pattern: `::|->|[-+*/%&|^!~?:;,.@=<>(){}\[\]#]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

func toPosition(p lexer.Position) token.Position {
	return token.Position{
		Filename: p.Filename,
		Offset:   p.Offset,
		Line:     p.Line,
		Column:   p.Column,
	}
}

// identName strips the backticks that Kotlin allows around identifiers.
func identName(s string) string {
	if len(s) >= 2 && s[0] == '`' && s[len(s)-1] == '`' {
		return s[1 : len(s)-1]
	}
	return s
}

func identNames(parts []string) []string {
	names := make([]string, len(parts))
	for i, p := range parts {
		names[i] = identName(p)
	}
	return names
}
