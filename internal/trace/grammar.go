package trace

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// valueLexer tokenizes the small grammar spec.md §6 needs for the
// parenthesized parameter list and the value grammar, grounded on the
// teacher's stateful-lexer idiom (grammar/lexer.go) but reduced to the
// handful of token kinds this much smaller grammar requires.
var valueLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Decimal", `-?[0-9]*\.[0-9]+`, nil},
		{"Integer", `-?[0-9]+`, nil},
		{"Ident", `[A-Za-z_][A-Za-z0-9_]*`, nil},
		{"Punct", `[()#\[\],]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})

// ParamAST is one formal parameter in a "BEGIN(a, b[])"-style label
// suffix: a name, plus the "[]" suffix spec.md §6 says also signals
// sequence-ness.
type ParamAST struct {
	Name string `@Ident`
	Seq  bool   `( "[" "]" )?`
}

// ParamListAST is the comma-or-space-separated parameter list inside a
// label's parentheses (spec.md §6).
type ParamListAST struct {
	Params []*ParamAST `( @@ ( ","? @@ )* )?`
}

// ValueAST is the trace value grammar of spec.md §6: integers, decimals,
// the literal "uninit" (missing), "NIL" (treated as 0 by policy), and
// sequences "#( v1 v2 ... )".
type ValueAST struct {
	Seq     *SeqAST `(   @@`
	Uninit  bool    `  | @"uninit"`
	NilLit  bool    `  | @"NIL"`
	Decimal *string `  | @Decimal`
	Integer *string `  | @Integer )`
}

// SeqAST is a parenthesized, space-separated value sequence.
type SeqAST struct {
	Elems []*ValueAST `"#" "(" @@* ")"`
}

var (
	paramListParser = mustBuild[ParamListAST]()
	valueParser     = mustBuild[ValueAST]()
)

func mustBuild[T any]() *participle.Parser[T] {
	p, err := participle.Build[T](
		participle.Lexer(valueLexer),
		participle.Elide("Whitespace"),
	)
	if err != nil {
		panic(fmt.Errorf("trace: failed to build grammar: %w", err))
	}
	return p
}

// ParseParamList parses a label's parenthesized parameter list, e.g.
// "a, b[]" from "F:::BEGIN(a, b[])".
func ParseParamList(src string) (*ParamListAST, error) {
	return paramListParser.ParseString("", src)
}

// ParseValue parses one entry's value field per spec.md §6's value
// grammar.
func ParseValue(src string) (*ValueAST, error) {
	return valueParser.ParseString("", src)
}
