package filterexpr

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// exprLexer tokenizes filter expressions such as
//
//	status = "open" and (owner_id = currentUser.id or priority in ("high", "urgent"))
var exprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Number", Pattern: `-?\d+(?:\.\d+)?`},
	{Name: "Op", Pattern: `==|!=|<>|>=|<=|&&|\|\||[=<>]`},
	{Name: "Ident", Pattern: `[A-Za-z_$][A-Za-z0-9_]*`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Dot", Pattern: `\.`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})
