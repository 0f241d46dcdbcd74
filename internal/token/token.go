package token

import "fmt"

// Token is the source context attached to nodes, symbols and diagnostics.
// The analyzer never reads source text; Lexeme only carries the spelling
// the front end saw, for messages.
type Token struct {
	File   string
	Line   int
	Column int
	Lexeme string
}

// Synthetic marks symbols and nodes that do not come from source, such as
// prelude declarations.
var Synthetic = Token{Line: -1, Column: -1}

// IsSynthetic reports whether t is the not-from-source sentinel.
func (t Token) IsSynthetic() bool {
	return t.Line < 0
}

// Position renders file:line:col, omitting what is unknown.
func (t Token) Position() string {
	if t.IsSynthetic() {
		return "<prelude>"
	}
	if t.File == "" {
		return fmt.Sprintf("%d:%d", t.Line, t.Column)
	}
	return fmt.Sprintf("%s:%d:%d", t.File, t.Line, t.Column)
}

// Before orders tokens by file, line and column.
func (t Token) Before(other Token) bool {
	if t.File != other.File {
		return t.File < other.File
	}
	if t.Line != other.Line {
		return t.Line < other.Line
	}
	return t.Column < other.Column
}
