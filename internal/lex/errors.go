package lex

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// ErrorKind: класс диагностики.
type ErrorKind int

const (
	Lexical ErrorKind = iota + 1
	Syntax
	Semantic
)

func (k ErrorKind) String() string {
	switch k {
	case Lexical:
		return "lexical"
	case Syntax:
		return "syntax"
	case Semantic:
		return "semantic"
	}
	return "unknown"
}

// Error: фатальная диагностика компилятора с позицией в исходнике.
type Error struct {
	Kind ErrorKind
	Pos  lexer.Position
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s error: %s", e.Pos, e.Kind, e.Msg)
}

// Errorf строит *Error заданного вида.
func Errorf(kind ErrorKind, pos lexer.Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// KindOf возвращает вид диагностики из цепочки ошибок (0, если это не *Error).
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
