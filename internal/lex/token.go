package lex

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// Kind классифицирует лексему.
type Kind int

const (
	EOF Kind = iota
	Word
	Punct
	Number
	Quote
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Word:
		return "Word"
	case Punct:
		return "Punct"
	case Number:
		return "Number"
	case Quote:
		return "Quote"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token: одна лексема вместе с позицией в исходнике.
type Token struct {
	Kind Kind
	Text string
	Pos  lexer.Position
}

// Line: номер строки (с 1).
func (t Token) Line() int { return t.Pos.Line }

// Is сообщает, что t является знаком пунктуации s
func (t Token) Is(s string) bool { return t.Kind == Punct && t.Text == s }

// IsWord сообщает, что t является словом w
func (t Token) IsWord(w string) bool { return t.Kind == Word && t.Text == w }

// describe: представление токена для сообщений об ошибках
func (t Token) describe() string {
	switch t.Kind {
	case EOF:
		return "end of input"
	case Quote:
		return fmt.Sprintf("%q", t.Text)
	}
	return "'" + t.Text + "'"
}

func (t Token) String() string {
	return fmt.Sprintf("<%v %q %s>", t.Kind, t.Text, t.Pos)
}
