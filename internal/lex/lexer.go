package lex

import (
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer разбирает текст DSL целиком из памяти. Состояние (курсор, строка, текущий
// токен) принадлежит значению Lexer, поэтому независимые файлы можно разбирать параллельно.
type Lexer struct {
	filename string
	src      string
	pos      int
	line     int
	lineAt   int // смещение начала текущей строки

	Tok Token
}

// New создаёт лексер и сразу читает первый токен.
func New(filename, src string) (*Lexer, error) {
	l := &Lexer{filename: filename, src: src, line: 1}
	if err := l.Next(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Lexer) position(offset int) lexer.Position {
	return lexer.Position{
		Filename: l.filename,
		Offset:   offset,
		Line:     l.line,
		Column:   offset - l.lineAt + 1,
	}
}

func (l *Lexer) newline(at int) {
	l.line++
	l.lineAt = at + 1
}

func (l *Lexer) peek(i int) byte {
	if i < len(l.src) {
		return l.src[i]
	}
	return 0
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdent(c byte) bool { return isIdentStart(c) || isDigit(c) }

// Next пропускает пробелы и комментарии и читает следующую лексему в l.Tok.
func (l *Lexer) Next() error {
	for {
		s := l.pos
		if s >= len(l.src) {
			l.Tok = Token{Kind: EOF, Pos: l.position(s)}
			return nil
		}
		c := l.src[s]
		switch {
		case c == '\n':
			l.newline(s)
			l.pos = s + 1
			continue
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			l.pos = s + 1
			continue
		case c == '/' && l.peek(s+1) == '/':
			// до конца строки; сам '\n' посчитаем на следующей итерации
			if i := strings.IndexByte(l.src[s:], '\n'); i >= 0 {
				l.pos = s + i
			} else {
				l.pos = len(l.src)
			}
			continue
		case c == '/' && l.peek(s+1) == '*':
			if err := l.blockComment(s); err != nil {
				return err
			}
			continue
		case isIdentStart(c):
			e := s + 1
			for e < len(l.src) && isIdent(l.src[e]) {
				e++
			}
			l.emit(Word, s, e, l.src[s:e])
			return nil
		case isDigit(c):
			e := s + 1
			for e < len(l.src) && isIdent(l.src[e]) {
				e++
			}
			if l.peek(e) == '.' {
				e++
				for e < len(l.src) && isIdent(l.src[e]) {
					e++
				}
			}
			l.emit(Number, s, e, l.src[s:e])
			return nil
		case c == '"' || c == '\'':
			return l.quote(s)
		}
		_, size := utf8.DecodeRuneInString(l.src[s:])
		l.emit(Punct, s, s+size, l.src[s:s+size])
		return nil
	}
}

func (l *Lexer) emit(kind Kind, start, end int, text string) {
	l.Tok = Token{Kind: kind, Text: text, Pos: l.position(start)}
	l.pos = end
}

func (l *Lexer) blockComment(start int) error {
	pos := l.position(start)
	for i := start + 2; i < len(l.src); i++ {
		switch l.src[i] {
		case '\n':
			l.newline(i)
		case '*':
			if l.peek(i+1) == '/' {
				l.pos = i + 2
				return nil
			}
		}
	}
	return Errorf(Lexical, pos, "unclosed block comment")
}

// quote читает литерал в кавычках. Обратная косая черта экранирует следующий символ:
// оба пропускаются, в текст попадает только экранированный символ.
func (l *Lexer) quote(start int) error {
	pos := l.position(start)
	q := l.src[start]
	var sb strings.Builder
	i := start + 1
	for {
		if i >= len(l.src) || l.src[i] == '\n' {
			return Errorf(Lexical, pos, "unclosed quote")
		}
		c := l.src[i]
		if c == q {
			break
		}
		if c == '\\' {
			if i+1 >= len(l.src) || l.src[i+1] == '\n' {
				return Errorf(Lexical, pos, "unclosed quote")
			}
			sb.WriteByte(l.src[i+1])
			i += 2
			continue
		}
		sb.WriteByte(c)
		i++
	}
	l.Tok = Token{Kind: Quote, Text: sb.String(), Pos: pos}
	l.pos = i + 1
	return nil
}

// Errorf: синтаксическая ошибка на текущем токене с его представлением.
func (l *Lexer) Errorf(format string, args ...any) *Error {
	e := Errorf(Syntax, l.Tok.Pos, format, args...)
	e.Msg = l.Tok.describe() + ": " + e.Msg
	return e
}

// Eat съедает знак пунктуации s, если он текущий.
func (l *Lexer) Eat(s string) (bool, error) {
	if !l.Tok.Is(s) {
		return false, nil
	}
	return true, l.Next()
}

// EatWord съедает слово w, если оно текущее.
func (l *Lexer) EatWord(w string) (bool, error) {
	if !l.Tok.IsWord(w) {
		return false, nil
	}
	return true, l.Next()
}

// Expect требует знак пунктуации s.
func (l *Lexer) Expect(s string) error {
	ok, err := l.Eat(s)
	if err != nil {
		return err
	}
	if !ok {
		return l.Errorf("expected '%s'", s)
	}
	return nil
}

// ExpectWord требует ключевое слово w.
func (l *Lexer) ExpectWord(w string) error {
	ok, err := l.EatWord(w)
	if err != nil {
		return err
	}
	if !ok {
		return l.Errorf("expected '%s'", w)
	}
	return nil
}

// Word читает идентификатор.
func (l *Lexer) Word() (Token, error) {
	if l.Tok.Kind != Word {
		return l.Tok, l.Errorf("expected word")
	}
	t := l.Tok
	return t, l.Next()
}

// Atom читает слово или число.
func (l *Lexer) Atom() (Token, error) {
	switch l.Tok.Kind {
	case Word, Number:
		t := l.Tok
		return t, l.Next()
	}
	return l.Tok, l.Errorf("expected word or number")
}
