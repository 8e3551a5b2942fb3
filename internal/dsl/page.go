package dsl

import (
	"fmt"
	"os"

	"verbena/internal/lex"
	"verbena/internal/reference"
)

type pageParser struct {
	lx   *lex.Lexer
	tags *reference.Tags
}

// ParsePage разбирает файл страницы; теги берутся из реестра tags.
func ParsePage(filename, src string, tags *reference.Tags) (*Page, error) {
	lx, err := lex.New(filename, src)
	if err != nil {
		return nil, err
	}
	p := &pageParser{lx: lx, tags: tags}
	page := &Page{File: filename}
	for lx.Tok.Kind != lex.EOF {
		e, err := p.element()
		if err != nil {
			return nil, err
		}
		page.Elements = append(page.Elements, e)
	}
	return page, nil
}

// LoadPage читает файл страницы целиком и разбирает его.
func LoadPage(path string, tags *reference.Tags) (*Page, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	return ParsePage(path, string(b), tags)
}

// element := tagword [ident] "{" (attr | text | element)* "}"
func (p *pageParser) element() (*Element, error) {
	lx := p.lx
	word, err := lx.Word()
	if err != nil {
		return nil, err
	}
	tag, ok := p.tags.Lookup(word.Text)
	if !ok {
		return nil, lex.Errorf(lex.Semantic, word.Pos, "%q: unknown tag", word.Text)
	}
	e := &Element{Tag: tag, TagName: word.Text, Pos: word.Pos}
	if lx.Tok.Kind == lex.Word {
		name, err := lx.Word()
		if err != nil {
			return nil, err
		}
		e.Name = name.Text
	}
	if err := lx.Expect("{"); err != nil {
		return nil, err
	}
	for {
		closed, err := lx.Eat("}")
		if err != nil {
			return nil, err
		}
		if closed {
			return e, nil
		}

		// атрибуты пробуем первыми, всё остальное: вложенный элемент
		matched, err := p.attr(e)
		if err != nil {
			return nil, err
		}
		if matched {
			continue
		}

		if lx.Tok.Kind == lex.Quote {
			text := &Element{IsText: true, Text: lx.Tok.Text, Pos: lx.Tok.Pos}
			if err := lx.Next(); err != nil {
				return nil, err
			}
			if err := lx.Expect(";"); err != nil {
				return nil, err
			}
			e.Children = append(e.Children, text)
			continue
		}

		child, err := p.element()
		if err != nil {
			return nil, err
		}
		e.Children = append(e.Children, child)
	}
}

// attr := "from" "=" ident ";" | "ref" "=" ident ";"
func (p *pageParser) attr(e *Element) (bool, error) {
	lx := p.lx
	var dst *string
	switch {
	case lx.Tok.IsWord("from"):
		dst = &e.From
		e.FromPos = lx.Tok.Pos
	case lx.Tok.IsWord("ref"):
		dst = &e.Ref
	default:
		return false, nil
	}
	if err := lx.Next(); err != nil {
		return true, err
	}
	if err := lx.Expect("="); err != nil {
		return true, err
	}
	v, err := lx.Word()
	if err != nil {
		return true, err
	}
	*dst = v.Text
	return true, lx.Expect(";")
}
