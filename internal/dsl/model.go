package dsl

import (
	"github.com/alecthomas/participle/v2/lexer"

	"verbena/internal/reference"
)

// Type: тип поля схемы (закрытый набор).
type Type string

const (
	Varchar  Type = "varchar"
	Text     Type = "text"
	Char     Type = "char"
	Integer  Type = "integer"
	Smallint Type = "smallint"
	Bigint   Type = "bigint"
	Date     Type = "date"
	Decimal  Type = "decimal"
)

var types = map[string]Type{
	"varchar": Varchar, "text": Text, "char": Char,
	"integer": Integer, "smallint": Smallint, "bigint": Bigint,
	"date": Date, "decimal": Decimal,
}

// ParseType ищет тип по имени из DSL.
func ParseType(s string) (Type, bool) {
	t, ok := types[s]
	return t, ok
}

// TableID и FieldID: индексы в арене Schema.
type (
	TableID int
	FieldID int
)

// NoTable: отсутствующая или ещё не разрешённая ссылка.
const NoTable TableID = -1

// Schema: арена таблиц и полей. Таблицы и поля создаются при разборе, меняются только
// при разрешении ссылок и дальше только читаются.
type Schema struct {
	Tables []Table
	Fields []Field
	// Order: топологический порядок: каждая таблица идёт после всех, на которые ссылается.
	Order []TableID

	byName map[string]TableID
}

// Table описывает таблицу из DSL
type Table struct {
	Name   string
	Pos    lexer.Position
	Fields []FieldID // порядок значим: это порядок колонок
	Deps   []TableID // таблицы, на которые ссылаются поля (без self-ссылок)
}

// Field описывает поле таблицы
type Field struct {
	Name      string
	Pos       lexer.Position
	Table     TableID
	Type      Type
	TypeSet   bool // тип задан явно через type=
	Size      int
	Generated bool
	Key       bool

	RefName string
	RefPos  lexer.Position
	Ref     TableID
}

// Table возвращает таблицу по индексу.
func (s *Schema) Table(id TableID) *Table { return &s.Tables[id] }

// Field возвращает поле по индексу.
func (s *Schema) Field(id FieldID) *Field { return &s.Fields[id] }

// Lookup ищет таблицу по имени.
func (s *Schema) Lookup(name string) (TableID, bool) {
	id, ok := s.byName[name]
	return id, ok
}

// Sorted возвращает таблицы в топологическом порядке.
func (s *Schema) Sorted() []*Table {
	out := make([]*Table, 0, len(s.Order))
	for _, id := range s.Order {
		out = append(out, s.Table(id))
	}
	return out
}

// TableFields возвращает поля таблицы в порядке объявления.
func (s *Schema) TableFields(t *Table) []*Field {
	out := make([]*Field, 0, len(t.Fields))
	for _, id := range t.Fields {
		out = append(out, s.Field(id))
	}
	return out
}

// FieldIndex: позиция колонки name в таблице t, -1 если нет.
func (s *Schema) FieldIndex(t *Table, name string) int {
	for i, id := range t.Fields {
		if s.Fields[id].Name == name {
			return i
		}
	}
	return -1
}

// Element: узел AST страницы. Дети принадлежат только родителю.
type Element struct {
	Tag     reference.Tag
	TagName string
	Name    string
	Pos     lexer.Position

	From    string
	FromPos lexer.Position
	Ref     string

	// Текстовый узел: Tag == 0, TagName пустое.
	Text   string
	IsText bool

	Children []*Element
}

// Page: разобранный файл страницы.
type Page struct {
	File     string
	Elements []*Element
}
