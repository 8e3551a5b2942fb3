// Package runtime содержит то, на что опирается сгенерированный код: дескрипторы
// таблиц, доступ к базе и диспетчеризацию страниц.
package runtime

// Type: тег типа колонки в дескрипторе таблицы.
type Type int

const (
	Varchar Type = iota
	Text
	Char
	Integer
	Smallint
	Bigint
	Date
	Decimal
)

func (t Type) String() string {
	switch t {
	case Varchar:
		return "varchar"
	case Text:
		return "text"
	case Char:
		return "char"
	case Integer:
		return "integer"
	case Smallint:
		return "smallint"
	case Bigint:
		return "bigint"
	case Date:
		return "date"
	case Decimal:
		return "decimal"
	}
	return "unknown"
}

// Field: колонка таблицы.
type Field struct {
	Name      string
	Type      Type
	Size      int
	Generated bool // значение назначает хранилище
	Key       bool
	Ref       *Table
}

// Table: дескриптор таблицы; порядок Fields совпадает с порядком колонок.
type Table struct {
	Name   string
	Fields []Field
}

// Keys возвращает ключевые поля в порядке колонок.
func (t *Table) Keys() []Field {
	var out []Field
	for _, f := range t.Fields {
		if f.Key {
			out = append(out, f)
		}
	}
	return out
}

// Field ищет колонку по имени.
func (t *Table) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Find ищет таблицу в реестре по имени.
func Find(tables []*Table, name string) (*Table, bool) {
	for _, t := range tables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}
