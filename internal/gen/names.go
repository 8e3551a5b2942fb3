package gen

import (
	"go/token"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const pageSuffix = "-page"

// CamelCase: "customer-list-page" -> "customerListPage".
func CamelCase(s string) string {
	var sb strings.Builder
	upper := false
	for _, r := range s {
		if r == '-' {
			upper = true
			continue
		}
		if upper {
			sb.WriteString(strings.ToUpper(string(r)))
			upper = false
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// TitleCase: дефисы -> пробелы, слова с заглавной, остальное не трогаем
// ("customer-list" -> "Customer List", "deliveryAddress" -> "DeliveryAddress").
func TitleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	return cases.Title(language.Und, cases.NoLower).String(s)
}

// Exported делает первую букву заглавной.
func Exported(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Stem: имя файла без каталога и расширения.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Route возвращает идентификатор запроса страницы (stem без суффикса "-page").
func Route(stem string) string {
	return strings.TrimSuffix(stem, pageSuffix)
}

// FuncName: имя функции страницы; ключевые слова Go получают суффикс.
func FuncName(stem string) string {
	name := CamelCase(stem)
	if token.IsKeyword(name) {
		name += "Page"
	}
	return name
}

func isGoIdent(s string) bool {
	return token.IsIdentifier(s)
}
