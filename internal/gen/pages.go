package gen

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/untillpro/goutils/logger"

	"verbena/internal/dsl"
	"verbena/internal/lex"
	"verbena/internal/pg"
	"verbena/internal/reference"
)

const (
	PagesFile = "pages.go"

	pagesTool = "compile-pages"
	mainRoute = "main"
)

// warnf: предупреждения генератора страниц; тесты подменяют.
var warnf = func(format string, args ...any) {
	logger.Warning(fmt.Sprintf(format, args...))
}

// void-элементы HTML не имеют закрывающего тега
var voidTags = map[string]bool{"input": true}

// PagesOptions: параметры генерации страниц.
type PagesOptions struct {
	Package string
	Schema  *dsl.Schema // для привязки grid к таблицам и колонкам
}

// pageWriter: генерация одной функции страницы. Подряд идущие статические фрагменты
// копятся в literals и выводятся одним o.WriteString перед ближайшим динамическим
// оператором или в конце функции.
type pageWriter struct {
	g        *Generator
	schema   *dsl.Schema
	literals []string
	stmts    int
	usesHTML bool
}

func (w *pageWriter) literal(s string) {
	w.literals = append(w.literals, s)
}

func (w *pageWriter) code(s string) {
	w.flush()
	w.g.Emit(s)
}

func (w *pageWriter) flush() {
	if len(w.literals) == 0 {
		return
	}
	w.g.Emit("o.WriteString(")
	for i, s := range w.literals {
		if i > 0 {
			w.g.Emit(" +\n")
		}
		w.g.Emit(strconv.Quote(s))
	}
	w.g.Emit(")\n")
	w.literals = w.literals[:0]
}

// compose обходит AST страницы.
func (w *pageWriter) compose(e *dsl.Element) error {
	if e.IsText {
		w.literal(html.EscapeString(e.Text))
		return nil
	}
	switch e.TagName {
	case reference.GridTag:
		return w.grid(e)
	case reference.LinkTag:
		if e.Ref == "" {
			return lex.Errorf(lex.Semantic, e.Pos, "link without ref")
		}
		w.literal(`<a href="` + html.EscapeString(e.Ref) + `">` + html.EscapeString(TitleCase(e.Ref)) + "</a>")
		return nil
	case reference.FieldTag:
		warnf("%s: field %s outside grid ignored", e.Pos, e.Name)
		return nil
	}

	// всё остальное: обычный контейнер разметки
	open := "<" + e.TagName
	if e.Name != "" {
		open += ` class="` + html.EscapeString(e.Name) + `"`
	}
	w.literal(open + ">")
	if voidTags[e.TagName] {
		return nil
	}
	for _, c := range e.Children {
		if err := w.compose(c); err != nil {
			return err
		}
	}
	w.literal("</" + e.TagName + ">")
	return nil
}

// grid: заголовок по полям, SELECT ровно этих полей из таблицы from, строка на запись.
func (w *pageWriter) grid(e *dsl.Element) error {
	if e.From == "" {
		return lex.Errorf(lex.Semantic, e.Pos, "grid without from")
	}
	tid, ok := w.schema.Lookup(e.From)
	if !ok {
		return lex.Errorf(lex.Semantic, e.FromPos, "grid from unknown table %q", e.From)
	}
	table := w.schema.Table(tid)
	// запрос пишется без кавычек
	if pg.IsReserved(table.Name) {
		return lex.Errorf(lex.Semantic, e.FromPos, "table name %q is an SQL reserved word", table.Name)
	}

	var fields []*dsl.Element
	for _, c := range e.Children {
		switch {
		case c.IsText:
			warnf("%s: text %q inside grid ignored", c.Pos, c.Text)
			continue
		case c.TagName != reference.FieldTag:
			warnf("%s: %s inside grid ignored", c.Pos, c.TagName)
			continue
		}
		if w.schema.FieldIndex(table, c.Name) < 0 {
			return lex.Errorf(lex.Semantic, c.Pos, "table %s has no field %q", table.Name, c.Name)
		}
		if pg.IsReserved(c.Name) {
			return lex.Errorf(lex.Semantic, c.Pos, "field name %q is an SQL reserved word", c.Name)
		}
		fields = append(fields, c)
	}
	if len(fields) == 0 {
		return lex.Errorf(lex.Semantic, e.Pos, "grid over %s has no fields", table.Name)
	}

	w.literal("<table>")

	// заголовок
	w.literal("<tr>")
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		w.literal("<th>")
		w.literal(html.EscapeString(TitleCase(f.Name)))
		w.literal("</th>")
		names = append(names, f.Name)
	}
	w.literal("</tr>")

	// sql
	query := "SELECT " + strings.Join(names, ",") + " FROM " + table.Name
	s := "s" + strconv.Itoa(w.stmts)
	w.stmts++
	w.code(fmt.Sprintf("%s, err := db.Prep(%s)\nif err != nil {\nreturn err\n}\n", s, strconv.Quote(query)))

	// строки
	w.code(fmt.Sprintf("for %s.Step() {\n", s))
	w.literal("<tr>")
	for i := range fields {
		w.literal("<td>")
		w.code(fmt.Sprintf("o.WriteString(html.EscapeString(%s.Get(%d)))\n", s, i))
		w.literal("</td>")
	}
	w.literal("</tr>")
	w.code("}\n")
	w.code(fmt.Sprintf("if err := runtime.Finish(%s); err != nil {\nreturn err\n}\n", s))
	w.usesHTML = true

	w.literal("</table>")
	return nil
}

// pageInfo: страница, готовая к генерации.
type pageInfo struct {
	page  *dsl.Page
	fn    string
	route string
}

// GeneratePages строит pages.go: по функции на страницу и точку входа Dispatch.
func GeneratePages(pages []*dsl.Page, opts PagesOptions) (Artifact, error) {
	infos := make([]pageInfo, 0, len(pages))
	routes := map[string]string{}
	// имена функций не должны совпадать друг с другом и с символами pages.go
	funcs := map[string]string{
		"Dispatch": "the dispatcher",
		"Pages":    "the route list",
		"html":     "an import",
		"io":       "an import",
		"runtime":  "an import",
	}
	for _, p := range pages {
		stem := Stem(p.File)
		info := pageInfo{page: p, fn: FuncName(stem), route: Route(stem)}
		if !isGoIdent(info.fn) {
			return Artifact{}, fmt.Errorf("%s: page name %q does not give a Go identifier", p.File, stem)
		}
		if prev, dup := routes[info.route]; dup {
			return Artifact{}, fmt.Errorf("%s: page %q already defined by %s", p.File, info.route, prev)
		}
		if prev, dup := funcs[info.fn]; dup {
			return Artifact{}, fmt.Errorf("%s: page function %s clashes with %s", p.File, info.fn, prev)
		}
		routes[info.route] = p.File
		funcs[info.fn] = p.File
		infos = append(infos, info)
	}

	var body Generator
	usesHTML := false
	for _, info := range infos {
		w := &pageWriter{g: &body, schema: opts.Schema}
		body.Emitf("func %s(db runtime.DB, o io.StringWriter) error {\n", info.fn)

		w.literal("<html>")
		w.literal("<head>")
		w.literal("<title>")
		w.literal(html.EscapeString(TitleCase(info.route)))
		w.literal("</title>")
		w.literal("</head>")
		w.literal("<body>")
		for _, e := range info.page.Elements {
			if err := w.compose(e); err != nil {
				return Artifact{}, err
			}
		}
		w.literal("</body>")
		w.literal("</html>")
		w.code("return nil\n")
		body.Emit("}\n\n")
		usesHTML = usesHTML || w.usesHTML
	}

	// диспетчер
	body.Emit("// Pages: маршруты страниц в порядке компиляции.\n")
	body.Emit("var Pages = []string{\n")
	for _, info := range infos {
		body.Emitf("%s,\n", strconv.Quote(info.route))
	}
	body.Emit("}\n\n")
	body.Emit("// Dispatch рисует страницу по идентификатору запроса.\n")
	body.Emit("func Dispatch(db runtime.DB, req string, o io.StringWriter) error {\n")
	body.Emit("switch req {\n")
	for _, info := range infos {
		if info.route == mainRoute {
			body.Emitf("case \"\", %s:\n", strconv.Quote(info.route))
		} else {
			body.Emitf("case %s:\n", strconv.Quote(info.route))
		}
		body.Emitf("return %s(db, o)\n", info.fn)
	}
	body.Emit("}\n")
	body.Emit("return runtime.ErrNoPage\n")
	body.Emit("}\n")

	var g Generator
	source := "pages"
	if len(pages) > 0 {
		source = pages[0].File
	}
	g.Header(pagesTool, source, opts.Package)
	if usesHTML {
		g.Imports("html", "io", "", RuntimeImport)
	} else {
		g.Imports("io", "", RuntimeImport)
	}
	g.Emit(body.buf.String())
	return g.Artifact(PagesFile)
}
