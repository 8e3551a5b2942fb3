package dsl

import (
	"strings"

	"verbena/internal/lex"
)

// Resolve связывает ref-поля с целевыми таблицами и строит граф зависимостей.
// Один проход по таблицам в порядке объявления; ссылки вперёд допустимы.
func (s *Schema) Resolve() error {
	for tid := range s.Tables {
		t := &s.Tables[tid]
		t.Deps = t.Deps[:0]
		for _, fid := range t.Fields {
			f := &s.Fields[fid]
			if f.RefName == "" {
				continue
			}
			target, ok := s.byName[f.RefName]
			if !ok {
				return lex.Errorf(lex.Semantic, f.RefPos, "unknown table %q referenced by field %s.%s", f.RefName, t.Name, f.Name)
			}
			f.Ref = target
			// self-ссылка не создаёт ребро: CREATE TABLE её допускает
			if target == TableID(tid) || containsTable(t.Deps, target) {
				continue
			}
			t.Deps = append(t.Deps, target)
		}
	}
	return nil
}

func containsTable(ids []TableID, id TableID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

const (
	unvisited = iota
	inProgress
	done
)

// Sort упорядочивает таблицы так, что зависимости идут раньше зависящих.
// Обход в глубину (postorder) от каждой таблицы в порядке объявления;
// повторный заход в таблицу, обход которой не завершён,: цикл.
func (s *Schema) Sort() error {
	state := make([]int, len(s.Tables))
	order := make([]TableID, 0, len(s.Tables))
	var path []TableID

	var visit func(id TableID) error
	visit = func(id TableID) error {
		switch state[id] {
		case done:
			return nil
		case inProgress:
			return s.cycleError(path, id)
		}
		state[id] = inProgress
		path = append(path, id)
		for _, dep := range s.Tables[id].Deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[id] = done
		order = append(order, id)
		return nil
	}

	for id := range s.Tables {
		if err := visit(TableID(id)); err != nil {
			return err
		}
	}
	s.Order = order
	return nil
}

// cycleError: path заканчивается таблицей, которая ссылается на id.
func (s *Schema) cycleError(path []TableID, id TableID) error {
	start := 0
	for i, x := range path {
		if x == id {
			start = i
			break
		}
	}
	names := make([]string, 0, len(path)-start+1)
	for _, x := range path[start:] {
		names = append(names, s.Tables[x].Name)
	}
	names = append(names, s.Tables[id].Name)

	// позиция: ref-поле последней таблицы пути, замыкающее цикл
	from := &s.Tables[path[len(path)-1]]
	pos := from.Pos
	for _, fid := range from.Fields {
		if s.Fields[fid].Ref == id {
			pos = s.Fields[fid].RefPos
			break
		}
	}
	return lex.Errorf(lex.Semantic, pos, "cyclic schema: %s", strings.Join(names, " -> "))
}

// Inherit копирует тип и размер первого (ключевого) поля целевой таблицы в ref-поля.
// Идём в топологическом порядке, поэтому цепочки ссылок получают итоговый тип ключа.
func (s *Schema) Inherit() {
	for _, tid := range s.Order {
		for _, fid := range s.Tables[tid].Fields {
			f := &s.Fields[fid]
			if f.Ref == NoTable {
				continue
			}
			key := s.Fields[s.Tables[f.Ref].Fields[0]]
			if key.Table == f.Table && key.Name == f.Name {
				// первое поле ссылается на свою же таблицу: наследовать нечего
				continue
			}
			f.Type = key.Type
			f.Size = key.Size
		}
	}
}
