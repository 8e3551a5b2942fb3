// api/names.go
package api

import (
	"strings"

	"verbena/internal/runtime"
)

// TableByName ищет таблицу сначала точно, потом без учёта регистра.
// Регистронезависимое совпадение должно быть единственным.
func (s *Site) TableByName(name string) (*runtime.Table, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}
	if t, ok := runtime.Find(s.Tables, name); ok {
		return t, true
	}
	var found *runtime.Table
	for _, t := range s.Tables {
		if strings.EqualFold(t.Name, name) {
			if found != nil { // неуникально
				return nil, false
			}
			found = t
		}
	}
	return found, found != nil
}
