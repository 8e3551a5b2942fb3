// dsl/lint.go
package dsl

import (
	"fmt"
)

type SchemaIssue struct {
	Table   string `json:"table"`
	Field   string `json:"field,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Коды замечаний линтера
const (
	IssueNoKey           = "no_key"
	IssueRefTargetNotKey = "ref_target_not_key"
	IssueRefTypeIgnored  = "ref_type_ignored"
)

// Lint проверяет некритичные противоречия в схеме. Ничего не блокирует: CLI печатает
// замечания как предупреждения. Вызывать после Resolve.
func (s *Schema) Lint() []SchemaIssue {
	var issues []SchemaIssue

	for tid := range s.Tables {
		t := &s.Tables[tid]
		hasKey := false
		for _, fid := range t.Fields {
			f := &s.Fields[fid]
			if f.Key {
				hasKey = true
			}
			if f.Ref == NoTable {
				continue
			}

			// явный type= у ref-поля бесполезен: тип берётся из ключа цели
			if f.TypeSet {
				issues = append(issues, SchemaIssue{
					Table:   t.Name,
					Field:   f.Name,
					Code:    IssueRefTypeIgnored,
					Message: fmt.Sprintf("declared type is replaced by the key type of %s", f.RefName),
				})
			}

			// ссылка идёт на первое поле цели; хорошо бы, чтобы это был ключ
			target := &s.Tables[f.Ref]
			if first := &s.Fields[target.Fields[0]]; !first.Key {
				issues = append(issues, SchemaIssue{
					Table:   t.Name,
					Field:   f.Name,
					Code:    IssueRefTargetNotKey,
					Message: fmt.Sprintf("first field %s.%s of referenced table is not a key", target.Name, first.Name),
				})
			}
		}
		if !hasKey {
			issues = append(issues, SchemaIssue{
				Table:   t.Name,
				Code:    IssueNoKey,
				Message: "table has no key field",
			})
		}
	}
	return issues
}
