package reference

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tag: числовой идентификатор тега страничного DSL.
type Tag int

// Теги, которые генератор страниц обрабатывает особо.
const (
	GridTag  = "grid"
	LinkTag  = "link"
	FieldTag = "field"
)

// TagFile описывает файл реестра тегов
type TagFile struct {
	Name string         `yaml:"name"`
	Tags map[string]int `yaml:"tags"`
}

// Tags: реестр тегов, имя -> идентификатор и обратно.
type Tags struct {
	Name   string
	byName map[string]Tag
	names  map[Tag]string
}

//go:embed tags.yaml
var defaultTags []byte

// DefaultTags возвращает встроенный реестр (tags.yaml рядом с компилятором).
func DefaultTags() *Tags {
	t, err := ParseTags(defaultTags)
	if err != nil {
		panic("reference: embedded tags.yaml: " + err.Error())
	}
	return t
}

// ParseTags разбирает YAML реестра и проверяет, что идентификаторы уникальны и положительны.
func ParseTags(data []byte) (*Tags, error) {
	var f TagFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if len(f.Tags) == 0 {
		return nil, fmt.Errorf("tag registry %q has no tags", f.Name)
	}
	t := &Tags{
		Name:   f.Name,
		byName: make(map[string]Tag, len(f.Tags)),
		names:  make(map[Tag]string, len(f.Tags)),
	}
	// стабильно: по имени, чтобы сообщение о дубликате не зависело от порядка map
	keys := make([]string, 0, len(f.Tags))
	for k := range f.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, name := range keys {
		id := Tag(f.Tags[name])
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("tag registry %q: empty tag name", f.Name)
		}
		if id <= 0 {
			return nil, fmt.Errorf("tag registry %q: tag %q has non-positive id %d", f.Name, name, id)
		}
		if prev, dup := t.names[id]; dup {
			return nil, fmt.Errorf("tag registry %q: tags %q and %q share id %d", f.Name, prev, name, id)
		}
		t.byName[name] = id
		t.names[id] = name
	}
	return t, nil
}

// LoadTags читает реестр из файла; пустой путь: встроенный реестр.
func LoadTags(path string) (*Tags, error) {
	if path == "" {
		return DefaultTags(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := ParseTags(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	// Имя реестра: из файла или из имени файла
	if t.Name == "" {
		t.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return t, nil
}

// Lookup ищет тег по имени.
func (t *Tags) Lookup(name string) (Tag, bool) {
	id, ok := t.byName[name]
	return id, ok
}

// NameOf возвращает имя тега ("" для неизвестного).
func (t *Tags) NameOf(id Tag) string {
	return t.names[id]
}

func (t *Tags) Len() int { return len(t.byName) }
