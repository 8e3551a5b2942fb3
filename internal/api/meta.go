package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"verbena/internal/runtime"
)

// ===== META HANDLERS =====

type metaTableListItem struct {
	Table  string `json:"table"`
	Fields int    `json:"fields"`
}

// MetaListHandler: таблицы в порядке реестра (топологическом).
func MetaListHandler(site *Site) gin.HandlerFunc {
	return func(c *gin.Context) {
		out := make([]metaTableListItem, 0, len(site.Tables))
		for _, t := range site.Tables {
			out = append(out, metaTableListItem{Table: t.Name, Fields: len(t.Fields)})
		}
		c.JSON(http.StatusOK, out)
	}
}

type metaField struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Size      int    `json:"size,omitempty"`
	Generated bool   `json:"generated,omitempty"`
	Key       bool   `json:"key,omitempty"`
	Ref       string `json:"ref,omitempty"`
}

type metaTable struct {
	Table  string      `json:"table"`
	Keys   []string    `json:"keys"`
	Fields []metaField `json:"fields"`
}

func describe(t *runtime.Table) metaTable {
	m := metaTable{Table: t.Name, Keys: []string{}, Fields: make([]metaField, 0, len(t.Fields))}
	for _, k := range t.Keys() {
		m.Keys = append(m.Keys, k.Name)
	}
	for _, f := range t.Fields {
		mf := metaField{
			Name:      f.Name,
			Type:      f.Type.String(),
			Size:      f.Size,
			Generated: f.Generated,
			Key:       f.Key,
		}
		if f.Ref != nil {
			mf.Ref = f.Ref.Name
		}
		m.Fields = append(m.Fields, mf)
	}
	return m
}

func MetaTableHandler(site *Site) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, ok := site.TableByName(c.Param("table"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
			return
		}
		c.JSON(http.StatusOK, describe(t))
	}
}

// MetaPagesHandler: маршруты страниц.
func MetaPagesHandler(site *Site) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pages": site.Pages})
	}
}
