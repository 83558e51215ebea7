package repository

import (
	"strings"

	"gorm.io/gorm"
)

// paginar applies offset/limit, falling back to 100 rows for an out-of-range limit.
func paginar(offset, limit int) func(*gorm.DB) *gorm.DB {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return func(db *gorm.DB) *gorm.DB { return db.Offset(offset).Limit(limit) }
}

// recientes orders by creation time, newest first.
func recientes(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }

func activos(db *gorm.DB) *gorm.DB { return db.Where("activo = true") }

// buscar matches term as a case-insensitive substring of any of cols.
// An empty term matches everything.
func buscar(term string, cols ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" || len(cols) == 0 {
			return db
		}
		like := "%" + strings.ReplaceAll(term, "%", `\%`) + "%"
		conds := make([]string, len(cols))
		args := make([]any, len(cols))
		for i, c := range cols {
			conds[i] = c + " ILIKE ?"
			args[i] = like
		}
		return db.Where(strings.Join(conds, " OR "), args...)
	}
}
