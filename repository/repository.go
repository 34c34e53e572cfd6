// Package repository, veritabanı erişim katmanıdır.
//
// Service katmanı SQL yazmaz; burada tanımlanan interface'ler üzerinden
// çalışır. Her interface'in SQLite implementasyonu sqlite_*.go dosyalarındadır
// ve database.TxQuerier alır: aynı repository hem pool üzerinde hem
// database.WithTx içindeki transaction üzerinde kullanılabilir.
package repository

import (
	"strings"
	"time"

	"github.com/akinalp/gallery/models"
)

// now, kayıtlara yazılan zaman damgası. UTC ve mikro saniye hassasiyetinde
// tutulur; cursor karşılaştırmaları bu formata dayanır.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// newID, SQLite tarafında üretilen rastgele hex kimlik ifadesi.
const newID = "lower(hex(randomblob(8)))"

// isUniqueViolation, SQLite UNIQUE constraint hatasını tanır.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyViolation, var olmayan bir kayda referans verildiğini gösterir.
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// beforeClause, (created_at, id) cursor'ından daha eski kayıtları seçen
// WHERE parçasını ve argümanlarını döner. Cursor yoksa boş string.
func beforeClause(alias string, req models.PageRequest) (string, []any) {
	if req.Before == nil {
		return "", nil
	}
	at := req.Before.CreatedAt.UTC()
	clause := " AND (" + alias + ".created_at < ? OR (" + alias + ".created_at = ? AND " + alias + ".id < ?))"
	return clause, []any{at, at, req.Before.ID}
}

// pageLimit, sonraki sayfanın varlığını anlamak için bir fazlası istenir.
func pageLimit(req models.PageRequest) int {
	limit := req.Limit
	if limit <= 0 {
		limit = models.DefaultPageSize
	}
	return min(limit, models.MaxPageSize) + 1
}

// Page, eskiden yeniye sıralı bir sayfa. HasOlder, cursor'ın ötesinde
// hâlâ kayıt olduğunu gösterir.
type Page[T any] struct {
	Items    []T
	HasOlder bool
}

// trimPage, yeniden eskiye okunmuş satırları sayfa boyutuna kırpar ve
// eskiden yeniye çevirir.
func trimPage[T any](rows []T, req models.PageRequest) Page[T] {
	limit := pageLimit(req) - 1
	p := Page[T]{}
	if len(rows) > limit {
		rows = rows[:limit]
		p.HasOlder = true
	}
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	p.Items = rows
	return p
}
