package handlers

import (
	"net/http"

	"github.com/akinalp/gallery/models"
	"github.com/akinalp/gallery/pkg"
)

// MutationRecorder, sunulan her mutation'ı varyantıyla sayar
// (metrics.ServerMetrics karşılar).
type MutationRecorder interface {
	MutationServed(op, typename string)
}

type noopRecorder struct{}

func (noopRecorder) MutationServed(string, string) {}

func recorderOrNoop(r MutationRecorder) MutationRecorder {
	if r == nil {
		return noopRecorder{}
	}
	return r
}

// writeMutation, varyant ne olursa olsun 200 yazar. Beklenen çakışmalar
// (ErrAdmireAlreadyExists gibi) hata değil, __typename'i farklı bir yanıttır.
func writeMutation(w http.ResponseWriter, rec MutationRecorder, op string, payload *models.MutationPayload, err error) {
	if err != nil {
		pkg.Error(w, err)
		return
	}
	rec.MutationServed(op, payload.Typename)
	pkg.JSON(w, http.StatusOK, payload)
}

// pageRequest, ?limit=&before= sorgusunu okur; geçersizse 400 yazar.
func pageRequest(w http.ResponseWriter, r *http.Request) (models.PageRequest, bool) {
	q := r.URL.Query()
	req, err := models.ParsePageRequest(q.Get("limit"), q.Get("before"))
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, err.Error())
		return req, false
	}
	return req, true
}
