package handlers

import (
	"net/http"

	"github.com/akinalp/gallery/pkg"
	"github.com/akinalp/gallery/services"
)

type AdmireHandler struct {
	admireService services.AdmireService
	recorder      MutationRecorder
}

func NewAdmireHandler(admireService services.AdmireService, recorder MutationRecorder) *AdmireHandler {
	return &AdmireHandler{admireService: admireService, recorder: recorderOrNoop(recorder)}
}

// Admire godoc
// POST /api/posts/{postId}/admire
//
// Yanıt: AdmirePostPayload ya da ErrAdmireAlreadyExists (ikisi de 200).
func (h *AdmireHandler) Admire(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	payload, err := h.admireService.Admire(r.Context(), r.PathValue("postId"), user.ID)
	writeMutation(w, h.recorder, "admire", payload, err)
}

// Unadmire godoc
// DELETE /api/posts/{postId}/admire
//
// Yanıt: UnadmirePostPayload ya da ErrAdmireNotFound.
func (h *AdmireHandler) Unadmire(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	payload, err := h.admireService.Unadmire(r.Context(), r.PathValue("postId"), user.ID)
	writeMutation(w, h.recorder, "unadmire", payload, err)
}

// List godoc
// GET /api/posts/{postId}/admires?limit=&before=
func (h *AdmireHandler) List(w http.ResponseWriter, r *http.Request) {
	req, ok := pageRequest(w, r)
	if !ok {
		return
	}

	conn, err := h.admireService.List(r.Context(), r.PathValue("postId"), req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, conn)
}
