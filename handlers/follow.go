package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/akinalp/gallery/models"
	"github.com/akinalp/gallery/pkg"
	"github.com/akinalp/gallery/services"
)

type FollowHandler struct {
	followService services.FollowService
	recorder      MutationRecorder
}

func NewFollowHandler(followService services.FollowService, recorder MutationRecorder) *FollowHandler {
	return &FollowHandler{followService: followService, recorder: recorderOrNoop(recorder)}
}

// Follow godoc
// POST /api/users/{userId}/follow
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	payload, err := h.followService.Follow(r.Context(), user.ID, r.PathValue("userId"))
	writeMutation(w, h.recorder, "follow", payload, err)
}

// Unfollow godoc
// DELETE /api/users/{userId}/follow
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	payload, err := h.followService.Unfollow(r.Context(), user.ID, r.PathValue("userId"))
	writeMutation(w, h.recorder, "unfollow", payload, err)
}

// BulkFollow godoc
// POST /api/follows/bulk
// Body: { "user_ids": ["...", "..."] }
func (h *FollowHandler) BulkFollow(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.BulkFollowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payload, err := h.followService.BulkFollow(r.Context(), user.ID, &req)
	writeMutation(w, h.recorder, "bulk_follow", payload, err)
}

// ListFollowers godoc
// GET /api/users/{userId}/followers?limit=&before=
func (h *FollowHandler) ListFollowers(w http.ResponseWriter, r *http.Request) {
	req, ok := pageRequest(w, r)
	if !ok {
		return
	}

	conn, err := h.followService.ListFollowers(r.Context(), r.PathValue("userId"), req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, conn)
}
