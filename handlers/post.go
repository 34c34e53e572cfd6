package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/akinalp/gallery/models"
	"github.com/akinalp/gallery/pkg"
	"github.com/akinalp/gallery/services"
)

type PostHandler struct {
	postService services.PostService
}

func NewPostHandler(postService services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// Create godoc
// POST /api/posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.postService.Create(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, post)
}

// Get godoc
// GET /api/posts/{postId}
// Yanıt, isteği yapanın admire kaydını (viewer_admire) içerir.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	post, err := h.postService.Get(r.Context(), r.PathValue("postId"), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, post)
}

// ListByAuthor godoc
// GET /api/users/{userId}/posts?limit=&before=
func (h *PostHandler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	req, ok := pageRequest(w, r)
	if !ok {
		return
	}

	conn, err := h.postService.ListByAuthor(r.Context(), r.PathValue("userId"), req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, conn)
}
