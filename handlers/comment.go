package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/akinalp/gallery/models"
	"github.com/akinalp/gallery/pkg"
	"github.com/akinalp/gallery/services"
)

type CommentHandler struct {
	commentService services.CommentService
}

func NewCommentHandler(commentService services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// Create godoc
// POST /api/posts/{postId}/comments
// Body: { "body": "..." }
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.commentService.Create(r.Context(), r.PathValue("postId"), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, comment)
}

// List godoc
// GET /api/posts/{postId}/comments?limit=&before=
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	req, ok := pageRequest(w, r)
	if !ok {
		return
	}

	conn, err := h.commentService.List(r.Context(), r.PathValue("postId"), req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, conn)
}
