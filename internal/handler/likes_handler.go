package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"EventMap-App/internal/domain/repository"
	"EventMap-App/internal/usecase"
)

// LikesHandler いいねAPIのハンドラー
type LikesHandler struct {
	likesUseCase   usecase.LikesUseCase
	viewerResolver repository.ViewerResolver
}

// NewLikesHandler 新しいLikesHandlerインスタンスを作成
func NewLikesHandler(likesUseCase usecase.LikesUseCase, viewerResolver repository.ViewerResolver) *LikesHandler {
	return &LikesHandler{
		likesUseCase:   likesUseCase,
		viewerResolver: viewerResolver,
	}
}

// PostLike POST /api/events/:id/like - イベントをいいねする
func (h *LikesHandler) PostLike(c *gin.Context) {
	viewerID, ok := h.requireViewer(c)
	if !ok {
		return
	}

	if err := h.likesUseCase.LikeEvent(c.Request.Context(), viewerID, c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "like_failed",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "liked"})
}

// DeleteLike DELETE /api/events/:id/like - いいねを取り消す
func (h *LikesHandler) DeleteLike(c *gin.Context) {
	viewerID, ok := h.requireViewer(c)
	if !ok {
		return
	}

	if err := h.likesUseCase.UnlikeEvent(c.Request.Context(), viewerID, c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "unlike_failed",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "unliked"})
}

// requireViewer 認証済み閲覧者IDを要求する（未認証は401）
func (h *LikesHandler) requireViewer(c *gin.Context) (string, bool) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Authorization header with a Bearer token is required",
		})
		return "", false
	}

	viewerID, err := h.viewerResolver.ResolveViewerID(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Failed to resolve viewer: " + err.Error(),
		})
		return "", false
	}

	return viewerID, true
}
