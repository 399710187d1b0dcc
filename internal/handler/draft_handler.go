package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetDraft 获取草稿（仅作者本人）
func (a *API) GetDraft(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID de brouillon invalide")
		return
	}

	user, _ := currentUser(c)
	draft, err := a.drafts.Get(c.Request.Context(), id, user.ID)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// UpdateDraft 更新草稿
func (a *API) UpdateDraft(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID de brouillon invalide")
		return
	}

	var req postUpdateRequest
	if !bindJSON(c, &req, msgInvalidBody) {
		return
	}

	user, _ := currentUser(c)
	draft, err := a.drafts.Update(c.Request.Context(), id, user.ID, req.toUpdate())
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Brouillon mis à jour", "draft": draft})
}

// DeleteDraft 删除草稿
func (a *API) DeleteDraft(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID de brouillon invalide")
		return
	}

	user, _ := currentUser(c)
	if err := a.drafts.Delete(c.Request.Context(), id, user.ID); err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Brouillon supprimé"})
}

// PublishDraft 将草稿发布为文章，草稿随后被删除。
func (a *API) PublishDraft(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID de brouillon invalide")
		return
	}

	user, _ := currentUser(c)
	post, err := a.drafts.Publish(c.Request.Context(), id, user.ID)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	a.log.Info().Uint("draft_id", id).Uint("post_id", post.ID).Msg("draft published")
	c.JSON(http.StatusCreated, gin.H{"message": "Article publié", "post": newPostView(*post)})
}
