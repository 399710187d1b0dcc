package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UploadImage 处理图片上传请求，返回可公开访问的 URL。
func (a *API) UploadImage(c *gin.Context) {
	if a.images == nil {
		respondError(c, http.StatusServiceUnavailable, "Téléversement indisponible")
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Aucune image reçue")
		return
	}

	url, err := a.images.Upload(c.Request.Context(), file)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	user, _ := currentUser(c)
	a.log.Info().Uint("user_id", user.ID).Str("url", url).Int64("size", file.Size).Msg("image uploaded")
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
