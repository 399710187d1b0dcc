package handler

import (
	"net/http"

	"github.com/animania/internal/service"
	"github.com/gin-gonic/gin"
)

// Search 搜索已发布文章
func (a *API) Search(c *gin.Context) {
	result, err := a.search.Search(c.Request.Context(), service.SearchParams{
		Query:    c.Query("q"),
		Category: c.Query("category"),
	})
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	posts := make([]postView, 0, len(result.Posts))
	for _, post := range result.Posts {
		posts = append(posts, newPostView(post))
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":      posts,
		"query":      result.Query,
		"category":   result.Category,
		"hasMore":    result.HasMore,
		"needsQuery": result.NeedsQuery,
	})
}
