package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/animania/internal/db"
	"github.com/animania/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// postForm is the create payload, accepted as multipart form or JSON.
type postForm struct {
	Title         string   `form:"title" json:"title"`
	Content       string   `form:"content" json:"content"`
	ContentFormat string   `form:"contentFormat" json:"contentFormat"`
	Excerpt       string   `form:"excerpt" json:"excerpt"`
	Category      string   `form:"category" json:"category"`
	ImageURL      string   `form:"imageUrl" json:"imageUrl"`
	Tags          []string `form:"tags" json:"tags"`
	IsDraft       bool     `form:"isDraft" json:"isDraft"`
}

type postUpdateRequest struct {
	Title         *string   `json:"title"`
	Content       *string   `json:"content"`
	ContentFormat string    `json:"contentFormat"`
	Excerpt       *string   `json:"excerpt"`
	Category      *string   `json:"category"`
	ImageURL      *string   `json:"imageUrl"`
	Tags          *[]string `json:"tags"`
}

func (r postUpdateRequest) toUpdate() service.PostUpdate {
	return service.PostUpdate{
		Title:         r.Title,
		Content:       r.Content,
		ContentFormat: r.ContentFormat,
		Excerpt:       r.Excerpt,
		Category:      r.Category,
		ImageURL:      r.ImageURL,
		Tags:          r.Tags,
	}
}

type featuredRequest struct {
	Featured *bool `json:"featured" binding:"required"`
}

// postView is the public JSON shape of a post.
type postView struct {
	db.Post
	Author    *db.UserView `json:"author,omitempty"`
	LikedByMe *bool        `json:"likedByMe,omitempty"`
}

func newPostView(post db.Post) postView {
	view := postView{Post: post}
	if post.Author.ID != 0 {
		author := post.Author.View()
		view.Author = &author
	}
	return view
}

// CreatePost 创建文章或草稿。
func (a *API) CreatePost(c *gin.Context) {
	user, _ := currentUser(c)

	var form postForm
	bind := c.ShouldBind
	if c.ContentType() == binding.MIMEJSON {
		bind = func(dst interface{}) error { return decodeStrictJSON(c, dst) }
	}
	if err := bind(&form); err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	imageURL := form.ImageURL
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("image")
		switch {
		case err == nil && a.images == nil:
			respondError(c, http.StatusServiceUnavailable, "Téléversement indisponible")
			return
		case err == nil:
			uploaded, err := a.images.Upload(c.Request.Context(), header)
			if err != nil {
				a.respondServiceError(c, err)
				return
			}
			imageURL = uploaded
		case !errors.Is(err, http.ErrMissingFile):
			respondError(c, http.StatusBadRequest, msgInvalidBody)
			return
		}
	}

	input := service.PostInput{
		Title:         form.Title,
		Content:       form.Content,
		ContentFormat: form.ContentFormat,
		Excerpt:       form.Excerpt,
		Category:      form.Category,
		ImageURL:      imageURL,
		Tags:          form.Tags,
		AuthorID:      user.ID,
	}

	if form.IsDraft {
		draft, err := a.drafts.Create(c.Request.Context(), input)
		if err != nil {
			a.respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Brouillon enregistré", "draft": draft})
		return
	}

	post, err := a.posts.Create(c.Request.Context(), input)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Article publié", "post": newPostView(*post)})
}

// ListPosts 获取已发布文章列表。
func (a *API) ListPosts(c *gin.Context) {
	filter := service.PostFilter{}
	if featured, err := strconv.ParseBool(c.Query("featured")); err == nil {
		filter.FeaturedOnly = featured
	}

	posts, err := a.posts.ListPublished(c.Request.Context(), filter)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	a.respondPosts(c, posts)
}

// ListPostsByCategory lists published posts of one category.
func (a *API) ListPostsByCategory(c *gin.Context) {
	posts, err := a.posts.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	a.respondPosts(c, posts)
}

// ListMyContent returns the caller's posts and drafts.
func (a *API) ListMyContent(c *gin.Context) {
	user, _ := currentUser(c)
	ctx := c.Request.Context()

	posts, err := a.posts.ListByAuthor(ctx, user.ID)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	drafts, err := a.drafts.ListByAuthor(ctx, user.ID)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	views := make([]postView, 0, len(posts))
	for _, post := range posts {
		views = append(views, postView{Post: post})
	}
	c.JSON(http.StatusOK, gin.H{"posts": views, "drafts": drafts})
}

// GetPost 获取单篇文章，:id 可为数字 ID 或 slug。已登录读者的首次阅读计入浏览量。
func (a *API) GetPost(c *gin.Context) {
	ctx := c.Request.Context()
	ref := c.Param("id")

	var (
		post *db.Post
		err  error
	)
	if id, parseErr := strconv.ParseUint(ref, 10, 32); parseErr == nil {
		post, err = a.posts.Get(ctx, uint(id))
	} else {
		post, err = a.posts.GetBySlug(ctx, ref)
	}
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	view := newPostView(*post)
	if user, ok := currentUser(c); ok {
		viewed, err := a.engagement.RecordView(ctx, post.ID, user.ID)
		if err != nil {
			a.respondServiceError(c, err)
			return
		}
		view.Views = viewed.Views

		liked, err := a.engagement.LikedPostIDs(ctx, user.ID, []uint{post.ID})
		if err != nil {
			a.respondServiceError(c, err)
			return
		}
		likedByMe := liked[post.ID]
		view.LikedByMe = &likedByMe
	}

	c.JSON(http.StatusOK, gin.H{"post": view})
}

// UpdatePost 更新文章
func (a *API) UpdatePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID d'article invalide")
		return
	}

	var req postUpdateRequest
	if !bindJSON(c, &req, msgInvalidBody) {
		return
	}

	user, _ := currentUser(c)
	post, err := a.posts.Update(c.Request.Context(), id, user.ID, req.toUpdate())
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Article mis à jour", "post": newPostView(*post)})
}

// DeletePost 删除文章
func (a *API) DeletePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID d'article invalide")
		return
	}

	user, _ := currentUser(c)
	if err := a.posts.Delete(c.Request.Context(), id, user.ID); err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Article supprimé"})
}

// SetFeatured lets an admin pin or unpin a post.
func (a *API) SetFeatured(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID d'article invalide")
		return
	}

	var req featuredRequest
	if !bindJSON(c, &req, msgInvalidBody) {
		return
	}

	post, err := a.posts.SetFeatured(c.Request.Context(), id, *req.Featured)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": newPostView(*post)})
}

// ToggleLike 点赞 / 取消点赞
func (a *API) ToggleLike(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID d'article invalide")
		return
	}

	user, _ := currentUser(c)
	result, err := a.engagement.ToggleLike(c.Request.Context(), id, user.ID)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RecordView 记录浏览
func (a *API) RecordView(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID d'article invalide")
		return
	}

	user, _ := currentUser(c)
	result, err := a.engagement.RecordView(c.Request.Context(), id, user.ID)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (a *API) respondPosts(c *gin.Context, posts []db.Post) {
	views := make([]postView, 0, len(posts))
	for _, post := range posts {
		views = append(views, newPostView(post))
	}

	if user, ok := currentUser(c); ok && len(posts) > 0 {
		ids := make([]uint, 0, len(posts))
		for _, post := range posts {
			ids = append(ids, post.ID)
		}
		liked, err := a.engagement.LikedPostIDs(c.Request.Context(), user.ID, ids)
		if err != nil {
			a.respondServiceError(c, err)
			return
		}
		for i := range views {
			likedByMe := liked[views[i].ID]
			views[i].LikedByMe = &likedByMe
		}
	}

	c.JSON(http.StatusOK, gin.H{"posts": views})
}
