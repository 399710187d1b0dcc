package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/animania/internal/auth"
	"github.com/animania/internal/db"
	"github.com/animania/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "handler-test-secret"

type testEnv struct {
	api    *API
	db     *gorm.DB
	tokens *auth.TokenService
	engine *gin.Engine
}

func setupHandlerTest(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })

	tokens, err := auth.NewTokenService(testSecret)
	if err != nil {
		t.Fatalf("failed to create token service: %v", err)
	}

	images := service.NewImageUploader(service.NewLocalImageStore(t.TempDir(), "/uploads"), 1<<20)
	api := NewAPI(gdb, tokens, images, zerolog.Nop(), Options{HashCost: bcrypt.MinCost})

	return &testEnv{api: api, db: gdb, tokens: tokens, engine: newTestEngine(api)}
}

// newTestEngine mirrors the production route table.
func newTestEngine(api *API) *gin.Engine {
	r := gin.New()
	r.Use(api.LoadUser())

	r.POST("/api/users", api.RegisterLegacy)
	authGroup := r.Group("/api/auth")
	authGroup.POST("/register", api.Register)
	authGroup.POST("/login", api.Login)
	authGroup.POST("/logout", api.Logout)
	authGroup.GET("/verify", api.Verify)

	r.GET("/api/posts", api.ListPosts)
	r.GET("/api/posts/category/:category", api.ListPostsByCategory)
	r.GET("/api/posts/:id", api.GetPost)
	r.GET("/api/search", api.Search)

	protected := r.Group("/api", api.RequireUser())
	protected.POST("/posts", api.CreatePost)
	protected.GET("/posts/user", api.ListMyContent)
	protected.PUT("/posts/:id", api.UpdatePost)
	protected.DELETE("/posts/:id", api.DeletePost)
	protected.POST("/posts/:id/like", api.ToggleLike)
	protected.POST("/posts/:id/view", api.RecordView)
	protected.GET("/drafts/:id", api.GetDraft)
	protected.PUT("/drafts/:id", api.UpdateDraft)
	protected.DELETE("/drafts/:id", api.DeleteDraft)
	protected.POST("/drafts/:id/publish", api.PublishDraft)
	protected.POST("/uploads/image", api.UploadImage)

	r.PUT("/api/posts/:id/featured", api.RequireAdmin(), api.SetFeatured)
	return r
}

// createUser registers a user through the service and returns it with a valid token.
func (env *testEnv) createUser(t *testing.T, name string, role db.Role) (*db.User, string) {
	t.Helper()
	user, err := env.api.users.Register(context.Background(), service.RegisterInput{
		Name:     name,
		Email:    name + "@example.com",
		Password: "secret123",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	token, err := env.tokens.Issue(user.ID, user.Email, auth.SessionTTL)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return user, token
}

func (env *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return payload
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func (env *testEnv) createPost(t *testing.T, token, title string) map[string]interface{} {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/posts", token, map[string]interface{}{
		"title":    title,
		"content":  "<p>Le contenu de " + title + "</p>",
		"category": "TERRESTRES",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating post, got %d: %s", w.Code, w.Body.String())
	}
	return decodeBody(t, w)["post"].(map[string]interface{})
}
