package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/animania/internal/db"
)

func createDraft(t *testing.T, env *testEnv, token, title string) float64 {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/posts", token, map[string]interface{}{
		"title": title, "content": "Ébauche sur " + title, "category": "EAU_DOUCE", "isDraft": true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201 creating draft, got %d: %s", w.Code, w.Body.String())
	}
	return decodeBody(t, w)["draft"].(map[string]interface{})["id"].(float64)
}

func TestDraftAccessIsOwnerOnly(t *testing.T) {
	env := setupHandlerTest(t)
	_, ownerToken := env.createUser(t, "alice", db.RoleUser)
	_, otherToken := env.createUser(t, "mallory", db.RoleUser)
	path := fmt.Sprintf("/api/drafts/%.0f", createDraft(t, env, ownerToken, "Brochet"))

	if w := env.do(t, http.MethodGet, path, ownerToken, nil); w.Code != http.StatusOK {
		t.Fatalf("expected status 200 for owner, got %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, path, otherToken, nil); w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 for other user, got %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/drafts/999", ownerToken, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for missing draft, got %d", w.Code)
	}

	w := env.do(t, http.MethodPut, path, ownerToken, map[string]string{"title": "Brochet commun"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 on update, got %d: %s", w.Code, w.Body.String())
	}
	if got := decodeBody(t, w)["draft"].(map[string]interface{})["title"]; got != "Brochet commun" {
		t.Fatalf("unexpected title %v", got)
	}

	if w := env.do(t, http.MethodDelete, path, otherToken, nil); w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 on foreign delete, got %d", w.Code)
	}
	if w := env.do(t, http.MethodDelete, path, ownerToken, nil); w.Code != http.StatusOK {
		t.Fatalf("expected status 200 on delete, got %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, path, ownerToken, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 after delete, got %d", w.Code)
	}
}

func TestPublishDraftCreatesPostAndRemovesDraft(t *testing.T) {
	env := setupHandlerTest(t)
	_, ownerToken := env.createUser(t, "alice", db.RoleUser)
	_, otherToken := env.createUser(t, "mallory", db.RoleUser)
	id := createDraft(t, env, ownerToken, "Castor")
	path := fmt.Sprintf("/api/drafts/%.0f/publish", id)

	if w := env.do(t, http.MethodPost, path, otherToken, nil); w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 for other user, got %d", w.Code)
	}

	w := env.do(t, http.MethodPost, path, ownerToken, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	post := decodeBody(t, w)["post"].(map[string]interface{})
	if post["title"] != "Castor" || post["published"] != true || post["featured"] != false {
		t.Fatalf("unexpected published post %v", post)
	}
	if post["slug"] == "" {
		t.Fatalf("expected slug on published post")
	}

	var drafts int64
	env.db.Model(&db.Draft{}).Count(&drafts)
	if drafts != 0 {
		t.Fatalf("expected draft to be removed, got %d", drafts)
	}

	if w := env.do(t, http.MethodPost, path, ownerToken, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 publishing twice, got %d", w.Code)
	}

	list := decodeBody(t, env.do(t, http.MethodGet, "/api/posts/user", ownerToken, nil))
	if posts := list["posts"].([]interface{}); len(posts) != 1 {
		t.Fatalf("expected 1 post for owner, got %d", len(posts))
	}
	if remaining := list["drafts"].([]interface{}); len(remaining) != 0 {
		t.Fatalf("expected no drafts for owner, got %d", len(remaining))
	}
}
