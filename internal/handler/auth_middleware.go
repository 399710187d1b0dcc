package handler

import (
	"net/http"
	"strings"

	"github.com/animania/internal/db"
	"github.com/gin-gonic/gin"
)

const (
	// TokenCookieName is the httpOnly cookie carrying the bearer token.
	TokenCookieName = "animania_token"

	currentUserKey = "current_user"
)

// resolveUser recovers the caller identity from the token cookie or the
// Authorization header. Missing, invalid or orphaned tokens yield ok=false.
func (a *API) resolveUser(c *gin.Context) (db.UserView, bool) {
	token := requestToken(c)
	if token == "" {
		return db.UserView{}, false
	}

	claims, err := a.tokens.Verify(token)
	if err != nil {
		return db.UserView{}, false
	}

	user, err := a.users.FindByID(c.Request.Context(), claims.UserID)
	if err != nil {
		return db.UserView{}, false
	}
	return user.View(), true
}

func requestToken(c *gin.Context) string {
	if cookie, err := c.Cookie(TokenCookieName); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie)
	}

	header := strings.TrimSpace(c.GetHeader("Authorization"))
	const prefix = "bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// LoadUser resolves the identity on every request and stores it in the context.
func (a *API) LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := a.resolveUser(c); ok {
			c.Set(currentUserKey, user)
		}
		c.Next()
	}
}

// RequireUser aborts with 401 unless LoadUser found an identity.
func (a *API) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUser(c); !ok {
			respondError(c, http.StatusUnauthorized, msgUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts with 403 unless the caller has the ADMIN role.
func (a *API) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, msgUnauthorized)
			c.Abort()
			return
		}
		if !user.IsAdmin() {
			respondError(c, http.StatusForbidden, msgForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) (db.UserView, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return db.UserView{}, false
	}
	user, ok := value.(db.UserView)
	return user, ok
}
