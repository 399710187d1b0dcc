package handler

import (
	"net/http"
	"time"

	"github.com/animania/internal/auth"
	"github.com/animania/internal/db"
	"github.com/animania/internal/service"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

// Register 注册新用户并下发 token。
func (a *API) Register(c *gin.Context) {
	user, ok := a.register(c)
	if !ok {
		return
	}

	token, err := a.tokens.Issue(user.ID, user.Email, auth.RememberMeTTL)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	a.setTokenCookie(c, token, auth.RememberMeTTL)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Compte créé avec succès",
		"user":    user.View(),
		"token":   token,
	})
}

// RegisterLegacy keeps the historical POST /api/users contract: it creates the
// user and returns it without a token.
func (a *API) RegisterLegacy(c *gin.Context) {
	user, ok := a.register(c)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user.View()})
}

func (a *API) register(c *gin.Context) (*db.User, bool) {
	var req registerRequest
	if !bindJSON(c, &req, msgInvalidBody) {
		return nil, false
	}

	user, err := a.users.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		a.respondServiceError(c, err)
		return nil, false
	}
	return user, true
}

// Login 校验凭据并下发 token。
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, msgInvalidBody) {
		return
	}

	user, err := a.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	ttl := auth.SessionTTL
	if req.RememberMe {
		ttl = auth.RememberMeTTL
	}
	token, err := a.tokens.Issue(user.ID, user.Email, ttl)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	a.setTokenCookie(c, token, ttl)
	c.JSON(http.StatusOK, gin.H{
		"message": "Connexion réussie",
		"token":   token,
		"user":    user.View(),
	})
}

// Logout clears the token cookie.
func (a *API) Logout(c *gin.Context) {
	a.setTokenCookie(c, "", -time.Second)
	c.JSON(http.StatusOK, gin.H{"message": "Déconnexion réussie"})
}

// Verify returns the identity carried by the presented token.
func (a *API) Verify(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, msgInvalidToken)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "user": user})
}

func (a *API) setTokenCookie(c *gin.Context, token string, ttl time.Duration) {
	maxAge := int(ttl / time.Second)
	if ttl < 0 {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookieName, token, maxAge, "/", "", a.secureCookies, true)
}
