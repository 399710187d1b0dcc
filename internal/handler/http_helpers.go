package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/animania/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/goccy/go-json"
)

const (
	msgInternal           = "Une erreur interne est survenue"
	msgInvalidCredentials = "Email ou mot de passe incorrect"
	msgUnauthorized       = "Authentification requise"
	msgInvalidToken       = "Token invalide"
	msgForbidden          = "Action non autorisée"
	msgPostNotFound       = "Article introuvable"
	msgDraftNotFound      = "Brouillon introuvable"
	msgEmailTaken         = "Un compte avec cet email existe déjà"
	msgInvalidCategory    = "Catégorie invalide"
	msgInvalidBody        = "Requête invalide"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := decodeStrictJSON(c, dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// decodeStrictJSON decodes the body rejecting unknown fields, then runs the
// binding tag validation gin would run.
func decodeStrictJSON(c *gin.Context, dst interface{}) error {
	if c.Request == nil || c.Request.Body == nil {
		return errors.New("empty request body")
	}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if binding.Validator == nil {
		return nil
	}
	return binding.Validator.ValidateStruct(dst)
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// respondServiceError maps service errors to status codes. Anything unknown is
// logged and reported with a generic message so internals never reach clients.
func (a *API) respondServiceError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondError(c, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	case errors.Is(err, service.ErrForbidden):
		respondError(c, http.StatusForbidden, msgForbidden)
	case errors.Is(err, service.ErrPostNotFound):
		respondError(c, http.StatusNotFound, msgPostNotFound)
	case errors.Is(err, service.ErrDraftNotFound):
		respondError(c, http.StatusNotFound, msgDraftNotFound)
	case errors.Is(err, service.ErrEmailTaken):
		respondError(c, http.StatusConflict, msgEmailTaken)
	case errors.Is(err, service.ErrInvalidCategory):
		respondError(c, http.StatusBadRequest, msgInvalidCategory)
	case errors.Is(err, service.ErrImageTooLarge):
		respondError(c, http.StatusRequestEntityTooLarge, "Image trop volumineuse")
	case errors.Is(err, service.ErrImageInvalid):
		respondError(c, http.StatusBadRequest, "Format d'image non supporté")
	default:
		_ = c.Error(err)
		a.log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("request failed")
		respondError(c, http.StatusInternalServerError, msgInternal)
	}
}
