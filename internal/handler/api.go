package handler

import (
	"github.com/animania/internal/auth"
	"github.com/animania/internal/service"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	users         *service.UserService
	posts         *service.PostService
	drafts        *service.DraftService
	engagement    *service.EngagementService
	search        *service.SearchService
	images        *service.ImageUploader
	tokens        *auth.TokenService
	log           zerolog.Logger
	secureCookies bool
}

// Options tunes handler behaviour that differs between environments.
type Options struct {
	// SecureCookies marks the auth cookie Secure; enabled in production.
	SecureCookies bool
	// HashCost overrides the bcrypt cost; zero keeps auth.DefaultHashCost.
	HashCost int
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, tokens *auth.TokenService, images *service.ImageUploader, log zerolog.Logger, opts Options) *API {
	users := service.NewUserService(gdb)
	if opts.HashCost > 0 {
		users.WithHashCost(opts.HashCost)
	}

	return &API{
		users:         users,
		posts:         service.NewPostService(gdb),
		drafts:        service.NewDraftService(gdb),
		engagement:    service.NewEngagementService(gdb),
		search:        service.NewSearchService(gdb),
		images:        images,
		tokens:        tokens,
		log:           log,
		secureCookies: opts.SecureCookies,
	}
}
