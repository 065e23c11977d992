package handlers

import (
	"swapboard/internal/auth"
	"swapboard/internal/config"
	"swapboard/internal/metrics"
	"swapboard/internal/repos"
	"swapboard/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	AuthSvc         *services.AuthService
	AuthHandler     *AuthHandler
	AdHandler       *AdHandler
	ProposalHandler *ProposalHandler
	AdminHandler    *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, m *metrics.Metrics) *Deps {
	userRepo := repos.NewUserRepo(db)
	adRepo := repos.NewAdRepo(db)
	propRepo := repos.NewProposalRepo(db)

	authSvc := services.NewAuthService(userRepo, auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL))
	adSvc := services.NewAdService(adRepo, m)
	propSvc := services.NewProposalService(propRepo, adRepo, m)

	return &Deps{
		AuthSvc:         authSvc,
		AuthHandler:     &AuthHandler{Auth: authSvc},
		AdHandler:       &AdHandler{Ads: adSvc},
		ProposalHandler: &ProposalHandler{Proposals: propSvc},
		AdminHandler:    &AdminHandler{Ads: adSvc, Proposals: propSvc},
	}
}
