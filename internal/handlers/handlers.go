package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"auctionhub/api/internal/config"
	"auctionhub/api/internal/imagehost"
	"auctionhub/api/internal/mail"
	"auctionhub/api/internal/middleware"
	"auctionhub/api/internal/repository"
	"auctionhub/api/internal/service"
)

type HandlerSet struct {
	log            zerolog.Logger
	cfg            *config.AppConfig
	db             *pgxpool.Pool
	cache          *redis.Client
	tokenService   *service.TokenService
	authService    *service.AuthService
	auctionService *service.AuctionService
	accountService *service.AccountService
}

func NewHandlerSet(
	log zerolog.Logger,
	db *pgxpool.Pool,
	cache *redis.Client,
	mailer mail.Sender,
	images imagehost.Uploader,
	cfg *config.AppConfig,
) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	tokens := service.NewTokenService(tokenRepo, cfg.Security, log)
	auth := service.NewAuthService(userRepo, tokens, mailer, cfg, log)
	auctions := service.NewAuctionService(db, db, cache, images, log)
	accounts := service.NewAccountService(db, images, log)

	return HandlerSet{
		log:            log,
		cfg:            cfg,
		db:             db,
		cache:          cache,
		tokenService:   tokens,
		authService:    auth,
		auctionService: auctions,
		accountService: accounts,
	}
}

// TokenService exposes the token lifecycle manager so the bootstrap can
// hand it to the background sweeper.
func (h HandlerSet) TokenService() *service.TokenService {
	return h.tokenService
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	limited := middleware.RateLimit(h.cfg.RateLimit.RPS, h.cfg.RateLimit.Burst)
	authed := middleware.Auth(h.tokenService)

	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/register", limited, h.RegisterUser)
		auth.DELETE("/verify-email/:code", h.VerifyEmail)
		auth.POST("/login", limited, h.Login)
		auth.POST("/refresh", limited, h.Refresh)
		auth.DELETE("/logout", authed, h.Logout)

		users := v1.Group("/users")
		users.GET("/check-duplication/id", h.CheckIDDuplication)
		users.GET("/check-duplication/nickname", h.CheckNicknameDuplication)
		users.GET("/check-duplication/email", h.CheckEmailDuplication)
		users.DELETE("/me", authed, h.DeleteAccount)

		auctions := v1.Group("/auctions")
		auctions.POST("", authed, h.CreateAuction)
		auctions.GET("", h.ListAuctions)
		auctions.GET("/:auctionId/detail", h.AuctionDetail)
		auctions.GET("/:auctionId/image", h.AuctionImages)
		auctions.GET("/:auctionId/bid", h.BidList)
		auctions.POST("/:auctionId/bid", authed, limited, h.PlaceBid)
		auctions.GET("/:auctionId/viewer-count", h.ViewerCount)
		auctions.POST("/:auctionId/viewer", authed, h.RegisterViewer)
		auctions.DELETE("/:auctionId", authed, h.DeleteAuction)
	}
}
