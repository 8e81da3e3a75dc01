package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/machimap/machimap/internal/app/domain/auth"
	"github.com/machimap/machimap/internal/app/domain/likes"
	"github.com/machimap/machimap/internal/app/domain/maps"
	"github.com/machimap/machimap/internal/app/domain/marketplace"
	"github.com/machimap/machimap/internal/app/domain/payments"
	"github.com/machimap/machimap/internal/app/domain/places"
	"github.com/machimap/machimap/internal/app/middleware"
	"github.com/machimap/machimap/internal/pkg/config"
)

type AppHandlers struct {
	Auth        *auth.Handler
	Maps        *maps.Handler
	Marketplace *marketplace.Handler
	Likes       *likes.Handler
	Places      *places.Handler
	Payments    *payments.Handler
}

// Setup builds every repository, service and handler and mounts the API
// routes on the router.
func Setup(r *gin.Engine, cfg *config.Config, dbPool *pgxpool.Pool, log *zap.Logger) {
	handlers, jwtService, jwtConfig := setupDependencies(cfg, dbPool, log)
	setupRouter(r, handlers, jwtService, jwtConfig)
}

func setupDependencies(cfg *config.Config, dbPool *pgxpool.Pool, log *zap.Logger) (*AppHandlers, *auth.JWTService, auth.JWTConfig) {
	jwtService := auth.NewJWTService()
	jwtConfig := auth.JWTConfig{
		SecretKey:       cfg.Auth.JWTSecret,
		TokenExpiration: 24 * time.Hour,
	}

	authRepo := auth.NewRepository(dbPool, log)
	authService := auth.NewService(authRepo, jwtService, jwtConfig, log)

	mapRepo := maps.NewRepository(dbPool, log)
	likeRepo := likes.NewRepository(dbPool, log)
	marketplaceRepo := marketplace.NewRepository(dbPool, log)
	purchaseRepo := payments.NewRepository(dbPool, log)

	mapService := maps.NewService(mapRepo, likeRepo, log)
	likeService := likes.NewService(likeRepo, mapRepo, log)
	marketplaceService := marketplace.NewService(marketplaceRepo, log)
	placeService := places.NewService(places.NewProvider(cfg.Places, log), log)
	paymentService := payments.NewService(purchaseRepo, mapRepo, payments.NewProvider(cfg.Stripe, log), log)

	handlers := &AppHandlers{
		Auth:        auth.NewHandler(authService, log),
		Maps:        maps.NewHandler(mapService, log),
		Marketplace: marketplace.NewHandler(marketplaceService, log),
		Likes:       likes.NewHandler(likeService, log),
		Places:      places.NewHandler(placeService, log),
		Payments:    payments.NewHandler(paymentService, log),
	}
	return handlers, jwtService, jwtConfig
}

func setupRouter(r *gin.Engine, h *AppHandlers, jwtService *auth.JWTService, jwtConfig auth.JWTConfig) {
	requireAuth := middleware.AuthMiddleware(jwtService, jwtConfig)
	optionalAuth := middleware.OptionalAuthMiddleware(jwtService, jwtConfig)

	api := r.Group("/api")

	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.GET("/auth/me", requireAuth, h.Auth.Me)
	api.PUT("/auth/me", requireAuth, h.Auth.UpdateMe)

	api.GET("/marketplace", h.Marketplace.BrowseMaps)
	api.GET("/places/search", h.Places.Search)
	api.POST("/payments/webhook", h.Payments.Webhook)

	mapsGroup := api.Group("/maps")
	{
		mapsGroup.POST("", requireAuth, h.Maps.CreateMap)
		mapsGroup.GET("", requireAuth, h.Maps.GetMyMaps)
		mapsGroup.GET("/:id", optionalAuth, h.Maps.GetMap)
		mapsGroup.PUT("/:id", requireAuth, h.Maps.UpdateMap)
		mapsGroup.DELETE("/:id", requireAuth, h.Maps.DeleteMap)
		mapsGroup.PUT("/:id/sale", requireAuth, h.Maps.UpdateSaleSettings)

		mapsGroup.PUT("/:id/spots", requireAuth, h.Maps.ReplaceSpots)
		mapsGroup.POST("/:id/spots", requireAuth, h.Maps.AddSpot)
		mapsGroup.PUT("/:id/spots/:spotId", requireAuth, h.Maps.UpdateSpot)
		mapsGroup.DELETE("/:id/spots/:spotId", requireAuth, h.Maps.RemoveSpot)

		mapsGroup.POST("/:id/like", requireAuth, h.Likes.Toggle)
		mapsGroup.GET("/:id/likes", optionalAuth, h.Likes.Status)
	}

	api.POST("/payments/intent", requireAuth, h.Payments.CreateIntent)
	api.GET("/purchases", requireAuth, h.Payments.GetPurchases)
}
