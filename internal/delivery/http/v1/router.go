package v1

import (
	"net/http"
	"time"

	"veridia-hiring-backend/config"
	"veridia-hiring-backend/internal/delivery/http/middleware"
	"veridia-hiring-backend/internal/delivery/http/response"
	"veridia-hiring-backend/internal/domain"
	"veridia-hiring-backend/pkg/token"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	JobUC         domain.JobUsecase
	CandidateUC   domain.CandidateUsecase
	ApplicationUC domain.ApplicationUsecase
	Tokens        *token.Service
	UserRepo      domain.UserRepository
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware()) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())

	window := time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second

	api := r.Group("/api")
	api.Use(middleware.RateLimit(middleware.GlobalRateLimitConfig(deps.Config.RateLimitGlobalThreshold, window)))

	// Health Check
	api.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Swagger
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Credential endpoints get a tighter per-IP budget than the rest of the API
	authPublic := api.Group("")
	authPublic.Use(middleware.RateLimit(middleware.AuthRateLimitConfig(deps.Config.RateLimitLoginThreshold, window)))

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens, deps.UserRepo))
	{
		NewAuthHandler(authPublic, protected, deps.AuthUC)
		NewJobHandler(api, protected, deps.JobUC)
		NewCandidateHandler(protected, deps.CandidateUC)
		NewApplicationHandler(protected, deps.ApplicationUC)
	}

	return r
}
