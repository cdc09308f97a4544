package routes

import (
	"coinlaunch/internal/handlers"
	"coinlaunch/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupCoinRoutes registers the coin deployment and settlement endpoints.
// Mutating routes submit transactions, so they sit behind the submit limiter.
func SetupCoinRoutes(r *gin.Engine) {
	submit := middleware.SubmitLimiter(middleware.DefaultSubmitLimiter)

	coins := r.Group("/api/coins")
	{
		coins.POST("/deploy", submit, handlers.DeployCoin)
		coins.GET("", handlers.ListCoins)
		coins.GET("/:address", handlers.GetCoin)
		coins.POST("/:address/withdraw", submit, handlers.WithdrawEarnings)
		coins.POST("/:address/activity", submit, handlers.RecordActivity)
		coins.GET("/:address/settlements", handlers.ListSettlements)
	}
}
