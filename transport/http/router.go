package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 64 << 10

// SetupRouter sets up the Gin router
func SetupRouter(deps Deps, log zerolog.Logger) *gin.Engine {
	log = log.With().Str("component", "http").Logger()

	router := gin.New()
	router.Use(Recovery(log), RequestLogger(log), MaxBodySize(maxBodyBytes))

	handlers := NewHandlers(deps)

	router.GET("/health", handlers.Health)

	wallets := router.Group("/wallets/:family", FamilyParam())
	{
		wallets.GET("", handlers.Wallets)
		wallets.POST("/connect", handlers.Connect)
		wallets.DELETE("/connect", handlers.CancelConnect)
		wallets.GET("/pairing", handlers.Pairing)
		wallets.POST("/disconnect", handlers.Disconnect)
	}

	tx := router.Group("/tx/:family", FamilyParam(), ConnectionAuth(deps.Tokenizer, deps.Connections))
	{
		tx.POST("", handlers.SubmitTx)
	}

	stats := router.Group("/stats/:family", FamilyParam())
	{
		stats.GET("", handlers.Stats)
		stats.GET("/depositors", handlers.Depositors)
	}

	return router
}
