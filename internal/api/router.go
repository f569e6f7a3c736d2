package api

import (
	"github.com/ericogr/monster-arena/internal/constants"
	"github.com/gin-gonic/gin"
)

// NewRouter registers every route on a new gin engine.
func NewRouter(h *BattleHandler, verifier *TokenVerifier) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.GET(constants.RouteHealth, Health)
		apiRoutes.GET(constants.RouteVersion, Version)
		apiRoutes.GET(constants.RouteAbilities, h.ListAbilities)

		// Authenticated endpoints
		protected := apiRoutes.Group("")
		protected.Use(AuthRequired(verifier), noStore())

		protected.GET(constants.RouteProfile, h.GetProfile)
		protected.POST(constants.RouteBattles, h.StartBattle)
		protected.GET(constants.RouteBattleActive, h.GetActiveBattle)
		protected.GET(constants.RouteBattleStats, h.Stats)
		protected.GET(constants.RouteBattleByID, h.GetBattle)
		protected.POST(constants.RouteBattleTurn, h.SubmitTurn)
		protected.POST(constants.RouteBattleAITurn, h.RunAITurn)
		protected.POST(constants.RouteBattleForfeit, h.Forfeit)
	}
	return router
}

// noStore keeps battle state out of browser and proxy caches.
func noStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header(constants.CacheControlHeader, constants.CacheControlNoCache)
		c.Next()
	}
}
