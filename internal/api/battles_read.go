package api

import (
	"net/http"

	"github.com/ericogr/monster-arena/internal/constants"
	"github.com/ericogr/monster-arena/internal/logging"
	"github.com/gin-gonic/gin"
)

// ListAbilities returns the ability catalog.
func (h *BattleHandler) ListAbilities(c *gin.Context) {
	c.JSON(http.StatusOK, h.abilities)
}

// GetProfile returns the session user's profile and monsters.
func (h *BattleHandler) GetProfile(c *gin.Context) {
	view, err := h.svc.Profile(c.Request.Context(), userID(c))
	if err != nil {
		logging.Error("failed to fetch profile", err, logging.Fields{constants.LogFieldUserID: userID(c)})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchProfile})
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetActiveBattle returns the user's live battle, or null.
func (h *BattleHandler) GetActiveBattle(c *gin.Context) {
	bs, err := h.svc.GetActiveBattle(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if bs == nil {
		c.JSON(http.StatusOK, gin.H{"battle": nil, constants.JSONKeyMessage: constants.ErrNoActiveBattle})
		return
	}
	c.JSON(http.StatusOK, gin.H{"battle": bs})
}

// GetBattle returns one battle owned by the user.
func (h *BattleHandler) GetBattle(c *gin.Context) {
	id := battleIDParam(c)
	if id == "" {
		return
	}
	bs, err := h.svc.GetBattle(c.Request.Context(), id, userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bs)
}

// Stats exposes session store statistics.
func (h *BattleHandler) Stats(c *gin.Context) {
	st, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
