package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/ericogr/monster-arena/internal/constants"
	"github.com/ericogr/monster-arena/internal/game"
	"github.com/gin-gonic/gin"
)

type StartBattleRequest struct {
	MonsterIDs []uint `json:"monster_ids"`
}

// StartBattle opens a battle for the session user. The body is optional.
func (h *BattleHandler) StartBattle(c *gin.Context) {
	var req StartBattleRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	bs, err := h.svc.StartBattle(c.Request.Context(), userID(c), req.MonsterIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bs)
}

// SubmitTurn plays the player's action.
func (h *BattleHandler) SubmitTurn(c *gin.Context) {
	id := battleIDParam(c)
	if id == "" {
		return
	}
	var action game.Action
	if err := c.ShouldBindJSON(&action); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	res, err := h.svc.SubmitTurn(c.Request.Context(), id, userID(c), action)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// RunAITurn lets the opponent move.
func (h *BattleHandler) RunAITurn(c *gin.Context) {
	id := battleIDParam(c)
	if id == "" {
		return
	}
	res, err := h.svc.RunAITurn(c.Request.Context(), id, userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Forfeit concedes the battle.
func (h *BattleHandler) Forfeit(c *gin.Context) {
	id := battleIDParam(c)
	if id == "" {
		return
	}
	res, err := h.svc.Forfeit(c.Request.Context(), id, userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
