package api

import (
	"net/http"

	"github.com/ericogr/monster-arena/internal/battleerr"
	"github.com/ericogr/monster-arena/internal/constants"
	"github.com/ericogr/monster-arena/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var statusByKind = map[battleerr.Kind]int{
	battleerr.KindValidation:    http.StatusBadRequest,
	battleerr.KindAuthorization: http.StatusForbidden,
	battleerr.KindConflict:      http.StatusConflict,
	battleerr.KindTerminalState: http.StatusConflict,
	battleerr.KindNotFound:      http.StatusNotFound,
}

// respondError writes err as JSON. Battle errors keep their message, code and
// metadata; anything else is logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	if be, ok := battleerr.As(err); ok {
		status, known := statusByKind[be.Kind]
		if !known {
			status = http.StatusBadRequest
		}
		body := gin.H{constants.JSONKeyError: be.Message, constants.JSONKeyCode: be.Code}
		if len(be.Metadata) > 0 {
			body[constants.JSONKeyDetails] = be.Metadata
		}
		c.JSON(status, body)
		return
	}
	logging.Error("request failed", err, logging.Fields{
		constants.LogFieldPath:   c.FullPath(),
		constants.LogFieldUserID: userID(c),
	})
	c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInternal})
}

// battleIDParam returns the battle id path parameter, or "" after writing a
// 400 when it is not a battle id.
func battleIDParam(c *gin.Context) string {
	id := c.Param("battleID")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidBattleID})
		return ""
	}
	return id
}
