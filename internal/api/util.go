package api

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/cyberchess/cyberchess/internal/constants"
	"github.com/cyberchess/cyberchess/internal/engine"
	"github.com/cyberchess/cyberchess/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var joinCodeRegex = regexp.MustCompile(`^[A-Z0-9]{6}$`)

func normalizeJoinCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// sessionCode extracts and validates the :code path parameter, writing a 400
// response when it is malformed.
func sessionCode(c *gin.Context) (string, bool) {
	code := normalizeJoinCode(c.Param("code"))
	if !joinCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidSessionCode})
		return "", false
	}
	return code, true
}

// respondError maps domain errors to HTTP statuses with stable messages.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrSessionNotFound})
	case errors.Is(err, service.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRole})
	case errors.Is(err, service.ErrSessionFull):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrSessionFull})
	case errors.Is(err, service.ErrRoleTaken):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrRoleAlreadyTaken})
	case errors.Is(err, service.ErrAlreadyJoined):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrPlayerNotInSession})
	case errors.Is(err, service.ErrPlayerNotFound):
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrPlayerNotInSession})
	case errors.Is(err, service.ErrNotHost):
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrOnlyHostMayStart})
	case errors.Is(err, service.ErrNotAllReady), errors.Is(err, service.ErrNotEnoughPlayers):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNotAllPlayersReady})
	case errors.Is(err, service.ErrSessionNotJoinable):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrSessionNotWaiting})
	case errors.Is(err, engine.ErrInvalidSessionState):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrSessionNotPlaying})
	case errors.Is(err, engine.ErrNotPlayersTurn):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNotPlayersTurn})
	case errors.Is(err, engine.ErrUnknownTactic):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrUnknownTactic})
	case errors.Is(err, engine.ErrTacticOnCooldown):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrTacticOnCooldown})
	case errors.Is(err, engine.ErrInsufficientResources):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrInsufficientResources})
	case errors.Is(err, engine.ErrInvalidTarget):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidTarget})
	case errors.Is(err, service.ErrRoundOutOfRange):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRound})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: err.Error()})
	}
}
