package api

import (
	"net/http"
	"time"

	"github.com/cyberchess/cyberchess/internal/constants"
	"github.com/cyberchess/cyberchess/internal/game"
	"github.com/cyberchess/cyberchess/internal/logging"

	"github.com/gin-gonic/gin"
)

type actionRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	TacticID    string `json:"tactic_id" binding:"required"`
	TargetLayer string `json:"target_layer"`
}

// submitAction commits one player order for the current round.
func (h *Handler) submitAction(c *gin.Context) {
	code, ok := sessionCode(c)
	if !ok {
		return
	}
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	act := game.Action{
		PlayerID:    req.UserID,
		TacticID:    req.TacticID,
		TargetLayer: req.TargetLayer,
		Timestamp:   time.Now(),
	}
	result, sess, err := h.svc.SubmitAction(code, act)
	if err != nil {
		respondError(c, err)
		return
	}

	logging.Info("action resolved", logging.Fields{
		constants.LogFieldJoinCode: code,
		constants.LogFieldUserID:   req.UserID,
		constants.LogFieldTactic:   req.TacticID,
		constants.LogFieldRound:    sess.State.CurrentRound,
		"success":                  result.Success,
	})
	c.JSON(http.StatusOK, gin.H{"result": result, "session": sess})
}
