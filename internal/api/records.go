package api

import (
	"net/http"
	"strconv"

	"github.com/cyberchess/cyberchess/internal/constants"

	"github.com/gin-gonic/gin"
)

func (h *Handler) getRecord(c *gin.Context) {
	rec, err := h.svc.GetRecord(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// getRecordState reconstructs a finished game's state at a round boundary.
func (h *Handler) getRecordState(c *gin.Context) {
	round, err := strconv.Atoi(c.Param("round"))
	if err != nil || round < 1 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRound})
		return
	}
	snap, err := h.replays.StateAtRound(c.Param("id"), round)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) getUserRecords(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	recs, err := h.svc.RecordsForUser(c.Param("id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": recs})
}

func (h *Handler) getLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	users, err := h.svc.Leaderboard(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": users})
}
