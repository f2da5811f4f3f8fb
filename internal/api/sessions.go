package api

import (
	"net/http"
	"time"

	"github.com/cyberchess/cyberchess/internal/constants"
	"github.com/cyberchess/cyberchess/internal/game"

	"github.com/gin-gonic/gin"
)

type createSessionRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Username string `json:"username" binding:"required"`
	Role     string `json:"role" binding:"required"`
	Mode     string `json:"mode"`
	Private  bool   `json:"private"`
}

func (h *Handler) createSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	sess, err := h.svc.CreateSession(req.UserID, req.Username, game.Role(req.Role), req.Mode, req.Private)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

func (h *Handler) listSessions(c *gin.Context) {
	sessions, err := h.svc.PublicSessions()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

type joinSessionRequest struct {
	Code     string `json:"code" binding:"required"`
	UserID   string `json:"user_id" binding:"required"`
	Username string `json:"username" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

func (h *Handler) joinSession(c *gin.Context) {
	var req joinSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	code := normalizeJoinCode(req.Code)
	if !joinCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidSessionCode})
		return
	}
	sess, err := h.svc.JoinSession(code, req.UserID, req.Username, game.Role(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *Handler) getSession(c *gin.Context) {
	code, ok := sessionCode(c)
	if !ok {
		return
	}
	sess, err := h.svc.GetSession(code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// listTactics returns the catalog for the caller's role, or the full
// catalog when no role is given.
func (h *Handler) listTactics(c *gin.Context) {
	if _, ok := sessionCode(c); !ok {
		return
	}
	roleParam := c.Query("role")
	if roleParam != "" {
		role := game.Role(roleParam)
		if !role.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRole})
			return
		}
		c.JSON(http.StatusOK, gin.H{"tactics": h.svc.Catalog().Tactics(role)})
		return
	}
	all := map[string]interface{}{}
	for _, role := range game.Roles {
		all[string(role)] = h.svc.Catalog().Tactics(role)
	}
	c.JSON(http.StatusOK, gin.H{"tactics": all})
}

type readyRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Ready  *bool  `json:"ready" binding:"required"`
}

func (h *Handler) setReady(c *gin.Context) {
	code, ok := sessionCode(c)
	if !ok {
		return
	}
	var req readyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	sess, err := h.svc.SetReady(code, req.UserID, *req.Ready)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

type userRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (h *Handler) startSession(c *gin.Context) {
	code, ok := sessionCode(c)
	if !ok {
		return
	}
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	sess, err := h.svc.StartSession(code, req.UserID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *Handler) pauseSession(c *gin.Context) {
	code, ok := sessionCode(c)
	if !ok {
		return
	}
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	sess, err := h.svc.PauseSession(code, req.UserID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *Handler) resumeSession(c *gin.Context) {
	code, ok := sessionCode(c)
	if !ok {
		return
	}
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	sess, err := h.svc.ResumeSession(code, req.UserID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *Handler) leaveSession(c *gin.Context) {
	code, ok := sessionCode(c)
	if !ok {
		return
	}
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	sess, err := h.svc.LeaveSession(code, req.UserID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}
