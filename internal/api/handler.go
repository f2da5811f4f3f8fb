package api

import (
	"net/http"
	"time"

	"github.com/cyberchess/cyberchess/internal/constants"
	"github.com/cyberchess/cyberchess/internal/service"
	"github.com/cyberchess/cyberchess/internal/version"
	"github.com/cyberchess/cyberchess/internal/ws"

	"github.com/gin-gonic/gin"
)

// Handler wires HTTP routes to the game service. It owns no game logic:
// requests are decoded, identity fields validated and the service called.
type Handler struct {
	svc     *service.Service
	replays *service.ReplayService
	hub     *ws.Hub
}

func NewHandler(svc *service.Service, replays *service.ReplayService, hub *ws.Hub) *Handler {
	return &Handler{svc: svc, replays: replays, hub: hub}
}

// RegisterRoutes mounts every endpoint on the router.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group(constants.RouteAPIPrefix)
	{
		api.POST(constants.RouteSessions, h.createSession)
		api.GET(constants.RouteSessions, h.listSessions)
		api.POST(constants.RouteSessionsJoin, h.joinSession)
		api.GET(constants.RouteSessionByCode, h.getSession)
		api.GET(constants.RouteSessionTactics, h.listTactics)
		api.POST(constants.RouteSessionReady, h.setReady)
		api.POST(constants.RouteSessionStart, h.startSession)
		api.POST(constants.RouteSessionPause, h.pauseSession)
		api.POST(constants.RouteSessionResume, h.resumeSession)
		api.POST(constants.RouteSessionAction, h.submitAction)
		api.POST(constants.RouteSessionLeave, h.leaveSession)
		api.GET(constants.RouteRecordByID, h.getRecord)
		api.GET(constants.RouteRecordState, h.getRecordState)
		api.GET(constants.RouteUserRecords, h.getUserRecords)
		api.GET(constants.RouteLeaderboard, h.getLeaderboard)
	}
	r.GET(constants.RouteWS, h.serveWS)
	r.GET(constants.RouteVersion, h.getVersion)
}

func (h *Handler) getVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": version.Version})
}

// serveWS streams session events. When the client identifies itself with a
// user_id query parameter, its seat is marked connected for the lifetime of
// the socket; spectators connect without one.
func (h *Handler) serveWS(c *gin.Context) {
	code, ok := sessionCode(c)
	if !ok {
		return
	}
	if _, err := h.svc.GetSession(code); err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrSessionNotFound})
		return
	}
	userID := c.Query("user_id")
	if userID != "" {
		// A spectator id simply does not match a seat; nothing to mark.
		_ = h.svc.MarkReconnected(code, userID)
	}
	h.hub.Serve(c.Writer, c.Request, code)
	if userID != "" {
		_ = h.svc.MarkDisconnected(code, userID, time.Now())
	}
}
