package http

import (
	nethttp "net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"GroveWorld/internal/grove/interfaces/handler"
	"GroveWorld/internal/grove/interfaces/handler/dto"
	"GroveWorld/internal/grove/service"
	"GroveWorld/internal/shared/transport"
)

// postActions maps POST /api/grove/<path> to action names.
var postActions = map[string]string{
	"init":      service.ActionInit,
	"move":      service.ActionMove,
	"plant":     service.ActionPlant,
	"water":     service.ActionWater,
	"fertilize": service.ActionFertilize,
	"harvest":   service.ActionHarvest,
	"seeds":     service.ActionBuySeeds,
	"land":      service.ActionBuyLand,
	"supplies":  service.ActionBuySupplies,
	"chat":      service.ActionChatSend,
}

type HttpHandler struct {
	grove *handler.Grove
}

func NewHttpHandler(g *handler.Grove) *HttpHandler {
	return &HttpHandler{grove: g}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	api := group.Group("/api")
	api.POST("/session", h.Session)

	grove := api.Group("/grove")
	for path, action := range postActions {
		grove.POST("/"+path, h.post(action))
	}
	grove.GET("/nearby", h.Nearby)
	grove.GET("/chat", h.RecentChat)
}

// Session issues a development token.
func (h *HttpHandler) Session(c *gin.Context) {
	var req dto.SessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "invalid parameters")
		return
	}
	h.reply(c, h.grove.IssueToken(c.Request.Context(), req.Username))
}

func (h *HttpHandler) post(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload := map[string]any{}
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&payload); err != nil {
				h.fail(c, transport.InvalidParam, "invalid parameters")
				return
			}
		}
		h.run(c, action, payload)
	}
}

func (h *HttpHandler) Nearby(c *gin.Context) {
	payload := map[string]any{}
	if raw := c.Query("radius"); raw != "" {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.fail(c, transport.InvalidParam, "invalid radius")
			return
		}
		payload["radius"] = radius
	}
	h.run(c, service.ActionNearby, payload)
}

func (h *HttpHandler) RecentChat(c *gin.Context) {
	payload := map[string]any{}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			h.fail(c, transport.InvalidParam, "invalid limit")
			return
		}
		payload["limit"] = limit
	}
	h.run(c, service.ActionChatRecent, payload)
}

func (h *HttpHandler) run(c *gin.Context, action string, payload map[string]any) {
	ctx := c.Request.Context()
	h.reply(c, h.grove.Handle(ctx, c.GetHeader("Authorization"), action, payload))
}

func (h *HttpHandler) reply(c *gin.Context, r handler.Reply) {
	c.JSON(nethttp.StatusOK, dto.Response{Code: r.Code, Msg: r.Msg, Data: r.Data})
}

func (h *HttpHandler) fail(c *gin.Context, code int, msg string) {
	c.JSON(nethttp.StatusOK, dto.Error(code, msg))
}

