package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quietleaf/mindlog/internal/app/service/chat"
	"github.com/quietleaf/mindlog/internal/app/service/thought"
	"github.com/quietleaf/mindlog/pkg/response"
)

// limitReachedMessage is shown to free users at the daily cap; clients pair
// it with upgrade messaging rather than an error toast.
const limitReachedMessage = "Has consumido tus 10 mensajes diarios. Actualiza a premium para mensajes ilimitados."

type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
	// Context carries the caller-held transcript for general conversations;
	// ignored for thought-scoped chat, whose transcript lives on the thought.
	Context string `json:"context"`
}

func chatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrDailyLimitReached):
		c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeLimitReached, limitReachedMessage))
	case errors.Is(err, thought.ErrNotFound):
		c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeNotFound, "thought not found"))
	case errors.Is(err, chat.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, "unauthenticated"))
	default:
		c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
	}
}

// @Summary      Send a chat message about a thought
// @Description  One chat turn scoped to a journal entry. Free tier is capped per day.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Thought ID"
// @Param        request  body      SendMessageRequest  true  "Message"
// @Success      200      {object}  response.APIResponse[chat.MessageResult]
// @Router       /api/v1/thoughts/{id}/chat [post]
func ApiSendThoughtChatMessage(gw chat.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := gw.SendThoughtMessage(c.Request.Context(), currentUserID(c), c.Param("id"), req.Message)
		if err != nil {
			chatError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Send a general chat message
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body      SendMessageRequest  true  "Message and caller-held context"
// @Success      200      {object}  response.APIResponse[chat.MessageResult]
// @Router       /api/v1/chat/general [post]
func ApiSendGeneralChatMessage(gw chat.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := gw.SendGeneralMessage(c.Request.Context(), currentUserID(c), req.Message, req.Context)
		if err != nil {
			chatError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Check the daily message limit
// @Tags         Chat
// @Produce      json
// @Success      200  {object}  response.APIResponse[chat.LimitStatus]
// @Router       /api/v1/chat/limit [get]
func ApiCheckMessageLimit(gw chat.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := gw.CheckLimit(c.Request.Context(), currentUserID(c))
		if err != nil {
			chatError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterChatRoutes(r gin.IRouter, gw chat.Gateway) {
	r.POST("/thoughts/:id/chat", ApiSendThoughtChatMessage(gw))
	r.POST("/chat/general", ApiSendGeneralChatMessage(gw))
	r.GET("/chat/limit", ApiCheckMessageLimit(gw))
}
