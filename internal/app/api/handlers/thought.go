package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/quietleaf/mindlog/internal/app/service/thought"
	"github.com/quietleaf/mindlog/pkg/response"
)

type CreateThoughtRequest struct {
	Thought     string   `json:"thought" binding:"required"`
	Trigger     string   `json:"trigger"`
	Emotions    []string `json:"emotions"`
	IsImportant bool     `json:"is_important"`
}

type UpdateThoughtRequest struct {
	Thought     *string  `json:"thought"`
	Trigger     *string  `json:"trigger"`
	Emotions    []string `json:"emotions"`
	IsImportant *bool    `json:"is_important"`
}

func thoughtError(c *gin.Context, err error) {
	if errors.Is(err, thought.ErrNotFound) {
		c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeNotFound, "thought not found"))
		return
	}
	c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
}

// @Summary      Create a thought
// @Description  Stores a journal entry and attaches the AI commentary.
// @Tags         Thoughts
// @Accept       json
// @Produce      json
// @Param        request  body      CreateThoughtRequest  true  "Thought"
// @Success      200      {object}  response.APIResponse[models.Thought]
// @Router       /api/v1/thoughts [post]
func ApiCreateThought(svc *thought.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateThoughtRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		t, err := svc.Create(c.Request.Context(), currentUserID(c), &thought.CreateRequest{
			Content:     req.Thought,
			Trigger:     req.Trigger,
			Emotions:    req.Emotions,
			IsImportant: req.IsImportant,
		})
		if err != nil {
			thoughtError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(t))
	}
}

// @Summary      List thoughts
// @Tags         Thoughts
// @Produce      json
// @Param        limit  query     int  false  "Max entries, newest first"
// @Success      200    {object}  response.APIResponse[[]models.Thought]
// @Router       /api/v1/thoughts [get]
func ApiListThoughts(svc *thought.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 0
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid limit"))
				return
			}
			limit = n
		}
		rows, err := svc.List(c.Request.Context(), currentUserID(c), limit)
		if err != nil {
			thoughtError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(rows))
	}
}

// @Summary      Get a thought
// @Tags         Thoughts
// @Produce      json
// @Param        id   path      string  true  "Thought ID"
// @Success      200  {object}  response.APIResponse[models.Thought]
// @Router       /api/v1/thoughts/{id} [get]
func ApiGetThought(svc *thought.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := svc.GetByID(c.Request.Context(), currentUserID(c), c.Param("id"))
		if err != nil {
			thoughtError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(t))
	}
}

// @Summary      Update a thought
// @Tags         Thoughts
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Thought ID"
// @Param        request  body      UpdateThoughtRequest  true  "Fields to update"
// @Success      200      {object}  response.APIResponse[any]
// @Router       /api/v1/thoughts/{id} [patch]
func ApiUpdateThought(svc *thought.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateThoughtRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		err := svc.Update(c.Request.Context(), currentUserID(c), c.Param("id"), &thought.UpdateRequest{
			Content:     req.Thought,
			Trigger:     req.Trigger,
			Emotions:    req.Emotions,
			IsImportant: req.IsImportant,
		})
		if err != nil {
			thoughtError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      Delete a thought
// @Tags         Thoughts
// @Produce      json
// @Param        id   path      string  true  "Thought ID"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/thoughts/{id} [delete]
func ApiDeleteThought(svc *thought.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
			thoughtError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterThoughtRoutes(r gin.IRouter, svc *thought.Service) {
	r.POST("/thoughts", ApiCreateThought(svc))
	r.GET("/thoughts", ApiListThoughts(svc))
	r.GET("/thoughts/:id", ApiGetThought(svc))
	r.PATCH("/thoughts/:id", ApiUpdateThought(svc))
	r.DELETE("/thoughts/:id", ApiDeleteThought(svc))
}
