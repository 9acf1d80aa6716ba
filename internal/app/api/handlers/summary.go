package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quietleaf/mindlog/internal/app/service/summary"
	"github.com/quietleaf/mindlog/pkg/response"
)

// @Summary      Weekly summary
// @Description  Premium-only narrative summary of the current calendar week; free tier gets a locked placeholder.
// @Tags         Summary
// @Produce      json
// @Success      200  {object}  response.APIResponse[summary.WeeklySummary]
// @Router       /api/v1/summary/weekly [get]
func ApiGetWeeklySummary(svc summary.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.GetWeekly(c.Request.Context(), currentUserID(c))
		if err != nil {
			if errors.Is(err, summary.ErrUnauthenticated) {
				c.JSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, "unauthenticated"))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterSummaryRoutes(r gin.IRouter, svc summary.Provider) {
	r.GET("/summary/weekly", ApiGetWeeklySummary(svc))
}
