package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quietleaf/mindlog/internal/app/service/profile"
	"github.com/quietleaf/mindlog/pkg/response"
)

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
}

// @Summary      Get the caller's profile
// @Tags         Profile
// @Produce      json
// @Success      200  {object}  response.APIResponse[models.Profile]
// @Router       /api/v1/profile [get]
func ApiGetProfile(svc *profile.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), currentUserID(c))
		if err != nil {
			if errors.Is(err, profile.ErrNotFound) {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeNotFound, "profile not found"))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(p))
	}
}

// @Summary      Update the caller's profile
// @Tags         Profile
// @Accept       json
// @Produce      json
// @Param        request  body      UpdateProfileRequest  true  "Editable fields"
// @Success      200      {object}  response.APIResponse[any]
// @Router       /api/v1/profile [patch]
func ApiUpdateProfile(svc *profile.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if err := svc.Update(c.Request.Context(), currentUserID(c), req.DisplayName); err != nil {
			if errors.Is(err, profile.ErrNotFound) {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeNotFound, "profile not found"))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterProfileRoutes(r gin.IRouter, svc *profile.Service) {
	r.GET("/profile", ApiGetProfile(svc))
	r.PATCH("/profile", ApiUpdateProfile(svc))
}
