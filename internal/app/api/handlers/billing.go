package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quietleaf/mindlog/internal/app/service/billing"
	"github.com/quietleaf/mindlog/internal/platform/apple"
	"github.com/quietleaf/mindlog/pkg/response"
)

type VerifyReceiptRequest struct {
	ReceiptData string `json:"receipt_data" binding:"required"`
}

type VerifyReceiptResponse struct {
	Plan string `json:"plan"`
}

// @Summary      Verify an App Store receipt
// @Description  Verifies the receipt with Apple and grants the configured plan.
// @Tags         Billing
// @Accept       json
// @Produce      json
// @Param        request  body      VerifyReceiptRequest  true  "Receipt"
// @Success      200      {object}  response.APIResponse[VerifyReceiptResponse]
// @Router       /api/v1/billing/apple/verify_receipt [post]
func ApiVerifyAppleReceipt(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyReceiptRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		plan, err := svc.VerifyReceipt(c.Request.Context(), currentUserID(c), req.ReceiptData)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(VerifyReceiptResponse{Plan: string(plan)}))
	}
}

// ApiAppleNotifications is the public App Store server notification webhook.
// Non-2xx responses make Apple retry, so handling errors surface as 500.
func ApiAppleNotifications(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req apple.ServerNotificationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		traceID := c.GetString("traceID")
		if err := svc.HandleNotification(c.Request.Context(), traceID, req.SignedPayload); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	}
}

func RegisterBillingRoutes(r gin.IRouter, svc *billing.Service) {
	r.POST("/billing/apple/verify_receipt", ApiVerifyAppleReceipt(svc))
}

func RegisterBillingWebhookRoutes(r gin.IRouter, svc *billing.Service) {
	r.POST("/billing/apple/notifications", ApiAppleNotifications(svc))
}
