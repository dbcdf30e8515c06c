package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/WiFiVoucher/internal/http/api"
	"github.com/router-for-me/WiFiVoucher/internal/models"
	"github.com/router-for-me/WiFiVoucher/internal/payment"
	"github.com/router-for-me/WiFiVoucher/internal/store"
	"github.com/router-for-me/WiFiVoucher/internal/voucher"
	log "github.com/sirupsen/logrus"
)

type purchaseRequest struct {
	PlanID        string `json:"planId"`
	PaymentMethod string `json:"paymentMethod"`
	PhoneNumber   string `json:"phoneNumber"`
}

// Purchase charges the caller for a plan and issues a voucher.
//
// The voucher insert, payment insert and activity insert run without a
// transaction; a failure after the charge leaves a paid checkout with no
// voucher and is only visible in the logs.
func (h *VoucherHandler) Purchase(c *gin.Context) {
	userID := api.UserID(c)
	var body purchaseRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid plan selected"})
		return
	}

	ctx := c.Request.Context()
	plan := h.store.GetVoucherPlan(ctx, body.PlanID)
	if plan == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid plan selected"})
		return
	}
	method := strings.ToLower(strings.TrimSpace(body.PaymentMethod))
	if !payment.ValidMethod(method) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payment method"})
		return
	}
	phone := strings.TrimSpace(body.PhoneNumber)
	if method == models.PaymentMethodMpesa && !payment.ValidatePhoneNumber(phone) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid phone number"})
		return
	}

	reference := fmt.Sprintf("voucher-%d", h.store.Now().UnixMilli())
	result, errPay := h.gateway.Process(ctx, payment.Request{
		Amount:      plan.Price,
		Method:      method,
		PhoneNumber: phone,
		Reference:   reference,
	})
	if errPay != nil {
		api.InternalError(c, "process payment", errPay)
		return
	}
	if !result.Success {
		h.metrics.ObservePayment(method, models.PaymentStatusFailed)
		if _, errRecord := h.store.RecordPayment(ctx, store.NewPayment{
			UserID:      userID,
			Amount:      plan.Price,
			Currency:    result.Currency,
			Method:      method,
			PhoneNumber: phone,
			Reference:   reference,
			Status:      models.PaymentStatusFailed,
		}); errRecord != nil {
			log.WithError(errRecord).WithField("reference", reference).Warn("record failed payment")
		}
		if errLog := h.store.LogActivity(ctx, store.NewActivity{
			UserID:   userID,
			Type:     models.ActivityPaymentFailed,
			Message:  "Payment failed for " + plan.Name,
			Metadata: map[string]any{"reference": reference, "method": method, "amount": plan.Price},
		}); errLog != nil {
			log.WithError(errLog).Warn("log payment failure activity failed")
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": result.Message})
		return
	}

	code, errCode := voucher.GenerateCode()
	if errCode != nil {
		api.InternalError(c, "generate voucher code", errCode)
		return
	}
	issued, errCreate := h.store.CreateVoucher(ctx, code, plan.ID, userID)
	if errCreate != nil {
		log.WithFields(log.Fields{"reference": reference, "transaction_id": result.TransactionID}).
			WithError(errCreate).Error("voucher not issued after successful payment")
		api.InternalError(c, "create voucher", errCreate)
		return
	}
	h.metrics.ObserveVoucherIssued()
	h.metrics.ObservePayment(method, models.PaymentStatusCompleted)

	if _, errRecord := h.store.RecordPayment(ctx, store.NewPayment{
		UserID:        userID,
		VoucherID:     &issued.ID,
		Amount:        plan.Price,
		Currency:      result.Currency,
		Method:        method,
		PhoneNumber:   phone,
		TransactionID: result.TransactionID,
		Reference:     reference,
		Status:        models.PaymentStatusCompleted,
	}); errRecord != nil {
		log.WithError(errRecord).WithField("voucher_id", issued.ID).Error("record completed payment")
	}
	if errLog := h.store.LogActivity(ctx, store.NewActivity{
		UserID:   userID,
		Type:     models.ActivityVoucherPurchased,
		Message:  "Voucher purchased: " + plan.Name,
		Metadata: map[string]any{"voucher_id": issued.ID, "code": issued.Code, "amount": plan.Price, "method": method},
	}); errLog != nil {
		log.WithError(errLog).Warn("log purchase activity failed")
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Voucher purchased successfully",
		"voucher": gin.H{
			"id":        issued.ID,
			"code":      issued.Code,
			"plan_name": plan.Name,
		},
		"transactionId": result.TransactionID,
	})
}
