package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"garant-backend/internal/payment"
	"garant-backend/internal/users"

	"github.com/gin-gonic/gin"
)

// holdOrderInput — запрос на холдирование суммы этапа.
type holdOrderInput struct {
	OriginalID  int64               `json:"originalId" binding:"required"`
	Amount      float64             `json:"amount" binding:"required"`
	Description payment.Description `json:"description"`
	OrderType   string              `json:"orderType" binding:"required"`
	Account     string              `json:"account" binding:"required"`
	Iteration   int                 `json:"iteration" binding:"required"`
}

// HoldOrderHandler создаёт или обновляет холдовый заказ этапа сделки.
func HoldOrderHandler(ledger *payment.Ledger, directory *users.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input holdOrderInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
			return
		}

		userID, err := directory.FindUserIDUniverse(c.Request.Context(), input.Account)
		if errors.Is(err, users.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Пользователь не найден"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось определить пользователя"})
			return
		}

		order, err := ledger.CreateOrder(c.Request.Context(), input.OriginalID, input.Amount, input.Description, input.OrderType, userID, input.Iteration)
		if err != nil {
			paymentError(c, err)
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// ConfirmPaymentHandler подтверждает оплату заказа: статус становится Paid,
// акты этапа помечаются оплаченными.
func ConfirmPaymentHandler(ledger *payment.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || orderID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Не передан Id заказа"})
			return
		}

		status, err := ledger.ConfirmPayment(c.Request.Context(), orderID)
		if err != nil {
			paymentError(c, err)
			return
		}
		if status == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Заказ не найден"})
			return
		}

		c.JSON(http.StatusOK, status)
	}
}

func paymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, payment.ErrEmptyOriginalID),
		errors.Is(err, payment.ErrBadIteration),
		errors.Is(err, payment.ErrBadFormula):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Операция с заказом не выполнена"})
	}
}
