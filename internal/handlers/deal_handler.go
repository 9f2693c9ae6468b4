package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"garant-backend/internal/deal"
	"garant-backend/internal/users"

	"github.com/gin-gonic/gin"
)

// createDealInput — запрос на создание сделки.
type createDealInput struct {
	DealItemID int64  `json:"dealItemId" binding:"required"`
	Account    string `json:"account" binding:"required"`
}

// CreateDealHandler создаёт сделку с четырьмя фиксированными этапами.
func CreateDealHandler(deals *deal.Manager, directory *users.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input createDealInput
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

		created, err := deals.CreateDeal(c.Request.Context(), input.DealItemID, userID)
		if err != nil {
			dealError(c, err)
			return
		}

		c.JSON(http.StatusOK, created)
	}
}

// GetDealHandler возвращает сделку с её этапами.
func GetDealHandler(deals *deal.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		dealID, ok := paramDealID(c)
		if !ok {
			return
		}

		found, err := deals.GetDeal(c.Request.Context(), dealID)
		if err != nil {
			dealError(c, err)
			return
		}
		if found == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Сделка не найдена"})
			return
		}

		c.JSON(http.StatusOK, found)
	}
}

// CurrentIterationHandler возвращает активный этап сделки.
func CurrentIterationHandler(deals *deal.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		dealID, ok := paramDealID(c)
		if !ok {
			return
		}

		iteration, err := deals.CurrentIteration(c.Request.Context(), dealID)
		if err != nil {
			dealError(c, err)
			return
		}
		if iteration == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Сделка не найдена"})
			return
		}

		c.JSON(http.StatusOK, iteration)
	}
}

// CompleteDealHandler помечает сделку завершённой.
func CompleteDealHandler(deals *deal.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		dealID, ok := paramDealID(c)
		if !ok {
			return
		}

		completed, err := deals.Complete(c.Request.Context(), dealID)
		if err != nil {
			dealError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": completed})
	}
}

func paramDealID(c *gin.Context) (int64, bool) {
	dealID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || dealID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Не передан Id сделки"})
		return 0, false
	}
	return dealID, true
}

func dealError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, deal.ErrEmptyItemID), errors.Is(err, deal.ErrEmptyUserID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Операция со сделкой не выполнена"})
	}
}
