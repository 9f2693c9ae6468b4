package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"garant-backend/internal/payment"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// OrdersReportHandler выгружает реестр заказов в xlsx.
func OrdersReportHandler(ledger *payment.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := ledger.Orders(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить реестр заказов"})
			return
		}

		f := excelize.NewFile()
		sheetName := "Реестр заказов"
		index, _ := f.NewSheet(sheetName)
		f.SetActiveSheet(index)
		f.DeleteSheet("Sheet1")

		headers := []string{"Номер заказа", "Предмет сделки", "Сумма", "Комиссия", "Валюта", "Статус", "Этап", "Пользователь", "Дата создания"}
		for i, header := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheetName, cell, header)
		}

		for i, order := range orders {
			row := i + 2
			f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), order.OrderID)
			f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), order.OriginalID)
			f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), order.Amount)
			f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), order.Commission)
			f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), order.Currency)
			f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), order.OrderStatus)
			f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), order.Iteration)
			f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), order.UserID)
			f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), order.DateCreate.Format("02.01.2006 15:04"))
		}

		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", `attachment; filename="orders.xlsx"`)

		if err := f.Write(c.Writer); err != nil {
			slog.Error("не удалось записать xlsx-отчёт", "error", err)
		}
	}
}
