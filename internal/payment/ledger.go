// Package payment — реестр платежей по этапам сделки.
//
// Заказ создаётся в статусе Hold (средства зарезервированы), подтверждение
// оплаты переводит его в Paid и каскадно помечает оплаченными акты этапа.
package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"garant-backend/internal/dblog"
	"garant-backend/internal/documents"
	"garant-backend/internal/notify"
	"garant-backend/models"

	"github.com/Knetic/govaluate"
	"github.com/divan/num2words"
	"gorm.io/gorm"
)

// Id заказов выдаются из диапазона, следующего за диапазоном сделок.
const firstOrderID = 1000000

// Валюта площадки фиксирована.
const currency = "RUB"

// optionalTypePrefix + номер этапа — служебный тег заказа.
const optionalTypePrefix = "DocumentCustomerAct"

var (
	// ErrEmptyOriginalID — не передан Id предмета сделки.
	ErrEmptyOriginalID = errors.New("не передан Id предмета сделки")

	// ErrBadIteration — номер этапа вне лестницы сделки.
	ErrBadIteration = errors.New("номер этапа вне диапазона 1..4")

	// ErrBadFormula — формула комиссии не разбирается или даёт не число.
	ErrBadFormula = errors.New("некорректная формула комиссии")
)

// Description — краткое и полное описание платежа.
type Description struct {
	Short string `json:"short"`
	Full  string `json:"full"`
}

// PaymentStatus — итог подтверждения платежа.
type PaymentStatus struct {
	OrderID  int64  `json:"orderId"`
	Status   string `json:"status"`
	IsPay    bool   `json:"isPay"`
	PaidActs int64  `json:"paidActs"`
}

type Ledger struct {
	db         *gorm.DB
	docs       *documents.Store
	log        *dblog.Logger
	notify     *notify.Service // nil — уведомления отключены
	commission *govaluate.EvaluableExpression
}

// NewLedger собирает реестр платежей. Формула комиссии площадки настраивается
// (параметр amount), например "amount * 0.05".
func NewLedger(db *gorm.DB, docs *documents.Store, log *dblog.Logger, notifier *notify.Service, commissionFormula string) (*Ledger, error) {
	expression, err := govaluate.NewEvaluableExpression(commissionFormula)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrBadFormula, commissionFormula, err)
	}

	return &Ledger{db: db, docs: docs, log: log, notify: notifier, commission: expression}, nil
}

// Commission вычисляет комиссию площадки с суммы платежа.
func (l *Ledger) Commission(amount float64) (float64, error) {
	result, err := l.commission.Evaluate(map[string]interface{}{"amount": amount})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadFormula, err)
	}

	value, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: результат не является числом", ErrBadFormula)
	}

	return math.Round(value*100) / 100, nil
}

// amountInWords разворачивает сумму в слова для полного описания заказа.
func amountInWords(amount float64) string {
	rubles := int(amount)
	kopecks := int(math.Round((amount - float64(rubles)) * 100))
	return fmt.Sprintf("%s рублей %02d копеек", num2words.Convert(rubles), kopecks)
}

// CreateOrder создаёт или обновляет холдовый заказ этапа. Заказ уникален по
// ключу (предмет, пользователь, тип, этап, служебный тег); проверка и
// обновление используют один и тот же ключ внутри одной транзакции.
func (l *Ledger) CreateOrder(ctx context.Context, originalID int64, amount float64, desc Description, orderType, userID string, iteration int) (*models.Order, error) {
	if originalID <= 0 {
		return nil, ErrEmptyOriginalID
	}
	if iteration < 1 || iteration > 4 {
		return nil, ErrBadIteration
	}

	commission, err := l.Commission(amount)
	if err != nil {
		return nil, err
	}

	optionalType := optionalTypePrefix + strconv.Itoa(iteration)
	fullName := desc.Full
	if fullName != "" {
		fullName += " — "
	}
	fullName += amountInWords(amount)

	var order models.Order

	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.Where("original_id = ? AND user_id = ? AND order_type = ? AND iteration = ? AND optional_type = ?",
			originalID, userID, orderType, iteration, optionalType).
			First(&order).Error

		if findErr != nil && !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		isNew := errors.Is(findErr, gorm.ErrRecordNotFound)
		if isNew {
			var lastID int64
			if idErr := tx.Model(&models.Order{}).
				Select("coalesce(max(order_id), 0)").
				Scan(&lastID).Error; idErr != nil {
				return idErr
			}
			if lastID < firstOrderID {
				lastID = firstOrderID
			}

			order = models.Order{
				OrderID:      lastID + 1,
				OriginalID:   originalID,
				OrderType:    orderType,
				UserID:       userID,
				Iteration:    iteration,
				OptionalType: optionalType,
				ProductCount: 1,
			}
		}

		order.Amount = amount
		order.TotalAmount = amount
		order.Commission = commission
		order.Currency = currency
		order.DateCreate = time.Now()
		order.ShortOrderName = desc.Short
		order.FullOrderName = fullName
		order.OrderStatus = models.OrderStatusHold

		if isNew {
			return tx.Create(&order).Error
		}
		return tx.Save(&order).Error
	})
	if err != nil {
		l.log.Critical(err)
		return nil, err
	}

	if l.notify != nil {
		l.notify.Notify(ctx, userID, notify.EventPaymentHold, map[string]any{
			"orderId":   order.OrderID,
			"amount":    amount,
			"iteration": iteration,
		})
	}

	return &order, nil
}

// ConfirmPayment подтверждает оплату заказа и помечает оплаченными акты его
// этапа. Неизвестный заказ — штатный исход: возвращается nil без ошибки.
func (l *Ledger) ConfirmPayment(ctx context.Context, orderID int64) (*PaymentStatus, error) {
	var order models.Order
	var paidActs int64

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if findErr := tx.Where("order_id = ?", orderID).First(&order).Error; findErr != nil {
			return findErr
		}

		if updErr := tx.Model(&order).Update("order_status", models.OrderStatusPaid).Error; updErr != nil {
			return updErr
		}

		var cascadeErr error
		paidActs, cascadeErr = l.docs.WithTx(tx).MarkActsPaid(ctx, order.OriginalID, order.Iteration)
		return cascadeErr
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		l.log.Critical(err)
		return nil, err
	}

	if l.notify != nil {
		l.notify.Notify(ctx, order.UserID, notify.EventPaymentConfirmed, map[string]any{
			"orderId":   order.OrderID,
			"iteration": order.Iteration,
		})
	}

	return &PaymentStatus{
		OrderID:  order.OrderID,
		Status:   models.OrderStatusPaid,
		IsPay:    true,
		PaidActs: paidActs,
	}, nil
}

// Orders возвращает реестр заказов по убыванию Id — для выгрузки отчёта.
func (l *Ledger) Orders(ctx context.Context) ([]models.Order, error) {
	var result []models.Order

	err := l.db.WithContext(ctx).
		Order("order_id desc").
		Find(&result).Error
	if err != nil {
		l.log.Critical(err)
		return nil, err
	}

	return result, nil
}
