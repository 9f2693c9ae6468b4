// Package deal — управление сделками и их фиксированными этапами.
package deal

import (
	"context"
	"errors"

	"garant-backend/internal/dblog"
	"garant-backend/internal/notify"
	"garant-backend/models"

	"gorm.io/gorm"
)

// Id сделок выдаются из собственного диапазона.
const firstDealID = 1000000

// ErrEmptyItemID — не передан Id предмета сделки.
var ErrEmptyItemID = errors.New("не передан Id предмета сделки")

// ErrEmptyUserID — не передан Id инициатора сделки.
var ErrEmptyUserID = errors.New("не передан Id пользователя")

type Manager struct {
	db     *gorm.DB
	log    *dblog.Logger
	notify *notify.Service // nil — уведомления отключены
}

func NewManager(db *gorm.DB, log *dblog.Logger, notifier *notify.Service) *Manager {
	return &Manager{db: db, log: log, notify: notifier}
}

// iterationLadder возвращает четыре канонических этапа новой сделки.
func iterationLadder(dealID int64) []models.DealIteration {
	return []models.DealIteration{
		{
			NumberIteration: 1,
			IterationName:   "Холдирование суммы",
			IterationDetail: "Необходимо для подтверждения покупательской способности",
			Position:        1,
			DealID:          dealID,
		},
		{
			NumberIteration: 2,
			IterationName:   "Согласование этапов сделки",
			IterationDetail: "Перед согласованием договора следует договориться об этапах",
			Position:        2,
			DealID:          dealID,
		},
		{
			NumberIteration: 3,
			IterationName:   "Согласование договора",
			IterationDetail: "Согласование всех деталей договора",
			Position:        3,
			DealID:          dealID,
		},
		{
			NumberIteration: 4,
			IterationName:   "Оплата и исполнение этапов сделки",
			IterationDetail: "Получение оплаты, исполнение продажи каждого этапа",
			Position:        4,
			DealID:          dealID,
		},
	}
}

// CreateDeal создаёт сделку и её лестницу этапов одной транзакцией.
// Первая сделка получает Id 1000000, далее max+1.
func (m *Manager) CreateDeal(ctx context.Context, itemID int64, userID string) (*models.Deal, error) {
	if itemID <= 0 {
		return nil, ErrEmptyItemID
	}
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	var created models.Deal

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lastID int64
		if err := tx.Model(&models.Deal{}).
			Select("coalesce(max(deal_id), 0)").
			Scan(&lastID).Error; err != nil {
			return err
		}

		dealID := int64(firstDealID)
		if lastID >= firstDealID {
			dealID = lastID + 1
		}

		created = models.Deal{
			DealID:     dealID,
			DealItemID: itemID,
			UserID:     userID,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		iterations := iterationLadder(dealID)
		if err := tx.Create(&iterations).Error; err != nil {
			return err
		}

		created.Iterations = iterations
		return nil
	})
	if err != nil {
		m.log.Critical(err)
		return nil, err
	}

	if m.notify != nil {
		m.notify.Notify(ctx, userID, notify.EventDealCreated, map[string]any{
			"dealId":     created.DealID,
			"dealItemId": itemID,
		})
	}

	return &created, nil
}

// GetDeal возвращает сделку вместе с её этапами, nil — если сделки нет.
func (m *Manager) GetDeal(ctx context.Context, dealID int64) (*models.Deal, error) {
	var found models.Deal

	err := m.db.WithContext(ctx).
		Preload("Iterations", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Where("deal_id = ?", dealID).
		First(&found).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		m.log.Critical(err)
		return nil, err
	}

	return &found, nil
}

// CurrentIteration возвращает активный этап сделки: первый, платёж по которому
// ещё не подтверждён. После оплаты всех этапов активным остаётся последний.
func (m *Manager) CurrentIteration(ctx context.Context, dealID int64) (*models.DealIteration, error) {
	found, err := m.GetDeal(ctx, dealID)
	if err != nil || found == nil {
		return nil, err
	}

	var paidOrders int64
	err = m.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("original_id = ? AND order_status = ?", found.DealItemID, models.OrderStatusPaid).
		Count(&paidOrders).Error
	if err != nil {
		m.log.Critical(err)
		return nil, err
	}

	active := int(paidOrders) + 1
	if active > len(found.Iterations) {
		active = len(found.Iterations)
	}

	for i := range found.Iterations {
		if found.Iterations[i].NumberIteration == active {
			return &found.Iterations[i], nil
		}
	}

	return nil, nil
}

// Complete помечает сделку завершённой. false — сделки нет.
func (m *Manager) Complete(ctx context.Context, dealID int64) (bool, error) {
	var completed models.Deal

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if findErr := tx.Where("deal_id = ?", dealID).First(&completed).Error; findErr != nil {
			return findErr
		}
		return tx.Model(&completed).Update("is_completed_deal", true).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		m.log.Critical(err)
		return false, err
	}

	if m.notify != nil {
		m.notify.Notify(ctx, completed.UserID, notify.EventDealCompleted, map[string]any{
			"dealId": dealID,
		})
	}

	return true, nil
}
