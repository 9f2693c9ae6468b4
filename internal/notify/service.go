// Package notify рассылает уведомления о смене состояния сделки.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"garant-backend/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Канал redis для внешних потребителей событий (мейлинги, смс-шлюз).
const Channel = "garant:notifications"

// Виды событий уведомлений.
const (
	EventDealCreated      = "DealCreated"
	EventDealCompleted    = "DealCompleted"
	EventDocumentAdded    = "DocumentAdded"
	EventDocumentSent     = "DocumentSent"
	EventDocumentApproved = "DocumentApproved"
	EventDocumentRejected = "DocumentRejected"
	EventPaymentHold      = "PaymentHold"
	EventPaymentConfirmed = "PaymentConfirmed"
)

// Service пишет уведомление в БД, публикует его в redis и пушит в websocket-хаб.
// Все три доставки fire-and-forget: сбой рассылки не роняет вызвавшую операцию.
type Service struct {
	db  *gorm.DB
	rdb *redis.Client // nil — публикация отключена
	hub *Hub          // nil — пуш отключён
}

func NewService(db *gorm.DB, rdb *redis.Client, hub *Hub) *Service {
	return &Service{db: db, rdb: rdb, hub: hub}
}

// Notify отправляет событие пользователю. Ошибки журналируются и не возвращаются.
func (s *Service) Notify(ctx context.Context, userID, eventKind string, payload map[string]any) {
	if userID == "" {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("не удалось сериализовать уведомление", "event", eventKind, "error", err)
		return
	}

	row := models.Notification{
		UserID:     userID,
		EventKind:  eventKind,
		Payload:    string(body),
		DateCreate: time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		slog.Warn("не удалось записать уведомление", "event", eventKind, "error", err)
	}

	envelope, _ := json.Marshal(map[string]any{
		"userId":  userID,
		"event":   eventKind,
		"payload": payload,
	})

	if s.rdb != nil {
		if err := s.rdb.Publish(ctx, Channel, envelope).Err(); err != nil {
			slog.Warn("не удалось опубликовать уведомление в redis", "event", eventKind, "error", err)
		}
	}

	if s.hub != nil {
		s.hub.Push(userID, envelope)
	}
}
