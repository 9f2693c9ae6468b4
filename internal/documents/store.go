// Package documents — единственный источник истины по документам сделки.
//
// Жизненный цикл документа: загружен → отправлен на согласование → подтверждён
// контрагентом → (для актов) оплачен. Отклонённый документ терминален для
// конкретной загрузки, повторная загрузка начинает цикл заново.
package documents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"garant-backend/internal/dblog"
	"garant-backend/internal/doctype"
	"garant-backend/internal/notify"
	"garant-backend/internal/users"
	"garant-backend/models"

	"gorm.io/gorm"
)

var (
	// ErrEmptyItemID — не передан или некорректен Id предмета сделки.
	ErrEmptyItemID = errors.New("не передан Id предмета сделки")

	// ErrWrongDocumentType — тип документа вне допустимого набора операции.
	ErrWrongDocumentType = errors.New("недопустимый тип документа")
)

type Store struct {
	db     *gorm.DB
	users  *users.Directory
	log    *dblog.Logger
	notify *notify.Service // nil — уведомления отключены
}

func NewStore(db *gorm.DB, directory *users.Directory, log *dblog.Logger, notifier *notify.Service) *Store {
	return &Store{db: db, users: directory, log: log, notify: notifier}
}

// WithTx возвращает копию хранилища, работающую в рамках переданной транзакции.
func (s *Store) WithTx(tx *gorm.DB) *Store {
	clone := *s
	clone.db = tx
	return &clone
}

// AddContractDocument записывает основной договор стороны. Повторная загрузка
// для той же пары (предмет, тип) перезаписывает документ: новое имя файла,
// флаги согласования сброшены, история не хранится.
func (s *Store) AddContractDocument(ctx context.Context, fileName string, itemID int64, side doctype.Side, isDealDocument bool, account string) (*models.Document, error) {
	return s.submit(ctx, fileName, itemID, doctype.Contract(side), isDealDocument, account)
}

// AddActDocument записывает акт этапа. Акт создаётся сразу отправленным
// и неоплаченным.
func (s *Store) AddActDocument(ctx context.Context, fileName string, itemID int64, docType doctype.Type, isDealDocument bool, account string) (*models.Document, error) {
	if !docType.IsAct() {
		return nil, fmt.Errorf("%w: ожидался акт, передан %s", ErrWrongDocumentType, docType)
	}
	return s.submit(ctx, fileName, itemID, docType, isDealDocument, account)
}

func (s *Store) submit(ctx context.Context, fileName string, itemID int64, docType doctype.Type, isDealDocument bool, account string) (*models.Document, error) {
	if itemID <= 0 {
		return nil, ErrEmptyItemID
	}

	userID, err := s.users.FindUserIDUniverse(ctx, account)
	if err != nil {
		return nil, err
	}

	document := models.Document{
		DateCreate:     time.Now(),
		DocumentItemID: itemID,
		DocumentName:   fileName,
		DocumentType:   docType.String(),
		IsDealDocument: isDealDocument,
		UserID:         userID,
	}
	if docType.IsAct() {
		paid := false
		document.IsSend = true
		document.IsPay = &paid
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Document
		findErr := tx.Where("document_item_id = ? AND document_type = ?", itemID, docType.String()).
			First(&existing).Error

		switch {
		case findErr == nil:
			// Документ уже загружался — обновляем ту же запись целиком.
			document.DocumentID = existing.DocumentID
			return tx.Save(&document).Error
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			return tx.Create(&document).Error
		default:
			return findErr
		}
	})
	if err != nil {
		s.log.Critical(err)
		return nil, err
	}

	if s.notify != nil {
		s.notify.Notify(ctx, userID, notify.EventDocumentAdded, map[string]any{
			"documentItemId": itemID,
			"documentType":   docType.String(),
		})
	}

	return &document, nil
}

// SetSendStatus отправляет документ на согласование контрагенту.
// Отсутствие подходящего документа — штатный исход, не ошибка.
func (s *Store) SetSendStatus(ctx context.Context, itemID int64, isDealDocument bool, docType doctype.Type) (bool, error) {
	var sent models.Document

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.Where("document_item_id = ? AND document_type = ? AND is_deal_document = ?",
			itemID, docType.String(), isDealDocument).
			First(&sent).Error
		if findErr != nil {
			return findErr
		}
		return tx.Model(&sent).Update("is_send", true).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		s.log.Critical(err)
		return false, err
	}

	if s.notify != nil {
		s.notify.Notify(ctx, sent.UserID, notify.EventDocumentSent, map[string]any{
			"documentItemId": itemID,
			"documentType":   docType.String(),
		})
	}

	return true, nil
}

// ApproveContract подтверждает основной договор стороны. Документ должен быть
// отправлен и не отклонён; иначе возвращается false без ошибки.
func (s *Store) ApproveContract(ctx context.Context, itemID int64, side doctype.Side) (bool, error) {
	if itemID <= 0 {
		return false, ErrEmptyItemID
	}

	token := doctype.Contract(side).String()
	return s.approve(ctx, itemID, token, "document_item_id = ? AND document_type = ? AND is_send = ? AND is_approve_document = ? AND is_reject_document = ?",
		itemID, token, true, false, false)
}

// ApproveAct подтверждает акт этапа. Тип обязан входить в закрытый набор актов
// указанной стороны, иначе операция завершается ошибкой ErrWrongDocumentType —
// в отличие от «документ не в том состоянии», который даёт false.
func (s *Store) ApproveAct(ctx context.Context, itemID int64, side doctype.Side, value string) (bool, error) {
	if itemID <= 0 {
		return false, ErrEmptyItemID
	}

	docType, err := doctype.Parse(value)
	if err != nil || !docType.IsAct() || docType.Side() != side {
		return false, fmt.Errorf("%w: тип %q не является актом стороны %s", ErrWrongDocumentType, value, side)
	}

	token := docType.String()
	return s.approve(ctx, itemID, token, "document_item_id = ? AND document_type = ? AND is_send = ? AND is_approve_document = ? AND is_pay = ? AND is_reject_document = ? AND is_deal_document = ?",
		itemID, token, true, false, false, false, true)
}

func (s *Store) approve(ctx context.Context, itemID int64, token string, query string, args ...any) (bool, error) {
	var approved models.Document

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if findErr := tx.Where(query, args...).First(&approved).Error; findErr != nil {
			return findErr
		}
		return tx.Model(&approved).Update("is_approve_document", true).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		s.log.Critical(err)
		return false, err
	}

	if s.notify != nil {
		s.notify.Notify(ctx, approved.UserID, notify.EventDocumentApproved, map[string]any{
			"documentItemId": itemID,
			"documentType":   token,
		})
	}

	return true, nil
}

// Reject отклоняет отправленный и ещё не подтверждённый документ.
func (s *Store) Reject(ctx context.Context, itemID int64, value string) (bool, error) {
	if itemID <= 0 {
		return false, ErrEmptyItemID
	}

	docType, err := doctype.Parse(value)
	if err != nil {
		return false, fmt.Errorf("%w: %q", ErrWrongDocumentType, value)
	}

	var rejected models.Document
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.Where("document_item_id = ? AND document_type = ? AND is_send = ? AND is_approve_document = ?",
			itemID, docType.String(), true, false).
			First(&rejected).Error
		if findErr != nil {
			return findErr
		}
		return tx.Model(&rejected).Update("is_reject_document", true).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		s.log.Critical(err)
		return false, err
	}

	if s.notify != nil {
		s.notify.Notify(ctx, rejected.UserID, notify.EventDocumentRejected, map[string]any{
			"documentItemId": itemID,
			"documentType":   docType.String(),
		})
	}

	return true, nil
}

// CheckApproveContract сообщает, подтверждён ли основной договор стороны.
// Отсутствие документа равнозначно отсутствию подтверждения.
func (s *Store) CheckApproveContract(ctx context.Context, itemID int64, side doctype.Side) (bool, error) {
	var document models.Document

	err := s.db.WithContext(ctx).
		Where("document_item_id = ? AND document_type = ?", itemID, doctype.Contract(side).String()).
		First(&document).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		s.log.Critical(err)
		return false, err
	}

	return document.IsApprove, nil
}

// AttachmentName возвращает имя отправленного на согласование договора стороны,
// пустую строку — если такого нет.
func (s *Store) AttachmentName(ctx context.Context, itemID int64, side doctype.Side) (string, error) {
	var document models.Document

	err := s.db.WithContext(ctx).
		Where("document_item_id = ? AND document_type = ? AND is_send = ?",
			itemID, doctype.Contract(side).String(), true).
		First(&document).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		s.log.Critical(err)
		return "", err
	}

	return document.DocumentName, nil
}

// DealDocuments возвращает основные договоры обеих сторон по предмету сделки
// в порядке загрузки.
func (s *Store) DealDocuments(ctx context.Context, itemID int64) ([]models.Document, error) {
	if itemID <= 0 {
		return nil, ErrEmptyItemID
	}

	var result []models.Document
	err := s.db.WithContext(ctx).
		Where("document_item_id = ? AND document_type IN ?", itemID, doctype.ContractTokens()).
		Order("date_create asc").
		Find(&result).Error
	if err != nil {
		s.log.Critical(err)
		return nil, err
	}

	return result, nil
}

// Acts возвращает отправленные акты стороны по предмету сделки.
func (s *Store) Acts(ctx context.Context, itemID int64, side doctype.Side) ([]models.Document, error) {
	if itemID <= 0 {
		return nil, ErrEmptyItemID
	}

	var result []models.Document
	err := s.db.WithContext(ctx).
		Where("document_item_id = ? AND is_send = ? AND is_deal_document = ? AND document_type IN ?",
			itemID, true, true, doctype.ActTokens(side)).
		Find(&result).Error
	if err != nil {
		s.log.Critical(err)
		return nil, err
	}

	return result, nil
}

// ApprovedActs возвращает подтверждённые, ещё не оплаченные акты стороны.
func (s *Store) ApprovedActs(ctx context.Context, itemID int64, side doctype.Side) ([]models.Document, error) {
	if itemID <= 0 {
		return nil, ErrEmptyItemID
	}

	var result []models.Document
	err := s.db.WithContext(ctx).
		Where("document_item_id = ? AND document_type IN ? AND is_deal_document = ? AND is_send = ? AND is_approve_document = ? AND is_pay = ? AND is_reject_document = ?",
			itemID, doctype.ActTokens(side), true, true, true, false, false).
		Find(&result).Error
	if err != nil {
		s.log.Critical(err)
		return nil, err
	}

	return result, nil
}

// MarkActsPaid помечает оплаченными неоплаченные акты обеих сторон для этапа.
// Вызывается реестром платежей при подтверждении оплаты; акты других этапов
// не затрагиваются.
func (s *Store) MarkActsPaid(ctx context.Context, itemID int64, iteration int) (int64, error) {
	tokens, err := doctype.IterationActTokens(iteration)
	if err != nil {
		return 0, fmt.Errorf("%w: этап %d", ErrWrongDocumentType, iteration)
	}

	result := s.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("document_item_id = ? AND document_type IN ? AND is_pay = ?", itemID, tokens, false).
		Update("is_pay", true)
	if result.Error != nil {
		s.log.Critical(result.Error)
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
