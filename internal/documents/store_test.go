package documents

import (
	"context"
	"testing"
	"time"

	"garant-backend/config"
	"garant-backend/internal/dblog"
	"garant-backend/internal/doctype"
	"garant-backend/internal/notify"
	"garant-backend/internal/users"
	"garant-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testAccount = "alice@x.com"

func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))

	require.NoError(t, db.Create(&models.User{
		UserID:       "u-alice",
		Email:        testAccount,
		PhoneNumber:  "+79990001122",
		Code:         "INVITE-1",
		DateRegister: time.Now(),
	}).Error)

	logger := dblog.New(db)
	directory := users.NewDirectory(db, logger)
	notifier := notify.NewService(db, nil, nil)

	return NewStore(db, directory, logger, notifier), db
}

func TestSubmitContractTwiceKeepsOneRow(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	first, err := store.AddContractDocument(ctx, "contract-v1.pdf", 42, doctype.Vendor, true, testAccount)
	require.NoError(t, err)
	assert.False(t, first.IsSend)
	assert.Nil(t, first.IsPay)

	// Отправляем на согласование, затем перезагружаем документ.
	sent, err := store.SetSendStatus(ctx, 42, true, doctype.Contract(doctype.Vendor))
	require.NoError(t, err)
	assert.True(t, sent)

	second, err := store.AddContractDocument(ctx, "contract-v2.pdf", 42, doctype.Vendor, true, testAccount)
	require.NoError(t, err)
	assert.Equal(t, first.DocumentID, second.DocumentID)

	var rows []models.Document
	require.NoError(t, db.Where("document_item_id = ?", 42).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "contract-v2.pdf", rows[0].DocumentName)
	// Перезагрузка сбрасывает цикл согласования.
	assert.False(t, rows[0].IsSend)
	assert.False(t, rows[0].IsApprove)
	assert.False(t, rows[0].IsReject)
}

func TestSetSendStatusMissingDocument(t *testing.T) {
	store, _ := newTestStore(t)

	sent, err := store.SetSendStatus(context.Background(), 77, true, doctype.Contract(doctype.Vendor))
	require.NoError(t, err)
	assert.False(t, sent)
}

func TestApproveContractRequiresSend(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddContractDocument(ctx, "contract.pdf", 42, doctype.Vendor, true, testAccount)
	require.NoError(t, err)

	// Документ ещё не отправлен — подтверждение не происходит, но это не ошибка.
	approved, err := store.ApproveContract(ctx, 42, doctype.Vendor)
	require.NoError(t, err)
	assert.False(t, approved)

	sent, err := store.SetSendStatus(ctx, 42, true, doctype.Contract(doctype.Vendor))
	require.NoError(t, err)
	require.True(t, sent)

	approved, err = store.ApproveContract(ctx, 42, doctype.Vendor)
	require.NoError(t, err)
	assert.True(t, approved)

	ok, err := store.CheckApproveContract(ctx, 42, doctype.Vendor)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestApproveActRejectsForeignType(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	// Основной договор — не акт, даже несуществующий документ даёт ошибку типа.
	_, err := store.ApproveAct(ctx, 42, doctype.Vendor, "DocumentVendor")
	assert.ErrorIs(t, err, ErrWrongDocumentType)

	// Акт чужой стороны тоже вне набора.
	_, err = store.ApproveAct(ctx, 42, doctype.Vendor, "DocumentCustomerAct1")
	assert.ErrorIs(t, err, ErrWrongDocumentType)

	_, err = store.ApproveAct(ctx, 42, doctype.Vendor, "DocumentVendorAct11")
	assert.ErrorIs(t, err, ErrWrongDocumentType)
}

func TestActLifecycle(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	actType, err := doctype.Act(doctype.Vendor, 3)
	require.NoError(t, err)

	submitted, err := store.AddActDocument(ctx, "act3.pdf", 42, actType, true, testAccount)
	require.NoError(t, err)
	// Акт создаётся сразу отправленным и неоплаченным.
	assert.True(t, submitted.IsSend)
	require.NotNil(t, submitted.IsPay)
	assert.False(t, *submitted.IsPay)

	approved, err := store.ApproveAct(ctx, 42, doctype.Vendor, "DocumentVendorAct3")
	require.NoError(t, err)
	assert.True(t, approved)

	// Повторное подтверждение — false: документ уже не в исходном состоянии.
	approved, err = store.ApproveAct(ctx, 42, doctype.Vendor, "DocumentVendorAct3")
	require.NoError(t, err)
	assert.False(t, approved)

	acts, err := store.ApprovedActs(ctx, 42, doctype.Vendor)
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.Equal(t, "DocumentVendorAct3", acts[0].DocumentType)

	paid, err := store.MarkActsPaid(ctx, 42, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 1, paid)

	// Оплаченный акт уходит из списка подтверждённых.
	acts, err = store.ApprovedActs(ctx, 42, doctype.Vendor)
	require.NoError(t, err)
	assert.Empty(t, acts)
}

func TestActsExcludeBaseContract(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddContractDocument(ctx, "contract.pdf", 42, doctype.Vendor, true, testAccount)
	require.NoError(t, err)
	sent, err := store.SetSendStatus(ctx, 42, true, doctype.Contract(doctype.Vendor))
	require.NoError(t, err)
	require.True(t, sent)

	actType, err := doctype.Act(doctype.Vendor, 1)
	require.NoError(t, err)
	_, err = store.AddActDocument(ctx, "act1.pdf", 42, actType, true, testAccount)
	require.NoError(t, err)

	acts, err := store.Acts(ctx, 42, doctype.Vendor)
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.Equal(t, "DocumentVendorAct1", acts[0].DocumentType)
}

func TestRejectThenResubmit(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddContractDocument(ctx, "contract.pdf", 42, doctype.Customer, true, testAccount)
	require.NoError(t, err)
	sent, err := store.SetSendStatus(ctx, 42, true, doctype.Contract(doctype.Customer))
	require.NoError(t, err)
	require.True(t, sent)

	rejected, err := store.Reject(ctx, 42, "DocumentCustomer")
	require.NoError(t, err)
	assert.True(t, rejected)

	// Отклонённый документ подтвердить нельзя.
	approved, err := store.ApproveContract(ctx, 42, doctype.Customer)
	require.NoError(t, err)
	assert.False(t, approved)

	// Новая загрузка начинает цикл заново.
	resubmitted, err := store.AddContractDocument(ctx, "contract-fixed.pdf", 42, doctype.Customer, true, testAccount)
	require.NoError(t, err)
	assert.False(t, resubmitted.IsReject)
	assert.False(t, resubmitted.IsSend)
}

func TestDealDocumentsOrderingAndValidation(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.DealDocuments(ctx, 0)
	assert.ErrorIs(t, err, ErrEmptyItemID)

	_, err = store.AddContractDocument(ctx, "vendor.pdf", 42, doctype.Vendor, true, testAccount)
	require.NoError(t, err)
	_, err = store.AddContractDocument(ctx, "customer.pdf", 42, doctype.Customer, true, testAccount)
	require.NoError(t, err)

	docs, err := store.DealDocuments(ctx, 42)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "DocumentVendor", docs[0].DocumentType)
	assert.Equal(t, "DocumentCustomer", docs[1].DocumentType)
}

func TestSubmitUnknownAccount(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.AddContractDocument(context.Background(), "contract.pdf", 42, doctype.Vendor, true, "nobody@x.com")
	assert.ErrorIs(t, err, users.ErrNotFound)
}

func TestAttachmentName(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	name, err := store.AttachmentName(ctx, 42, doctype.Vendor)
	require.NoError(t, err)
	assert.Empty(t, name)

	_, err = store.AddContractDocument(ctx, "vendor.pdf", 42, doctype.Vendor, true, testAccount)
	require.NoError(t, err)

	// Имя отдаётся только после отправки на согласование.
	name, err = store.AttachmentName(ctx, 42, doctype.Vendor)
	require.NoError(t, err)
	assert.Empty(t, name)

	sent, err := store.SetSendStatus(ctx, 42, true, doctype.Contract(doctype.Vendor))
	require.NoError(t, err)
	require.True(t, sent)

	name, err = store.AttachmentName(ctx, 42, doctype.Vendor)
	require.NoError(t, err)
	assert.Equal(t, "vendor.pdf", name)
}
