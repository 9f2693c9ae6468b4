package payment

import (
	"context"
	"testing"
	"time"

	"garant-backend/config"
	"garant-backend/internal/dblog"
	"garant-backend/internal/doctype"
	"garant-backend/internal/documents"
	"garant-backend/internal/notify"
	"garant-backend/internal/users"
	"garant-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testAccount = "alice@x.com"

func newTestLedger(t *testing.T) (*Ledger, *documents.Store, *gorm.DB) {
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
		DateRegister: time.Now(),
	}).Error)

	logger := dblog.New(db)
	notifier := notify.NewService(db, nil, nil)
	docs := documents.NewStore(db, users.NewDirectory(db, logger), logger, notifier)

	ledger, err := NewLedger(db, docs, logger, notifier, "amount * 0.05")
	require.NoError(t, err)

	return ledger, docs, db
}

func TestCreateOrderUpsertsByFullKey(t *testing.T) {
	ledger, _, db := newTestLedger(t)
	ctx := context.Background()
	desc := Description{Short: "Этап 1", Full: "Холдирование суммы этапа 1"}

	first, err := ledger.CreateOrder(ctx, 42, 100000, desc, "Franchise", "u-alice", 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1000001, first.OrderID)
	assert.Equal(t, models.OrderStatusHold, first.OrderStatus)
	assert.Equal(t, "RUB", first.Currency)
	assert.Equal(t, "DocumentCustomerAct1", first.OptionalType)
	assert.InDelta(t, 5000, first.Commission, 0.001)

	// Повторное холдирование той же итерации обновляет существующий заказ.
	updated, err := ledger.CreateOrder(ctx, 42, 150000, desc, "Franchise", "u-alice", 1)
	require.NoError(t, err)
	assert.Equal(t, first.OrderID, updated.OrderID)
	assert.InDelta(t, 150000, updated.Amount, 0.001)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Другая итерация — другой заказ.
	other, err := ledger.CreateOrder(ctx, 42, 150000, desc, "Franchise", "u-alice", 2)
	require.NoError(t, err)
	assert.EqualValues(t, 1000002, other.OrderID)
	assert.Equal(t, "DocumentCustomerAct2", other.OptionalType)
}

func TestCreateOrderValidation(t *testing.T) {
	ledger, _, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := ledger.CreateOrder(ctx, 0, 100, Description{}, "Franchise", "u-alice", 1)
	assert.ErrorIs(t, err, ErrEmptyOriginalID)

	_, err = ledger.CreateOrder(ctx, 42, 100, Description{}, "Franchise", "u-alice", 5)
	assert.ErrorIs(t, err, ErrBadIteration)
}

func TestFullOrderNameCarriesAmountInWords(t *testing.T) {
	ledger, _, _ := newTestLedger(t)

	order, err := ledger.CreateOrder(context.Background(), 42, 100, Description{Full: "Оплата этапа"}, "Franchise", "u-alice", 1)
	require.NoError(t, err)
	assert.Contains(t, order.FullOrderName, "Оплата этапа")
	assert.Contains(t, order.FullOrderName, "рублей")
}

func TestBadCommissionFormula(t *testing.T) {
	_, _, db := newTestLedger(t)

	logger := dblog.New(db)
	_, err := NewLedger(db, nil, logger, nil, "amount *")
	assert.ErrorIs(t, err, ErrBadFormula)
}

func TestConfirmPaymentCascadesToIterationActs(t *testing.T) {
	ledger, docs, db := newTestLedger(t)
	ctx := context.Background()

	// Акты этапов 2 и 3 с обеих сторон.
	for _, token := range []string{"DocumentVendorAct2", "DocumentCustomerAct2", "DocumentVendorAct3", "DocumentCustomerAct3"} {
		docType, err := doctype.Parse(token)
		require.NoError(t, err)
		_, err = docs.AddActDocument(ctx, token+".pdf", 42, docType, true, testAccount)
		require.NoError(t, err)
	}

	approved, err := docs.ApproveAct(ctx, 42, doctype.Vendor, "DocumentVendorAct3")
	require.NoError(t, err)
	require.True(t, approved)

	order, err := ledger.CreateOrder(ctx, 42, 100000, Description{Short: "Этап 3"}, "Franchise", "u-alice", 3)
	require.NoError(t, err)

	status, err := ledger.ConfirmPayment(ctx, order.OrderID)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, models.OrderStatusPaid, status.Status)
	assert.True(t, status.IsPay)
	assert.EqualValues(t, 2, status.PaidActs)

	// Акты этапа 3 оплачены, этапа 2 — нет.
	var paid []models.Document
	require.NoError(t, db.Where("document_item_id = ? AND is_pay = ?", 42, true).Find(&paid).Error)
	require.Len(t, paid, 2)
	for _, doc := range paid {
		assert.Contains(t, doc.DocumentType, "Act3")
	}

	// Оплаченный акт исчезает из списка подтверждённых.
	acts, err := docs.ApprovedActs(ctx, 42, doctype.Vendor)
	require.NoError(t, err)
	assert.Empty(t, acts)

	var stored models.Order
	require.NoError(t, db.Where("order_id = ?", order.OrderID).First(&stored).Error)
	assert.Equal(t, models.OrderStatusPaid, stored.OrderStatus)
}

func TestConfirmPaymentUnknownOrder(t *testing.T) {
	ledger, _, _ := newTestLedger(t)

	status, err := ledger.ConfirmPayment(context.Background(), 777)
	require.NoError(t, err)
	assert.Nil(t, status)
}
