package deal

import (
	"context"
	"testing"
	"time"

	"garant-backend/config"
	"garant-backend/internal/dblog"
	"garant-backend/internal/notify"
	"garant-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestManager(t *testing.T) (*Manager, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))

	return NewManager(db, dblog.New(db), notify.NewService(db, nil, nil)), db
}

func TestCreateDealBuildsIterationLadder(t *testing.T) {
	manager, db := newTestManager(t)

	created, err := manager.CreateDeal(context.Background(), 42, "u-alice")
	require.NoError(t, err)
	assert.EqualValues(t, 1000000, created.DealID)
	assert.False(t, created.IsCompleted)
	require.Len(t, created.Iterations, 4)

	var iterations []models.DealIteration
	require.NoError(t, db.Where("deal_id = ?", created.DealID).Order("position asc").Find(&iterations).Error)
	require.Len(t, iterations, 4)

	for i, iteration := range iterations {
		assert.Equal(t, i+1, iteration.NumberIteration)
		assert.Equal(t, iteration.NumberIteration, iteration.Position)
		assert.NotEmpty(t, iteration.IterationName)
	}
	assert.Equal(t, "Холдирование суммы", iterations[0].IterationName)
	assert.Equal(t, "Оплата и исполнение этапов сделки", iterations[3].IterationName)
}

func TestDealIDsAreMonotonic(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	first, err := manager.CreateDeal(ctx, 42, "u-alice")
	require.NoError(t, err)
	second, err := manager.CreateDeal(ctx, 43, "u-bob")
	require.NoError(t, err)

	assert.EqualValues(t, 1000000, first.DealID)
	assert.EqualValues(t, 1000001, second.DealID)
}

func TestCreateDealValidation(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	_, err := manager.CreateDeal(ctx, 0, "u-alice")
	assert.ErrorIs(t, err, ErrEmptyItemID)

	_, err = manager.CreateDeal(ctx, 42, "")
	assert.ErrorIs(t, err, ErrEmptyUserID)
}

func TestGetDealMissing(t *testing.T) {
	manager, _ := newTestManager(t)

	found, err := manager.GetDeal(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestCompleteDeal(t *testing.T) {
	manager, db := newTestManager(t)
	ctx := context.Background()

	created, err := manager.CreateDeal(ctx, 42, "u-alice")
	require.NoError(t, err)

	completed, err := manager.Complete(ctx, created.DealID)
	require.NoError(t, err)
	assert.True(t, completed)

	var stored models.Deal
	require.NoError(t, db.Where("deal_id = ?", created.DealID).First(&stored).Error)
	assert.True(t, stored.IsCompleted)

	completed, err = manager.Complete(ctx, 555)
	require.NoError(t, err)
	assert.False(t, completed)
}

func TestCurrentIterationAdvancesWithPaidOrders(t *testing.T) {
	manager, db := newTestManager(t)
	ctx := context.Background()

	created, err := manager.CreateDeal(ctx, 42, "u-alice")
	require.NoError(t, err)

	iteration, err := manager.CurrentIteration(ctx, created.DealID)
	require.NoError(t, err)
	require.NotNil(t, iteration)
	assert.Equal(t, 1, iteration.NumberIteration)

	// Каждый подтверждённый платёж по предмету сделки продвигает этап.
	for n := 1; n <= 4; n++ {
		require.NoError(t, db.Create(&models.Order{
			OrderID:     int64(1000000 + n),
			OriginalID:  42,
			OrderStatus: models.OrderStatusPaid,
			Currency:    "RUB",
			UserID:      "u-alice",
			Iteration:   n,
			DateCreate:  time.Now(),
		}).Error)
	}

	iteration, err = manager.CurrentIteration(ctx, created.DealID)
	require.NoError(t, err)
	require.NotNil(t, iteration)
	// Все этапы оплачены — активным остаётся последний.
	assert.Equal(t, 4, iteration.NumberIteration)
}
