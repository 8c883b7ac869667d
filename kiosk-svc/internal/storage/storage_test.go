package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"ai-kiosk/kiosk-svc/internal/catalog"
	"ai-kiosk/kiosk-svc/internal/domain"
	"ai-kiosk/rediskeys"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepository(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

var orderColumns = []string{"id", "store_id", "store_name", "status", "created_at", "updated_at", "pickup_at"}
var lineColumns = []string{"id", "order_id", "menu_item_id", "name", "price", "quantity"}

func TestEnsureSchemaExecutesStatements(t *testing.T) {
	repo, mock := setupRepository(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS stores").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS menu_items").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS orders").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS order_items").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ALTER TABLE IF EXISTS orders ADD COLUMN IF NOT EXISTS qr_code").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ALTER TABLE IF EXISTS orders ADD COLUMN IF NOT EXISTS pickup_at").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchemaStopsOnError(t *testing.T) {
	repo, mock := setupRepository(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS stores").WillReturnError(errors.New("permission denied"))

	err := repo.EnsureSchema(context.Background())
	assert.ErrorContains(t, err, "permission denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMenuItems(t *testing.T) {
	repo, mock := setupRepository(t)
	now := time.Now()

	mock.ExpectQuery("SELECT m.id, m.store_id, s.name, m.name, m.price, m.created_at").
		WillReturnRows(sqlmock.NewRows([]string{"id", "store_id", "store_name", "name", "price", "created_at"}).
			AddRow(1, 3, "맘스터치 강남점", "싸이버거", "4000.00", now).
			AddRow(2, 3, "맘스터치 강남점", "감자튀김", "1500.50", now))

	items, err := repo.ListMenuItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "맘스터치 강남점", items[0].StoreName)
	assert.Equal(t, domain.Won(4000), items[0].Price)
	assert.Equal(t, "1500.50", items[1].Price.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStore(t *testing.T) {
	repo, mock := setupRepository(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO stores").
		WithArgs("김밥천국 중앙점", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, now))

	store := &domain.Store{Name: "김밥천국 중앙점"}
	require.NoError(t, repo.CreateStore(context.Background(), store))
	assert.Equal(t, 7, store.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrder(t *testing.T) {
	t.Run("with lines", func(t *testing.T) {
		repo, mock := setupRepository(t)
		now := time.Now()

		mock.ExpectQuery("SELECT id, store_id, store_name, status").
			WithArgs(5).
			WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(5, 3, "맘스터치 강남점", "pending", now, now, nil))
		mock.ExpectQuery("FROM order_items oi").
			WithArgs(5).
			WillReturnRows(sqlmock.NewRows(lineColumns).AddRow(1, 5, 10, "싸이버거", "4000.00", 2))

		order, err := repo.GetOrder(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderPending, order.Status)
		assert.Equal(t, 3, order.StoreID)
		assert.Equal(t, domain.Won(8000), order.Total())
		assert.Nil(t, order.PickupAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("store deleted", func(t *testing.T) {
		repo, mock := setupRepository(t)
		now := time.Now()

		mock.ExpectQuery("SELECT id, store_id, store_name, status").
			WithArgs(6).
			WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(6, nil, "사라진 가게", "completed", now, now, now))
		mock.ExpectQuery("FROM order_items oi").
			WithArgs(6).
			WillReturnRows(sqlmock.NewRows(lineColumns))

		order, err := repo.GetOrder(context.Background(), 6)
		require.NoError(t, err)
		assert.Zero(t, order.StoreID)
		assert.Equal(t, "사라진 가게", order.StoreName)
		assert.Empty(t, order.Lines)
		require.NotNil(t, order.PickupAt)
		assert.Equal(t, domain.PickupClock(now), order.Snapshot().PickupTime)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := setupRepository(t)

		mock.ExpectQuery("SELECT id, store_id, store_name, status").
			WithArgs(99).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetOrder(context.Background(), 99)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestAddLineCreatesOrder(t *testing.T) {
	repo, mock := setupRepository(t)
	now := time.Now()
	item := domain.MenuItem{ID: 10, StoreID: 3, StoreName: "맘스터치 강남점", Name: "싸이버거", Price: domain.Won(4000)}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(3, "맘스터치 강남점", domain.OrderPending).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(42, 10, 2).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE orders SET updated_at").
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id, store_id, store_name, status").
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(42, 3, "맘스터치 강남점", "pending", now, now, nil))
	mock.ExpectQuery("FROM order_items oi").
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(lineColumns).AddRow(1, 42, 10, "싸이버거", "4000.00", 2))
	mock.ExpectCommit()

	order, err := repo.AddLine(context.Background(), 0, item, 2)
	require.NoError(t, err)
	assert.Equal(t, 42, order.ID)
	assert.Equal(t, domain.Won(8000), order.Total())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddLineRollsBackOnFailure(t *testing.T) {
	repo, mock := setupRepository(t)
	item := domain.MenuItem{ID: 10, StoreID: 3, StoreName: "맘스터치 강남점", Name: "싸이버거"}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(42, 10, 1).
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	_, err := repo.AddLine(context.Background(), 42, item, 1)
	assert.ErrorContains(t, err, "upsert line")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteOrder(t *testing.T) {
	repo, mock := setupRepository(t)

	pickupAt := time.Date(2026, 10, 19, 12, 15, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(domain.OrderCompleted, []byte("png"), pickupAt, 42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.CompleteOrder(context.Background(), 42, []byte("png"), pickupAt))

	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(domain.OrderCancelled, 43).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.CancelOrder(context.Background(), 43), domain.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetQRCodeNotFound(t *testing.T) {
	repo, mock := setupRepository(t)

	mock.ExpectQuery("SELECT qr_code FROM orders").
		WithArgs(1).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetQRCode(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestRedisCatalogCache(t *testing.T) {
	mr, rdb := setupRedis(t)
	cache := NewRedisCatalogCache(rdb, time.Minute)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	data := catalog.Data{
		Stores: []domain.Store{{ID: 1, Name: "스타벅스 강남점"}},
		Items:  []domain.MenuItem{{ID: 2, StoreID: 1, StoreName: "스타벅스 강남점", Name: "아메리카노", Price: domain.Won(4500)}},
	}
	require.NoError(t, cache.Set(ctx, data))
	assert.Equal(t, time.Minute, mr.TTL(rediskeys.Catalog))

	cached, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "아메리카노", cached.Items[0].Name)
	assert.Equal(t, domain.Won(4500), cached.Items[0].Price)

	require.NoError(t, cache.Invalidate(ctx))
	assert.False(t, mr.Exists(rediskeys.Catalog))
}

func TestRedisCatalogCacheCorruptValue(t *testing.T) {
	mr, rdb := setupRedis(t)
	require.NoError(t, mr.Set(rediskeys.Catalog, "{not json"))

	_, ok, err := NewRedisCatalogCache(rdb, time.Minute).Get(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisPopularity(t *testing.T) {
	mr, rdb := setupRedis(t)
	key := rediskeys.Popular("맘스터치 강남점")
	_, _ = mr.ZAdd(key, 5, "싸이버거")
	_, _ = mr.ZAdd(key, 9, "감자튀김")
	_, _ = mr.ZAdd(key, 1, "콜라")

	items, err := NewRedisPopularity(rdb).TopItems(context.Background(), "맘스터치 강남점", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"감자튀김", "싸이버거"}, items)

	items, err = NewRedisPopularity(rdb).TopItems(context.Background(), "없는 가게", 3)
	require.NoError(t, err)
	assert.Empty(t, items)
}

type recordingWriter struct {
	messages []kafka.Message
	err      error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return w.err
}

func TestKafkaPublisher(t *testing.T) {
	writer := &recordingWriter{}
	publisher := NewKafkaPublisher(writer)

	event := domain.OrderEvent{
		ID:         "evt-1",
		Type:       domain.EventItemAdded,
		OrderID:    42,
		StoreName:  "맘스터치 강남점",
		ItemName:   "싸이버거",
		Quantity:   2,
		TotalPrice: domain.Won(8000),
	}
	require.NoError(t, publisher.Publish(context.Background(), event))
	require.Len(t, writer.messages, 1)
	assert.Equal(t, "42", string(writer.messages[0].Key))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &decoded))
	assert.Equal(t, "item_added", decoded["type"])
	assert.Equal(t, "싸이버거", decoded["item_name"])

	writer.err = errors.New("broker down")
	assert.Error(t, publisher.Publish(context.Background(), event))
}
