package purchases

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/slopwear/storefront-backend/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// The model tags carry Postgres defaults, so the test schema is created
	// with sqlite-compatible DDL instead of AutoMigrate.
	purchases := `
CREATE TABLE IF NOT EXISTS purchases (
  id TEXT PRIMARY KEY,
  account_id TEXT NOT NULL,
  session_id TEXT NOT NULL UNIQUE,
  stripe_customer_id TEXT NOT NULL,
  amount_total INTEGER NOT NULL,
  currency TEXT NOT NULL,
  payment_status TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	purchaseEvents := `
CREATE TABLE IF NOT EXISTS purchase_events (
  id TEXT PRIMARY KEY,
  account_id TEXT NOT NULL,
  session_id TEXT NOT NULL,
  stripe_customer_id TEXT NOT NULL,
  amount_total INTEGER NOT NULL,
  currency TEXT NOT NULL,
  payment_status TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME
);`
	if err := conn.Exec(purchases).Error; err != nil {
		t.Fatalf("create purchases table: %v", err)
	}
	if err := conn.Exec(purchaseEvents).Error; err != nil {
		t.Fatalf("create purchase_events table: %v", err)
	}

	t.Cleanup(func() {
		conn.Exec("DELETE FROM purchases")
		conn.Exec("DELETE FROM purchase_events")
	})
	return conn
}

func purchaseFixture(accountID uuid.UUID, sessionID string) *models.Purchase {
	return &models.Purchase{
		ID:               uuid.New(),
		AccountID:        accountID,
		SessionID:        sessionID,
		StripeCustomerID: "cus_123",
		AmountTotal:      2000,
		Currency:         "usd",
		PaymentStatus:    "paid",
		Quantity:         1,
	}
}

func TestUpsertOverwritesOnSessionID(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	accountID := uuid.New()

	if err := repo.Upsert(ctx, purchaseFixture(accountID, "cs_test_1")); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	redelivered := purchaseFixture(accountID, "cs_test_1")
	redelivered.Quantity = 3
	redelivered.AmountTotal = 6000
	if err := repo.Upsert(ctx, redelivered); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	rows, err := repo.ListByAccountID(ctx, accountID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected single row after redelivery, got %d", len(rows))
	}
	if rows[0].Quantity != 3 || rows[0].AmountTotal != 6000 {
		t.Fatalf("expected overwrite, got %+v", rows[0])
	}
}

func TestAppendEventDuplicates(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	accountID := uuid.New()

	for i := 0; i < 2; i++ {
		event := &models.PurchaseEvent{
			ID:               uuid.New(),
			AccountID:        accountID,
			SessionID:        "cs_test_1",
			StripeCustomerID: "cus_123",
			AmountTotal:      2000,
			Currency:         "usd",
			PaymentStatus:    "paid",
			Quantity:         1,
		}
		if err := repo.AppendEvent(ctx, event); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	var count int64
	if err := db.Model(&models.PurchaseEvent{}).Where("session_id = ?", "cs_test_1").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 global rows, got %d", count)
	}
}

func TestListByAccountIDOrdersNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	accountID := uuid.New()

	older := purchaseFixture(accountID, "cs_older")
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := purchaseFixture(accountID, "cs_newer")
	newer.CreatedAt = time.Now()

	if err := db.Create(older).Error; err != nil {
		t.Fatalf("seed older: %v", err)
	}
	if err := db.Create(newer).Error; err != nil {
		t.Fatalf("seed newer: %v", err)
	}

	rows, err := repo.ListByAccountID(ctx, accountID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].SessionID != "cs_newer" {
		t.Fatalf("expected newest first, got %s", rows[0].SessionID)
	}
}

func TestListByAccountIDScopedToAccount(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mine := uuid.New()
	theirs := uuid.New()
	if err := repo.Upsert(ctx, purchaseFixture(mine, "cs_mine")); err != nil {
		t.Fatalf("seed mine: %v", err)
	}
	if err := repo.Upsert(ctx, purchaseFixture(theirs, "cs_theirs")); err != nil {
		t.Fatalf("seed theirs: %v", err)
	}

	rows, err := repo.ListByAccountID(ctx, mine)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].SessionID != "cs_mine" {
		t.Fatalf("expected only own purchases, got %+v", rows)
	}
}
