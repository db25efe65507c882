package migration

import (
	"context"

	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"gorm.io/gorm"
)

// AdvancedIndexManager manages PostgreSQL-specific indexes
type AdvancedIndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAdvancedIndexManager creates a new advanced index manager
func NewAdvancedIndexManager(db *gorm.DB, logger coreport.Logger) *AdvancedIndexManager {
	return &AdvancedIndexManager{
		db:     db,
		logger: logger,
	}
}

type indexStatement struct {
	name string
	sql  string
}

var advancedIndexes = []indexStatement{
	{
		// Admin queue of top-ups waiting for a decision
		name: "idx_transactions_pending_topups",
		sql: `CREATE INDEX IF NOT EXISTS idx_transactions_pending_topups
			ON transactions (created_at DESC)
			WHERE type = 'topup' AND status = 'pending'`,
	},
	{
		// Kiosk lookup of the oldest pending order of a card holder
		name: "idx_orders_pending_by_user",
		sql: `CREATE INDEX IF NOT EXISTS idx_orders_pending_by_user
			ON orders (user_id, created_at, id)
			WHERE status = 'pending'`,
	},
	{
		name: "idx_orders_created_at_brin",
		sql: `CREATE INDEX IF NOT EXISTS idx_orders_created_at_brin
			ON orders USING BRIN (created_at)
			WITH (pages_per_range = 32)`,
	},
	{
		name: "idx_outbox_pending",
		sql: `CREATE INDEX IF NOT EXISTS idx_outbox_pending
			ON outbox_messages (created_at, id)
			WHERE status = 'PENDING'`,
	},
}

// CreateAdvancedIndexes creates partial and BRIN indexes
func (m *AdvancedIndexManager) CreateAdvancedIndexes(ctx context.Context) error {
	m.logger.Info("Creating advanced PostgreSQL indexes", nil)

	for _, index := range advancedIndexes {
		if err := m.db.WithContext(ctx).Exec(index.sql).Error; err != nil {
			m.logger.Error("Failed to create index", map[string]any{
				"index": index.name,
				"error": err.Error(),
			})
			return err
		}
	}

	m.logger.Info("Advanced PostgreSQL indexes created successfully", map[string]any{
		"count": len(advancedIndexes),
	})
	return nil
}

// CreatePerformanceTweaks applies PostgreSQL storage settings; failures are only logged
func (m *AdvancedIndexManager) CreatePerformanceTweaks(ctx context.Context) {
	m.logger.Info("Applying PostgreSQL performance tweaks", nil)

	// Balances and order statuses are updated in place
	for _, table := range []string{"users", "orders"} {
		if err := m.db.WithContext(ctx).Exec("ALTER TABLE " + table + " SET (fillfactor = 90)").Error; err != nil {
			m.logger.Warn("Failed to set fillfactor", map[string]any{
				"table": table,
				"error": err.Error(),
			})
		}
	}

	if err := m.db.WithContext(ctx).Exec(`ALTER TABLE transactions ALTER COLUMN user_id SET STATISTICS 1000`).Error; err != nil {
		m.logger.Warn("Failed to set statistics target for user_id", map[string]any{
			"error": err.Error(),
		})
	}
}
