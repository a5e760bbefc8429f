package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/pizzapos/app/store/sqlstore"
	"github.com/shashiranjanraj/pizzapos/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_users_table", &createTable{model: &sqlstore.UserRecord{}})
	migration.Register("20260101000001_create_orders_table", &createTable{model: &sqlstore.OrderRecord{}})
	migration.Register("20260101000002_create_order_items_table", &createTable{model: &sqlstore.OrderItemRecord{}})
	migration.Register("20260101000003_create_tips_table", &createTable{model: &sqlstore.TipRecord{}})
	migration.Register("20260101000004_create_order_events_table", &createTable{model: &sqlstore.EventRecord{}})
}

// createTable auto-migrates one record type and drops it on rollback.
type createTable struct {
	model any
}

func (m *createTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(m.model)
}

func (m *createTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(m.model)
}
