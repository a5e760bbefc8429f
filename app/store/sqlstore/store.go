// Package sqlstore implements store.Store on gorm. Orders are keyed by
// order ID, so an update touches one row instead of rewriting a file.
//
// The schema comes from database/migrations; run the migrator before New.
// Records are checked with the flat-file codec on write, so anything stored
// here can be exported to the flat-file layout by Snapshot.
package sqlstore

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/pizzapos/app/models"
	"github.com/shashiranjanraj/pizzapos/app/store"
	"github.com/shashiranjanraj/pizzapos/app/store/flatfile"
	"github.com/shashiranjanraj/pizzapos/pkg/database"
	"github.com/shashiranjanraj/pizzapos/pkg/logger"
	"github.com/shashiranjanraj/pizzapos/pkg/metrics"
)

const backend = "sql"

// Tables lists the row types, for migrations.
func Tables() []any {
	return []any{&UserRecord{}, &OrderRecord{}, &OrderItemRecord{}, &TipRecord{}, &EventRecord{}}
}

var _ store.Store = (*Store)(nil)

type Store struct {
	db     *gorm.DB
	mu     sync.Mutex
	closed bool
}

// New wraps an open, migrated connection. Close releases it.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return database.Close(s.db)
}

func (s *Store) lock() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return store.ErrClosed
	}
	return nil
}

func storageErr(op, table string, err error) error {
	if err == nil {
		return nil
	}
	var se *store.StorageError
	if errors.As(err, &se) || errors.Is(err, store.ErrNotFound) {
		return err
	}
	return &store.StorageError{Op: op, Path: table, Err: err}
}

// ─── users ────────────────────────────────────────────────────────────────────

func (s *Store) AppendUser(u models.User) (err error) {
	defer metrics.ObserveStoreOp(backend, "append_user", time.Now(), &err)
	if err := u.Validate(); err != nil {
		return err
	}
	if _, err := flatfile.EncodeUser(u); err != nil {
		return err
	}
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()

	rec := userToRecord(u)
	return storageErr("append", "users", s.db.Create(&rec).Error)
}

func (s *Store) FindUser(username string) (_ models.User, err error) {
	defer metrics.ObserveStoreOp(backend, "find_user", time.Now(), &err)
	if err := s.lock(); err != nil {
		return models.User{}, err
	}
	defer s.mu.Unlock()

	var rec UserRecord
	err = s.db.Where("username = ?", username).Order("id").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, fmt.Errorf("sqlstore: user %q: %w", username, store.ErrNotFound)
	}
	if err != nil {
		return models.User{}, storageErr("find", "users", err)
	}
	return rec.model()
}

func (s *Store) ListUsers() (users []models.User, err error) {
	defer metrics.ObserveStoreOp(backend, "list_users", time.Now(), &err)
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	return s.listUsers()
}

func (s *Store) listUsers() ([]models.User, error) {
	var recs []UserRecord
	if err := s.db.Order("id").Find(&recs).Error; err != nil {
		return nil, storageErr("list", "users", err)
	}
	users := make([]models.User, 0, len(recs))
	for _, r := range recs {
		u, err := r.model()
		if err != nil {
			skip("users", err)
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

// ─── orders ───────────────────────────────────────────────────────────────────

func checkOrder(o *models.Order) error {
	if o.ID == "" {
		return &models.ValidationError{Field: "orderId", Message: "is required"}
	}
	if _, err := flatfile.EncodeOrder(o); err != nil {
		return err
	}
	_, err := flatfile.EncodeItems(o.ID, o.Items())
	return err
}

func (s *Store) SaveOrder(o *models.Order) (err error) {
	defer metrics.ObserveStoreOp(backend, "save_order", time.Now(), &err)
	if err := checkOrder(o); err != nil {
		return err
	}
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&OrderRecord{}).Where("order_id = ?", o.ID).Count(&n).Error; err != nil {
			return storageErr("save", "orders", err)
		}
		if n > 0 {
			return updateOrder(tx, o)
		}
		if items := itemsToRecords(o.ID, o.Items()); len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return storageErr("save", "order_items", err)
			}
		}
		rec := orderToRecord(o)
		return storageErr("save", "orders", tx.Create(&rec).Error)
	})
}

func (s *Store) UpdateOrder(o *models.Order) (err error) {
	defer metrics.ObserveStoreOp(backend, "update_order", time.Now(), &err)
	if err := checkOrder(o); err != nil {
		return err
	}
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	return updateOrder(s.db, o)
}

// updateOrder overwrites every column of the row keyed by o.ID.
func updateOrder(tx *gorm.DB, o *models.Order) error {
	var existing OrderRecord
	err := tx.Where("order_id = ?", o.ID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("sqlstore: order %q: %w", o.ID, store.ErrNotFound)
	}
	if err != nil {
		return storageErr("update", "orders", err)
	}
	rec := orderToRecord(o)
	rec.Seq = existing.Seq
	return storageErr("update", "orders", tx.Save(&rec).Error)
}

func (s *Store) MutateOrder(id string, fn store.OrderFunc) (out *models.Order, err error) {
	defer metrics.ObserveStoreOp(backend, "mutate_order", time.Now(), &err)
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		o, err := findOrder(tx, id)
		if err != nil {
			return err
		}
		if err := fn(o); err != nil {
			return err
		}
		if o.ID != id {
			return &models.ValidationError{Field: "orderId", Message: "cannot change"}
		}
		if err := checkOrder(o); err != nil {
			return err
		}
		if err := updateOrder(tx, o); err != nil {
			return err
		}
		out = o.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) FindOrder(id string) (o *models.Order, err error) {
	defer metrics.ObserveStoreOp(backend, "find_order", time.Now(), &err)
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	return findOrder(s.db, id)
}

func findOrder(tx *gorm.DB, id string) (*models.Order, error) {
	var rec OrderRecord
	err := tx.Where("order_id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("sqlstore: order %q: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, storageErr("find", "orders", err)
	}
	orders, err := attach(tx, []OrderRecord{rec})
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("sqlstore: order %q is unreadable: %w", id, store.ErrNotFound)
	}
	return orders[0], nil
}

func (s *Store) ListOrders() ([]*models.Order, error) {
	return s.queryOrders("list_orders", func(tx *gorm.DB) *gorm.DB { return tx })
}

func (s *Store) ListOrdersByUser(username string) ([]*models.Order, error) {
	return s.queryOrders("list_orders_by_user", func(tx *gorm.DB) *gorm.DB {
		return tx.Where("customer_username = ?", username)
	})
}

func (s *Store) ListOrdersByDriver(driver string) ([]*models.Order, error) {
	return s.queryOrders("list_orders_by_driver", func(tx *gorm.DB) *gorm.DB {
		return tx.Where("assigned_driver = ?", driver)
	})
}

func (s *Store) ListAvailableDeliveryOrders() ([]*models.Order, error) {
	return s.queryOrders("list_available_delivery", func(tx *gorm.DB) *gorm.DB {
		return tx.Where("order_type = ? AND status IN ? AND assigned_driver = ?",
			string(models.Delivery),
			[]string{string(models.StatusReady), string(models.StatusPreparing)},
			"")
	})
}

func (s *Store) queryOrders(op string, scope func(*gorm.DB) *gorm.DB) (out []*models.Order, err error) {
	defer metrics.ObserveStoreOp(backend, op, time.Now(), &err)
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	var recs []OrderRecord
	if err := scope(s.db.Model(&OrderRecord{})).Order("seq").Find(&recs).Error; err != nil {
		return nil, storageErr("list", "orders", err)
	}
	return attach(s.db, recs)
}

// attach loads the lines of recs in one query and converts the rows.
func attach(tx *gorm.DB, recs []OrderRecord) ([]*models.Order, error) {
	if len(recs) == 0 {
		return []*models.Order{}, nil
	}
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.OrderID
	}
	var itemRecs []OrderItemRecord
	if err := tx.Where("order_id IN ?", ids).Order("order_id, line").Find(&itemRecs).Error; err != nil {
		return nil, storageErr("list", "order_items", err)
	}
	items := make(map[string][]models.OrderItem, len(recs))
	for _, r := range itemRecs {
		items[r.OrderID] = append(items[r.OrderID], r.model())
	}

	out := make([]*models.Order, 0, len(recs))
	for _, r := range recs {
		o, err := r.model(items[r.OrderID])
		if err != nil {
			skip("orders", err)
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (s *Store) PurgeOrders(pred func(*models.Order) bool) (removed []*models.Order, err error) {
	defer metrics.ObserveStoreOp(backend, "purge_orders", time.Now(), &err)
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var recs []OrderRecord
		if err := tx.Order("seq").Find(&recs).Error; err != nil {
			return storageErr("purge", "orders", err)
		}
		all, err := attach(tx, recs)
		if err != nil {
			return err
		}
		var ids []string
		for _, o := range all {
			if pred(o) {
				removed = append(removed, o)
				ids = append(ids, o.ID)
			}
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("order_id IN ?", ids).Delete(&OrderRecord{}).Error; err != nil {
			return storageErr("purge", "orders", err)
		}
		return storageErr("purge", "order_items", tx.Where("order_id IN ?", ids).Delete(&OrderItemRecord{}).Error)
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// ─── tips and events ──────────────────────────────────────────────────────────

func (s *Store) AppendTip(t models.Tip) (err error) {
	defer metrics.ObserveStoreOp(backend, "append_tip", time.Now(), &err)
	if err := t.Validate(); err != nil {
		return err
	}
	if _, err := flatfile.EncodeTip(t); err != nil {
		return err
	}
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()

	rec := TipRecord{OrderID: t.OrderID, DriverUsername: t.DriverUsername, Amount: t.Amount, Timestamp: t.Timestamp}
	return storageErr("append", "tips", s.db.Create(&rec).Error)
}

func (s *Store) ListTipsByDriver(driver string) (tips []models.Tip, err error) {
	defer metrics.ObserveStoreOp(backend, "list_tips_by_driver", time.Now(), &err)
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	var recs []TipRecord
	if err := s.db.Where("driver_username = ?", driver).Order("id").Find(&recs).Error; err != nil {
		return nil, storageErr("list", "tips", err)
	}
	for _, r := range recs {
		tips = append(tips, r.model())
	}
	return tips, nil
}

func (s *Store) AppendEvent(e models.OrderEvent) (err error) {
	defer metrics.ObserveStoreOp(backend, "append_event", time.Now(), &err)
	if _, err := flatfile.EncodeEvent(e); err != nil {
		return err
	}
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()

	rec := EventRecord{
		OrderID: e.OrderID, Event: string(e.Event), FromStatus: string(e.From),
		ToStatus: string(e.To), Actor: e.Actor, At: e.At,
	}
	return storageErr("append", "order_events", s.db.Create(&rec).Error)
}

func (s *Store) ListEvents(orderID string) (events []models.OrderEvent, err error) {
	defer metrics.ObserveStoreOp(backend, "list_events", time.Now(), &err)
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	var recs []EventRecord
	if err := s.db.Where("order_id = ?", orderID).Order("id").Find(&recs).Error; err != nil {
		return nil, storageErr("list", "order_events", err)
	}
	for _, r := range recs {
		events = append(events, r.model())
	}
	return events, nil
}

// ─── backup ───────────────────────────────────────────────────────────────────

// Snapshot exports every table in the flat-file layout, keyed by file name.
func (s *Store) Snapshot() (map[string][]byte, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	out := make(map[string][]byte)
	put := func(name string, lines []string) {
		if len(lines) > 0 {
			out[name] = []byte(strings.Join(lines, "\n") + "\n")
		}
	}

	users, err := s.listUsers()
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, u := range users {
		l, err := flatfile.EncodeUser(u)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	put(flatfile.UsersFile, lines)

	var orderRecs []OrderRecord
	if err := s.db.Order("seq").Find(&orderRecs).Error; err != nil {
		return nil, storageErr("snapshot", "orders", err)
	}
	orders, err := attach(s.db, orderRecs)
	if err != nil {
		return nil, err
	}
	var orderLines, itemLines []string
	for _, o := range orders {
		l, err := flatfile.EncodeOrder(o)
		if err != nil {
			return nil, err
		}
		il, err := flatfile.EncodeItems(o.ID, o.Items())
		if err != nil {
			return nil, err
		}
		orderLines = append(orderLines, l)
		itemLines = append(itemLines, il...)
	}
	put(flatfile.OrdersFile, orderLines)
	put(flatfile.ItemsFile, itemLines)

	var tipRecs []TipRecord
	if err := s.db.Order("id").Find(&tipRecs).Error; err != nil {
		return nil, storageErr("snapshot", "tips", err)
	}
	lines = lines[:0]
	for _, r := range tipRecs {
		l, err := flatfile.EncodeTip(r.model())
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	put(flatfile.TipsFile, lines)

	var eventRecs []EventRecord
	if err := s.db.Order("id").Find(&eventRecs).Error; err != nil {
		return nil, storageErr("snapshot", "order_events", err)
	}
	lines = lines[:0]
	for _, r := range eventRecs {
		l, err := flatfile.EncodeEvent(r.model())
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	put(flatfile.EventsFile, lines)

	return out, nil
}

func skip(table string, err error) {
	logger.Warn("sqlstore: skipping unreadable row", "table", table, "error", err)
	metrics.SkippedRecords.WithLabelValues(table).Inc()
}
