// Package flatfile keeps users, orders, tips and order events as
// pipe-delimited text files under one data directory.
//
// Layout (one record per line):
//
//	users.txt         username|password|role
//	orders.txt        orderId|customerUsername|customerName|subtotal|tax|total|status|
//	                  orderDate|orderType|deliveryAddress|assignedDriverUsername|
//	                  assignedDriverName|paymentMethod|specialInstructions
//	order_items.txt   orderId|line|type|name|unitPrice|quantity|pizzaSize|crustType|
//	                  toppings|beverageSize|cheeseType|sauceType|specialInstructions
//	tips.txt          orderId|driverUsername|amount|timestamp
//	order_events.txt  orderId|event|from|to|actor|timestamp
//
// Appends go straight to the end of a file. Updates read the whole file,
// replace the record and write the file back through a temp file and rename.
// A Store serializes all of this behind one mutex; nothing guards against a
// second process writing the same directory.
package flatfile

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/shashiranjanraj/pizzapos/app/models"
	"github.com/shashiranjanraj/pizzapos/app/store"
	"github.com/shashiranjanraj/pizzapos/pkg/logger"
	"github.com/shashiranjanraj/pizzapos/pkg/metrics"
)

const (
	UsersFile  = "users.txt"
	OrdersFile = "orders.txt"
	ItemsFile  = "order_items.txt"
	TipsFile   = "tips.txt"
	EventsFile = "order_events.txt"

	backend = "flatfile"
)

// Files lists every file a Store may write.
var Files = []string{UsersFile, OrdersFile, ItemsFile, TipsFile, EventsFile}

var _ store.Store = (*Store)(nil)

type Store struct {
	dir    string
	mu     sync.Mutex
	closed bool
}

// Open returns a store rooted at dir. The directory is created on first write.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("flatfile: data directory is required")
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// lock takes the writer lock. On error the lock is not held.
func (s *Store) lock() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return store.ErrClosed
	}
	return nil
}

// ─── users ────────────────────────────────────────────────────────────────────

func (s *Store) AppendUser(u models.User) (err error) {
	defer metrics.ObserveStoreOp(backend, "append_user", time.Now(), &err)
	if err := u.Validate(); err != nil {
		return err
	}
	line, err := EncodeUser(u)
	if err != nil {
		return err
	}
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	return s.appendLines(UsersFile, line)
}

func (s *Store) FindUser(username string) (_ models.User, err error) {
	defer metrics.ObserveStoreOp(backend, "find_user", time.Now(), &err)
	users, err := s.ListUsers()
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("flatfile: user %q: %w", username, store.ErrNotFound)
}

func (s *Store) ListUsers() (users []models.User, err error) {
	defer metrics.ObserveStoreOp(backend, "list_users", time.Now(), &err)
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	lines, err := s.readLines(UsersFile)
	if err != nil {
		return nil, err
	}
	return decodeLines(UsersFile, lines, DecodeUser), nil
}

// ─── orders ───────────────────────────────────────────────────────────────────

func (s *Store) SaveOrder(o *models.Order) (err error) {
	defer metrics.ObserveStoreOp(backend, "save_order", time.Now(), &err)
	if o.ID == "" {
		return &models.ValidationError{Field: "orderId", Message: "is required"}
	}
	orderLine, err := EncodeOrder(o)
	if err != nil {
		return err
	}
	itemLines, err := EncodeItems(o.ID, o.Items())
	if err != nil {
		return err
	}

	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()

	lines, err := s.readLines(OrdersFile)
	if err != nil {
		return err
	}
	for _, l := range lines {
		if orderID(l) == o.ID {
			return s.replaceOrder(lines, o.ID, orderLine)
		}
	}
	// Lines first: an interrupted save leaves orphan lines, never an order
	// that lost its items.
	if err := s.appendLines(ItemsFile, itemLines...); err != nil {
		return err
	}
	return s.appendLines(OrdersFile, orderLine)
}

func (s *Store) UpdateOrder(o *models.Order) (err error) {
	defer metrics.ObserveStoreOp(backend, "update_order", time.Now(), &err)
	line, err := EncodeOrder(o)
	if err != nil {
		return err
	}
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()

	lines, err := s.readLines(OrdersFile)
	if err != nil {
		return err
	}
	return s.replaceOrder(lines, o.ID, line)
}

func (s *Store) MutateOrder(id string, fn store.OrderFunc) (out *models.Order, err error) {
	defer metrics.ObserveStoreOp(backend, "mutate_order", time.Now(), &err)
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	lines, err := s.readLines(OrdersFile)
	if err != nil {
		return nil, err
	}
	o, err := s.findOrder(lines, id)
	if err != nil {
		return nil, err
	}
	if err := fn(o); err != nil {
		return nil, err
	}
	if o.ID != id {
		return nil, &models.ValidationError{Field: "orderId", Message: "cannot change"}
	}
	line, err := EncodeOrder(o)
	if err != nil {
		return nil, err
	}
	if err := s.replaceOrder(lines, id, line); err != nil {
		return nil, err
	}
	return o.Clone(), nil
}

func (s *Store) FindOrder(id string) (o *models.Order, err error) {
	defer metrics.ObserveStoreOp(backend, "find_order", time.Now(), &err)
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	lines, err := s.readLines(OrdersFile)
	if err != nil {
		return nil, err
	}
	return s.findOrder(lines, id)
}

func (s *Store) ListOrders() ([]*models.Order, error) {
	return s.scanOrders("list_orders", nil)
}

func (s *Store) ListOrdersByUser(username string) ([]*models.Order, error) {
	return s.scanOrders("list_orders_by_user", func(o *models.Order) bool {
		return o.CustomerUsername == username
	})
}

func (s *Store) ListOrdersByDriver(driver string) ([]*models.Order, error) {
	return s.scanOrders("list_orders_by_driver", func(o *models.Order) bool {
		return o.AssignedDriver == driver
	})
}

func (s *Store) ListAvailableDeliveryOrders() ([]*models.Order, error) {
	return s.scanOrders("list_available_delivery", store.Available)
}

func (s *Store) PurgeOrders(pred func(*models.Order) bool) (removed []*models.Order, err error) {
	defer metrics.ObserveStoreOp(backend, "purge_orders", time.Now(), &err)
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	lines, err := s.readLines(OrdersFile)
	if err != nil {
		return nil, err
	}
	items, err := s.loadItems()
	if err != nil {
		return nil, err
	}

	gone := make(map[string]bool)
	keep := make([]string, 0, len(lines))
	for _, l := range lines {
		o, err := DecodeOrder(l)
		if err == nil {
			attachItems(o, items[o.ID])
			if pred(o) {
				removed = append(removed, o)
				gone[o.ID] = true
				continue
			}
		}
		keep = append(keep, l)
	}
	if len(removed) == 0 {
		return nil, nil
	}

	if err := s.rewrite(OrdersFile, keep); err != nil {
		return nil, err
	}
	itemLines, err := s.readLines(ItemsFile)
	if err != nil {
		return nil, err
	}
	keptItems := itemLines[:0]
	for _, l := range itemLines {
		if !gone[orderID(l)] {
			keptItems = append(keptItems, l)
		}
	}
	if err := s.rewrite(ItemsFile, keptItems); err != nil {
		return nil, err
	}
	return removed, nil
}

func (s *Store) scanOrders(op string, pred func(*models.Order) bool) (out []*models.Order, err error) {
	defer metrics.ObserveStoreOp(backend, op, time.Now(), &err)
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	lines, err := s.readLines(OrdersFile)
	if err != nil {
		return nil, err
	}
	items, err := s.loadItems()
	if err != nil {
		return nil, err
	}
	out = make([]*models.Order, 0, len(lines))
	for _, o := range decodeLines(OrdersFile, lines, DecodeOrder) {
		attachItems(o, items[o.ID])
		if pred == nil || pred(o) {
			out = append(out, o)
		}
	}
	return out, nil
}

// findOrder decodes the first well-formed record with id and attaches its lines.
func (s *Store) findOrder(lines []string, id string) (*models.Order, error) {
	for _, l := range lines {
		if orderID(l) != id {
			continue
		}
		o, err := DecodeOrder(l)
		if err != nil {
			skip(OrdersFile, err)
			continue
		}
		items, err := s.loadItems()
		if err != nil {
			return nil, err
		}
		attachItems(o, items[id])
		return o, nil
	}
	return nil, fmt.Errorf("flatfile: order %q: %w", id, store.ErrNotFound)
}

// replaceOrder swaps every record keyed id for line and rewrites the file.
func (s *Store) replaceOrder(lines []string, id, line string) error {
	found := false
	for i, l := range lines {
		if orderID(l) == id {
			lines[i] = line
			found = true
		}
	}
	if !found {
		return fmt.Errorf("flatfile: order %q: %w", id, store.ErrNotFound)
	}
	return s.rewrite(OrdersFile, lines)
}

func (s *Store) loadItems() (map[string][]models.OrderItem, error) {
	lines, err := s.readLines(ItemsFile)
	if err != nil {
		return nil, err
	}
	recs := decodeLines(ItemsFile, lines, decodeItem)
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].line < recs[j].line })

	byOrder := make(map[string][]models.OrderItem)
	for _, r := range recs {
		byOrder[r.orderID] = append(byOrder[r.orderID], r.item)
	}
	return byOrder, nil
}

func attachItems(o *models.Order, items []models.OrderItem) {
	if len(items) == 0 {
		return
	}
	if err := o.SetItems(items); err != nil {
		logger.Warn("flatfile: dropping order lines", "order_id", o.ID, "error", err)
	}
}

// ─── tips ─────────────────────────────────────────────────────────────────────

func (s *Store) AppendTip(t models.Tip) (err error) {
	defer metrics.ObserveStoreOp(backend, "append_tip", time.Now(), &err)
	if err := t.Validate(); err != nil {
		return err
	}
	line, err := EncodeTip(t)
	if err != nil {
		return err
	}
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	return s.appendLines(TipsFile, line)
}

func (s *Store) ListTipsByDriver(driver string) (tips []models.Tip, err error) {
	defer metrics.ObserveStoreOp(backend, "list_tips_by_driver", time.Now(), &err)
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	lines, err := s.readLines(TipsFile)
	if err != nil {
		return nil, err
	}
	for _, t := range decodeLines(TipsFile, lines, DecodeTip) {
		if t.DriverUsername == driver {
			tips = append(tips, t)
		}
	}
	return tips, nil
}

// ─── order events ─────────────────────────────────────────────────────────────

func (s *Store) AppendEvent(e models.OrderEvent) (err error) {
	defer metrics.ObserveStoreOp(backend, "append_event", time.Now(), &err)
	line, err := EncodeEvent(e)
	if err != nil {
		return err
	}
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	return s.appendLines(EventsFile, line)
}

func (s *Store) ListEvents(orderID string) (events []models.OrderEvent, err error) {
	defer metrics.ObserveStoreOp(backend, "list_events", time.Now(), &err)
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	lines, err := s.readLines(EventsFile)
	if err != nil {
		return nil, err
	}
	for _, e := range decodeLines(EventsFile, lines, DecodeEvent) {
		if e.OrderID == orderID {
			events = append(events, e)
		}
	}
	return events, nil
}

// ─── backup ───────────────────────────────────────────────────────────────────

// Snapshot returns the raw bytes of every data file that exists.
func (s *Store) Snapshot() (map[string][]byte, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	out := make(map[string][]byte, len(Files))
	for _, name := range Files {
		b, err := os.ReadFile(s.path(name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, &store.StorageError{Op: "snapshot", Path: s.path(name), Err: err}
		}
		out[name] = b
	}
	return out, nil
}

// decodeLines decodes every line, skipping and logging the ones that fail.
func decodeLines[T any](file string, lines []string, decode func(string) (T, error)) []T {
	out := make([]T, 0, len(lines))
	for _, l := range lines {
		v, err := decode(l)
		if err != nil {
			skip(file, err)
			continue
		}
		out = append(out, v)
	}
	return out
}

func skip(file string, err error) {
	logger.Warn("flatfile: skipping malformed record", "file", file, "error", err)
	metrics.SkippedRecords.WithLabelValues(file).Inc()
}
