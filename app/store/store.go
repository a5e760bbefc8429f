// Package store defines the record store contract shared by the flat-file
// and SQL backends.
//
// A Store is the only writer of its data in the process. Every method runs to
// completion under the store's own lock; none of them take a context.
package store

import (
	"errors"
	"fmt"

	"github.com/shashiranjanraj/pizzapos/app/models"
)

var (
	// ErrNotFound is returned when a lookup by key has no record.
	ErrNotFound = errors.New("record not found")
	// ErrClosed is returned by every call after Close.
	ErrClosed = errors.New("store is closed")
)

// StorageError wraps an I/O or driver failure.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// OrderFunc mutates an order inside MutateOrder. Returning an error aborts
// the write.
type OrderFunc func(o *models.Order) error

// Store persists users, orders, tips and order events.
type Store interface {
	// AppendUser writes u as-is. Callers check uniqueness.
	AppendUser(u models.User) error
	// FindUser returns the first user with this exact username.
	FindUser(username string) (models.User, error)
	ListUsers() ([]models.User, error)

	// SaveOrder appends a new order with its lines, or updates it when the
	// ID already exists.
	SaveOrder(o *models.Order) error
	// UpdateOrder replaces the stored record with o. Lines stored at first
	// save are kept.
	UpdateOrder(o *models.Order) error
	// MutateOrder loads the order, applies fn and writes the result, all
	// while holding the writer lock.
	MutateOrder(id string, fn OrderFunc) (*models.Order, error)
	FindOrder(id string) (*models.Order, error)
	ListOrders() ([]*models.Order, error)
	ListOrdersByUser(username string) ([]*models.Order, error)
	ListOrdersByDriver(driver string) ([]*models.Order, error)
	// ListAvailableDeliveryOrders returns delivery orders that are preparing
	// or ready and have no driver.
	ListAvailableDeliveryOrders() ([]*models.Order, error)
	// PurgeOrders deletes every order matching pred together with its lines
	// and returns what was removed.
	PurgeOrders(pred func(*models.Order) bool) ([]*models.Order, error)

	AppendTip(t models.Tip) error
	ListTipsByDriver(driver string) ([]models.Tip, error)

	AppendEvent(e models.OrderEvent) error
	ListEvents(orderID string) ([]models.OrderEvent, error)

	Close() error
}

// Available is the predicate behind ListAvailableDeliveryOrders.
func Available(o *models.Order) bool {
	return o.Type == models.Delivery &&
		(o.Status == models.StatusReady || o.Status == models.StatusPreparing) &&
		o.AssignedDriver == ""
}
