package models

import "time"

// Tip is a ledger entry. Tips are only appended.
type Tip struct {
	OrderID        string    `json:"order_id"`
	DriverUsername string    `json:"driver_username"`
	Amount         float64   `json:"amount"`
	Timestamp      time.Time `json:"timestamp"`
}

func (t Tip) Validate() error {
	if t.OrderID == "" {
		return invalid("order_id", "is required")
	}
	if t.DriverUsername == "" {
		return invalid("driver", "is required")
	}
	if t.Amount < 0 {
		return invalid("amount", "must not be negative")
	}
	return nil
}

// OrderEvent is one line of an order's audit trail.
type OrderEvent struct {
	OrderID string    `json:"order_id"`
	Event   Event     `json:"event"`
	From    Status    `json:"from"`
	To      Status    `json:"to"`
	Actor   string    `json:"actor"`
	At      time.Time `json:"at"`
}
