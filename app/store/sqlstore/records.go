package sqlstore

import (
	"strings"
	"time"

	"github.com/shashiranjanraj/pizzapos/app/catalog"
	"github.com/shashiranjanraj/pizzapos/app/models"
	"github.com/shashiranjanraj/pizzapos/app/pricing"
)

// UserRecord is a row of users. ID keeps insertion order; usernames are not
// unique at this level.
type UserRecord struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	Username string `gorm:"size:100;not null;index"`
	Password string `gorm:"size:255;not null"`
	Role     string `gorm:"size:20;not null"`
}

func (UserRecord) TableName() string { return "users" }

// OrderRecord mirrors the orders.txt columns.
type OrderRecord struct {
	Seq                 uint   `gorm:"primaryKey;autoIncrement"`
	OrderID             string `gorm:"size:64;not null;uniqueIndex"`
	CustomerUsername    string `gorm:"size:100;not null;index"`
	CustomerName        string `gorm:"size:255"`
	Subtotal            float64
	Tax                 float64
	Total               float64
	Status              string    `gorm:"size:32;not null;index"`
	OrderDate           time.Time `gorm:"not null;index"`
	OrderType           string    `gorm:"size:16;not null"`
	DeliveryAddress     string    `gorm:"size:500"`
	AssignedDriver      string    `gorm:"size:100;index"`
	AssignedDriverName  string    `gorm:"size:255"`
	PaymentMethod       string    `gorm:"size:100"`
	SpecialInstructions string    `gorm:"type:text"`
}

func (OrderRecord) TableName() string { return "orders" }

type OrderItemRecord struct {
	ID                  uint   `gorm:"primaryKey;autoIncrement"`
	OrderID             string `gorm:"size:64;not null;index"`
	Line                int    `gorm:"not null"`
	Type                string `gorm:"size:16;not null"`
	Name                string `gorm:"size:255;not null"`
	UnitPrice           float64
	Quantity            int
	PizzaSize           string `gorm:"size:16"`
	CrustType           string `gorm:"size:32"`
	Toppings            string `gorm:"size:500"`
	BeverageSize        string `gorm:"size:16"`
	CheeseType          string `gorm:"size:100"`
	SauceType           string `gorm:"size:100"`
	SpecialInstructions string `gorm:"type:text"`
}

func (OrderItemRecord) TableName() string { return "order_items" }

type TipRecord struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"`
	OrderID        string `gorm:"size:64;not null;index"`
	DriverUsername string `gorm:"size:100;not null;index"`
	Amount         float64
	Timestamp      time.Time `gorm:"not null"`
}

func (TipRecord) TableName() string { return "tips" }

type EventRecord struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	OrderID    string    `gorm:"size:64;not null;index"`
	Event      string    `gorm:"size:32;not null"`
	FromStatus string    `gorm:"size:32"`
	ToStatus   string    `gorm:"size:32;not null"`
	Actor      string    `gorm:"size:100"`
	At         time.Time `gorm:"not null"`
}

func (EventRecord) TableName() string { return "order_events" }

// ─── conversions ──────────────────────────────────────────────────────────────

func userToRecord(u models.User) UserRecord {
	return UserRecord{Username: u.Username, Password: u.Password, Role: string(u.Role)}
}

func (r UserRecord) model() (models.User, error) {
	role, err := models.ParseRole(r.Role)
	if err != nil {
		return models.User{}, err
	}
	return models.User{Username: r.Username, Password: r.Password, Role: role}, nil
}

func orderToRecord(o *models.Order) OrderRecord {
	return OrderRecord{
		OrderID:             o.ID,
		CustomerUsername:    o.CustomerUsername,
		CustomerName:        o.CustomerName,
		Subtotal:            o.Subtotal(),
		Tax:                 o.Tax(),
		Total:               o.Total(),
		Status:              string(o.Status),
		OrderDate:           o.OrderDate,
		OrderType:           string(o.Type),
		DeliveryAddress:     o.DeliveryAddress,
		AssignedDriver:      o.AssignedDriver,
		AssignedDriverName:  o.AssignedDriverName,
		PaymentMethod:       o.PaymentMethod,
		SpecialInstructions: o.SpecialInstructions,
	}
}

func (r OrderRecord) model(items []models.OrderItem) (*models.Order, error) {
	status, err := models.ParseStatus(r.Status)
	if err != nil {
		return nil, err
	}
	typ, err := models.ParseOrderType(r.OrderType)
	if err != nil {
		return nil, err
	}
	o := &models.Order{
		ID:                  r.OrderID,
		CustomerUsername:    r.CustomerUsername,
		CustomerName:        r.CustomerName,
		Status:              status,
		Type:                typ,
		DeliveryAddress:     r.DeliveryAddress,
		AssignedDriver:      r.AssignedDriver,
		AssignedDriverName:  r.AssignedDriverName,
		PaymentMethod:       r.PaymentMethod,
		SpecialInstructions: r.SpecialInstructions,
		OrderDate:           r.OrderDate.In(time.Local),
	}
	if len(items) > 0 {
		if err := o.SetItems(items); err != nil {
			return nil, err
		}
	} else {
		o.SetPersistedTotals(pricing.Totals{Subtotal: r.Subtotal, Tax: r.Tax, Total: r.Total})
	}
	return o, nil
}

func itemsToRecords(orderID string, items []models.OrderItem) []OrderItemRecord {
	out := make([]OrderItemRecord, len(items))
	for i, it := range items {
		out[i] = OrderItemRecord{
			OrderID:             orderID,
			Line:                i,
			Type:                string(it.Type),
			Name:                it.Name,
			UnitPrice:           it.UnitPrice,
			Quantity:            it.Quantity,
			PizzaSize:           string(it.PizzaSize),
			CrustType:           string(it.CrustType),
			Toppings:            strings.Join(it.Toppings, ","),
			BeverageSize:        string(it.BeverageSize),
			CheeseType:          it.CheeseType,
			SauceType:           it.SauceType,
			SpecialInstructions: it.SpecialInstructions,
		}
	}
	return out
}

func (r OrderItemRecord) model() models.OrderItem {
	var toppings []string
	if r.Toppings != "" {
		toppings = strings.Split(r.Toppings, ",")
	}
	return models.OrderItem{
		Type:                models.ItemType(r.Type),
		Name:                r.Name,
		UnitPrice:           r.UnitPrice,
		Quantity:            r.Quantity,
		PizzaSize:           catalog.PizzaSize(r.PizzaSize),
		CrustType:           catalog.CrustType(r.CrustType),
		Toppings:            toppings,
		BeverageSize:        catalog.BeverageSize(r.BeverageSize),
		CheeseType:          r.CheeseType,
		SauceType:           r.SauceType,
		SpecialInstructions: r.SpecialInstructions,
	}
}

func (r TipRecord) model() models.Tip {
	return models.Tip{OrderID: r.OrderID, DriverUsername: r.DriverUsername, Amount: r.Amount, Timestamp: r.Timestamp.In(time.Local)}
}

func (r EventRecord) model() models.OrderEvent {
	return models.OrderEvent{
		OrderID: r.OrderID,
		Event:   models.Event(r.Event),
		From:    models.Status(r.FromStatus),
		To:      models.Status(r.ToStatus),
		Actor:   r.Actor,
		At:      r.At.In(time.Local),
	}
}
