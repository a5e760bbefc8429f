package flatfile

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shashiranjanraj/pizzapos/app/catalog"
	"github.com/shashiranjanraj/pizzapos/app/models"
	"github.com/shashiranjanraj/pizzapos/app/pricing"
)

const (
	sep        = "|"
	DateLayout = "2006-01-02 15:04:05"

	// maxLine bounds a single record; longer lines are skipped as malformed.
	maxLine = 1 << 20
)

var (
	userColumns  = []string{"username", "password", "role"}
	orderColumns = []string{
		"orderId", "customerUsername", "customerName", "subtotal", "tax", "total",
		"status", "orderDate", "orderType", "deliveryAddress",
		"assignedDriverUsername", "assignedDriverName", "paymentMethod", "specialInstructions",
	}
	itemColumns = []string{
		"orderId", "line", "type", "name", "unitPrice", "quantity", "pizzaSize", "crustType",
		"toppings", "beverageSize", "cheeseType", "sauceType", "specialInstructions",
	}
	tipColumns   = []string{"orderId", "driverUsername", "amount", "timestamp"}
	eventColumns = []string{"orderId", "event", "from", "to", "actor", "timestamp"}
)

// encode joins values in column order. A value holding the separator or a
// line break cannot be read back, so it is rejected.
func encode(columns, values []string) (string, error) {
	for i, v := range values {
		if strings.ContainsAny(v, "|\r\n") {
			return "", &models.ValidationError{Field: columns[i], Message: "must not contain '|' or line breaks"}
		}
	}
	return strings.Join(values, sep), nil
}

// split returns the fields of line, requiring exactly len(columns) of them.
func split(line string, columns []string) ([]string, error) {
	if len(line) > maxLine {
		return nil, fmt.Errorf("record of %d bytes exceeds %d", len(line), maxLine)
	}
	f := strings.Split(line, sep)
	if len(f) != len(columns) {
		return nil, fmt.Errorf("want %d fields, got %d", len(columns), len(f))
	}
	return f, nil
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func formatTime(t time.Time) string { return t.In(time.Local).Format(DateLayout) }

func parseFloat(column, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", column, err)
	}
	return v, nil
}

func parseTime(column, s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", column, err)
	}
	return t, nil
}

// ─── users ────────────────────────────────────────────────────────────────────

func EncodeUser(u models.User) (string, error) {
	return encode(userColumns, []string{u.Username, u.Password, string(u.Role)})
}

func DecodeUser(line string) (models.User, error) {
	f, err := split(line, userColumns)
	if err != nil {
		return models.User{}, err
	}
	role, err := models.ParseRole(f[2])
	if err != nil {
		return models.User{}, err
	}
	return models.User{Username: f[0], Password: f[1], Role: role}, nil
}

// ─── orders ───────────────────────────────────────────────────────────────────

// EncodeOrder writes the order record. Lines go to the item table.
func EncodeOrder(o *models.Order) (string, error) {
	return encode(orderColumns, []string{
		o.ID,
		o.CustomerUsername,
		o.CustomerName,
		formatFloat(o.Subtotal()),
		formatFloat(o.Tax()),
		formatFloat(o.Total()),
		string(o.Status),
		formatTime(o.OrderDate),
		string(o.Type),
		o.DeliveryAddress,
		o.AssignedDriver,
		o.AssignedDriverName,
		o.PaymentMethod,
		o.SpecialInstructions,
	})
}

// DecodeOrder reads an order record. The result carries the stored totals
// and no lines; attach lines with Order.SetItems.
func DecodeOrder(line string) (*models.Order, error) {
	f, err := split(line, orderColumns)
	if err != nil {
		return nil, err
	}
	if f[0] == "" {
		return nil, fmt.Errorf("orderId: empty")
	}

	var totals pricing.Totals
	if totals.Subtotal, err = parseFloat("subtotal", f[3]); err != nil {
		return nil, err
	}
	if totals.Tax, err = parseFloat("tax", f[4]); err != nil {
		return nil, err
	}
	if totals.Total, err = parseFloat("total", f[5]); err != nil {
		return nil, err
	}
	status, err := models.ParseStatus(f[6])
	if err != nil {
		return nil, err
	}
	date, err := parseTime("orderDate", f[7])
	if err != nil {
		return nil, err
	}
	typ, err := models.ParseOrderType(f[8])
	if err != nil {
		return nil, err
	}

	o := &models.Order{
		ID:                  f[0],
		CustomerUsername:    f[1],
		CustomerName:        f[2],
		Status:              status,
		OrderDate:           date,
		Type:                typ,
		DeliveryAddress:     f[9],
		AssignedDriver:      f[10],
		AssignedDriverName:  f[11],
		PaymentMethod:       f[12],
		SpecialInstructions: f[13],
	}
	o.SetPersistedTotals(totals)
	return o, nil
}

// orderID reads the key column without decoding the rest of the line.
func orderID(line string) string {
	id, _, _ := strings.Cut(line, sep)
	return id
}

// ─── order items ──────────────────────────────────────────────────────────────

// EncodeItems writes one line per item, numbered from zero.
func EncodeItems(orderID string, items []models.OrderItem) ([]string, error) {
	lines := make([]string, 0, len(items))
	for i, it := range items {
		for _, t := range it.Toppings {
			if strings.Contains(t, ",") {
				return nil, &models.ValidationError{Field: "toppings", Message: "topping ids must not contain ','"}
			}
		}
		line, err := encode(itemColumns, []string{
			orderID,
			strconv.Itoa(i),
			string(it.Type),
			it.Name,
			formatFloat(it.UnitPrice),
			strconv.Itoa(it.Quantity),
			string(it.PizzaSize),
			string(it.CrustType),
			strings.Join(it.Toppings, ","),
			string(it.BeverageSize),
			it.CheeseType,
			it.SauceType,
			it.SpecialInstructions,
		})
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

type itemRecord struct {
	orderID string
	line    int
	item    models.OrderItem
}

func decodeItem(line string) (itemRecord, error) {
	f, err := split(line, itemColumns)
	if err != nil {
		return itemRecord{}, err
	}
	n, err := strconv.Atoi(f[1])
	if err != nil {
		return itemRecord{}, fmt.Errorf("line: %w", err)
	}
	price, err := parseFloat("unitPrice", f[4])
	if err != nil {
		return itemRecord{}, err
	}
	qty, err := strconv.Atoi(f[5])
	if err != nil {
		return itemRecord{}, fmt.Errorf("quantity: %w", err)
	}
	size, err := catalog.ParsePizzaSize(f[6])
	if err != nil {
		return itemRecord{}, err
	}
	crust, err := catalog.ParseCrustType(f[7])
	if err != nil {
		return itemRecord{}, err
	}
	bev, err := catalog.ParseBeverageSize(f[9])
	if err != nil {
		return itemRecord{}, err
	}
	var toppings []string
	if f[8] != "" {
		toppings = strings.Split(f[8], ",")
	}

	it := models.OrderItem{
		Type:                models.ItemType(f[2]),
		Name:                f[3],
		UnitPrice:           price,
		Quantity:            qty,
		PizzaSize:           size,
		CrustType:           crust,
		Toppings:            toppings,
		BeverageSize:        bev,
		CheeseType:          f[10],
		SauceType:           f[11],
		SpecialInstructions: f[12],
	}
	if err := it.Validate(); err != nil {
		return itemRecord{}, err
	}
	return itemRecord{orderID: f[0], line: n, item: it}, nil
}

// ─── tips ─────────────────────────────────────────────────────────────────────

func EncodeTip(t models.Tip) (string, error) {
	return encode(tipColumns, []string{t.OrderID, t.DriverUsername, formatFloat(t.Amount), formatTime(t.Timestamp)})
}

func DecodeTip(line string) (models.Tip, error) {
	f, err := split(line, tipColumns)
	if err != nil {
		return models.Tip{}, err
	}
	amount, err := parseFloat("amount", f[2])
	if err != nil {
		return models.Tip{}, err
	}
	ts, err := parseTime("timestamp", f[3])
	if err != nil {
		return models.Tip{}, err
	}
	return models.Tip{OrderID: f[0], DriverUsername: f[1], Amount: amount, Timestamp: ts}, nil
}

// ─── order events ─────────────────────────────────────────────────────────────

func EncodeEvent(e models.OrderEvent) (string, error) {
	return encode(eventColumns, []string{e.OrderID, string(e.Event), string(e.From), string(e.To), e.Actor, formatTime(e.At)})
}

func DecodeEvent(line string) (models.OrderEvent, error) {
	f, err := split(line, eventColumns)
	if err != nil {
		return models.OrderEvent{}, err
	}
	ev, err := models.ParseEvent(f[1])
	if err != nil {
		return models.OrderEvent{}, err
	}
	from, err := models.ParseStatus(f[2])
	if err != nil {
		return models.OrderEvent{}, err
	}
	to, err := models.ParseStatus(f[3])
	if err != nil {
		return models.OrderEvent{}, err
	}
	at, err := parseTime("timestamp", f[5])
	if err != nil {
		return models.OrderEvent{}, err
	}
	return models.OrderEvent{OrderID: f[0], Event: ev, From: from, To: to, Actor: f[4], At: at}, nil
}
