package flatfile

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/pizzapos/app/models"
	"github.com/shashiranjanraj/pizzapos/app/pricing"
)

func TestOrderRecordRoundTrip(t *testing.T) {
	o := &models.Order{
		ID:                  "ORD-1",
		CustomerUsername:    "customer",
		CustomerName:        "April O'Neil",
		Status:              models.StatusOutForDelivery,
		Type:                models.Delivery,
		DeliveryAddress:     "Channel 6, 5th floor",
		AssignedDriver:      "driver",
		AssignedDriverName:  "driver",
		PaymentMethod:       "Credit Card",
		SpecialInstructions: "ring twice",
		OrderDate:           time.Date(2024, 3, 9, 19, 4, 5, 0, time.Local),
	}
	o.SetPersistedTotals(pricing.FromSubtotal(0.1 + 0.2))

	line, err := EncodeOrder(o)
	require.NoError(t, err)
	assert.Equal(t, 14, len(strings.Split(line, sep)))

	got, err := DecodeOrder(line)
	require.NoError(t, err)
	assert.Equal(t, o, got)
}

func TestOrderRecordEmptyOptionals(t *testing.T) {
	o := &models.Order{
		ID: "ORD-2", CustomerUsername: "customer", Status: models.StatusPending,
		Type: models.Pickup, OrderDate: time.Date(2024, 3, 9, 8, 0, 0, 0, time.Local),
	}
	line, err := EncodeOrder(o)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2|customer||0|0|0|pending|2024-03-09 08:00:00|pickup|||||", line)

	got, err := DecodeOrder(line)
	require.NoError(t, err)
	assert.Equal(t, o, got)
}

func TestFloatsUseShortestExactForm(t *testing.T) {
	assert.Equal(t, "14.49", formatFloat(14.49))
	assert.Equal(t, "8", formatFloat(8))
	a, b := 0.1, 0.2
	assert.Equal(t, "0.30000000000000004", formatFloat(a+b))
}

func TestItemRoundTrip(t *testing.T) {
	items := []models.OrderItem{
		{Type: models.ItemPizza, Name: "Build Your Own", UnitPrice: 16.99, Quantity: 2,
			PizzaSize: "large", CrustType: "deep-dish", Toppings: []string{"olives", "bacon", "onions"}},
		{Type: models.ItemBeverage, Name: "Fruit Ninja", UnitPrice: 3.99, Quantity: 1, BeverageSize: "large"},
	}
	lines, err := EncodeItems("ORD-9", items)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	for i, l := range lines {
		rec, err := decodeItem(l)
		require.NoError(t, err)
		assert.Equal(t, "ORD-9", rec.orderID)
		assert.Equal(t, i, rec.line)
		assert.Equal(t, items[i], rec.item)
	}
}

func TestItemRejectsCommaInTopping(t *testing.T) {
	_, err := EncodeItems("ORD-9", []models.OrderItem{
		{Type: models.ItemPizza, Name: "x", UnitPrice: 1, Quantity: 1, Toppings: []string{"a,b"}},
	})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestDecodeItemRejectsBadValues(t *testing.T) {
	for _, line := range []string{
		"ORD-1|0|pizza|x|1|0|||||||",       // quantity 0
		"ORD-1|0|salad|x|1|1|||||||",       // type
		"ORD-1|0|pizza|x|1|1|huge||||||",   // size
		"ORD-1|zero|pizza|x|1|1|||||||",    // line number
		"ORD-1|0|pizza|x|1|1||||||||extra", // field count
	} {
		_, err := decodeItem(line)
		assert.Error(t, err, line)
	}
}

func TestTipAndEventRoundTrip(t *testing.T) {
	at := time.Date(2024, 12, 31, 23, 59, 59, 0, time.Local)

	tip := models.Tip{OrderID: "ORD-1", DriverUsername: "driver", Amount: 4.25, Timestamp: at}
	line, err := EncodeTip(tip)
	require.NoError(t, err)
	assert.Equal(t, "ORD-1|driver|4.25|2024-12-31 23:59:59", line)
	gotTip, err := DecodeTip(line)
	require.NoError(t, err)
	assert.Equal(t, tip, gotTip)

	ev := models.OrderEvent{OrderID: "ORD-1", Event: models.EventAssignDriver, From: models.StatusReady, To: models.StatusOutForDelivery, Actor: "admin", At: at}
	line, err = EncodeEvent(ev)
	require.NoError(t, err)
	gotEv, err := DecodeEvent(line)
	require.NoError(t, err)
	assert.Equal(t, ev, gotEv)
}

func TestOrderIDCut(t *testing.T) {
	assert.Equal(t, "ORD-1", orderID("ORD-1|a|b"))
	assert.Equal(t, "garbage", orderID("garbage"))
}
