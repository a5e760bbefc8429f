package models

import "fmt"

// Status is where an order sits in its lifecycle. The zero value is a draft
// that has not been checked out.
type Status string

const (
	StatusDraft          Status = ""
	StatusPending        Status = "pending"
	StatusPreparing      Status = "preparing"
	StatusReady          Status = "ready"
	StatusOutForDelivery Status = "out-for-delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

var statusLabels = map[Status]string{
	StatusDraft:          "Draft",
	StatusPending:        "Pending",
	StatusPreparing:      "Preparing",
	StatusReady:          "Ready",
	StatusOutForDelivery: "Out for Delivery",
	StatusDelivered:      "Delivered",
	StatusCancelled:      "Cancelled",
}

// Statuses lists every persisted status in lifecycle order.
var Statuses = []Status{
	StatusPending, StatusPreparing, StatusReady,
	StatusOutForDelivery, StatusDelivered, StatusCancelled,
}

func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Terminal reports whether no further event is accepted.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("models: unknown status %q", s)
	}
	return st, nil
}

// Event drives a status change.
type Event string

const (
	EventConfirm      Event = "confirm"
	EventStartPrep    Event = "start-prep"
	EventMarkReady    Event = "mark-ready"
	EventPickUp       Event = "pick-up"
	EventAssignDriver Event = "assign-driver"
	EventComplete     Event = "complete"
	EventCancel       Event = "cancel"
)

func ParseEvent(s string) (Event, error) {
	ev := Event(s)
	for _, known := range []Event{EventConfirm, EventStartPrep, EventMarkReady, EventPickUp, EventAssignDriver, EventComplete, EventCancel} {
		if ev == known {
			return ev, nil
		}
	}
	return "", fmt.Errorf("models: unknown event %q", s)
}

type edge struct {
	from  Status
	event Event
}

var transitions = map[edge]Status{
	{StatusDraft, EventConfirm}:           StatusPending,
	{StatusPending, EventStartPrep}:       StatusPreparing,
	{StatusPreparing, EventMarkReady}:     StatusReady,
	{StatusReady, EventPickUp}:            StatusDelivered,
	{StatusReady, EventAssignDriver}:      StatusOutForDelivery,
	{StatusOutForDelivery, EventComplete}: StatusDelivered,
	{StatusPending, EventCancel}:          StatusCancelled,
	{StatusPreparing, EventCancel}:        StatusCancelled,
	{StatusReady, EventCancel}:            StatusCancelled,
	{StatusOutForDelivery, EventCancel}:   StatusCancelled,
}

// Next returns the status ev leads to from s, ignoring guards.
func Next(s Status, ev Event) (Status, bool) {
	to, ok := transitions[edge{s, ev}]
	return to, ok
}

// Apply moves the order along the state machine. A rejected event leaves the
// order untouched. Use AssignDriver for EventAssignDriver.
func (o *Order) Apply(ev Event) error {
	return o.apply(ev, nil)
}

// AssignDriver hands a ready delivery order to driver and marks it out for
// delivery.
func (o *Order) AssignDriver(driver User) error {
	return o.apply(EventAssignDriver, &driver)
}

// Can reports whether ev would pass the table and guards right now.
func (o *Order) Can(ev Event) bool {
	cp := *o
	if ev == EventAssignDriver {
		return cp.apply(ev, &User{Username: "-", Role: RoleDriver}) == nil
	}
	return cp.apply(ev, nil) == nil
}

func (o *Order) apply(ev Event, driver *User) error {
	to, ok := Next(o.Status, ev)
	if !ok {
		return &TransitionError{From: o.Status, Event: ev}
	}
	if err := o.guard(ev, driver); err != nil {
		return err
	}

	o.Status = to
	switch ev {
	case EventAssignDriver:
		o.AssignedDriver = driver.Username
		o.AssignedDriverName = driver.Username
	case EventCancel:
		o.AssignedDriver = ""
		o.AssignedDriverName = ""
	}
	return nil
}

func (o *Order) guard(ev Event, driver *User) error {
	switch ev {
	case EventConfirm:
		return o.validateCheckout()
	case EventPickUp:
		if o.Type != Pickup {
			return invalid("order_type", "only pickup orders can be picked up")
		}
	case EventAssignDriver:
		if o.Type != Delivery {
			return invalid("order_type", "only delivery orders get a driver")
		}
		if driver == nil || driver.Username == "" {
			return invalid("driver", "is required")
		}
		if driver.Role != RoleDriver {
			return invalid("driver", "%s is not a driver", driver.Username)
		}
	}
	return nil
}
