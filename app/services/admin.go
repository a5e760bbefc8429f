package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/shashiranjanraj/pizzapos/app/models"
	"github.com/shashiranjanraj/pizzapos/app/store"
	"github.com/shashiranjanraj/pizzapos/app/store/flatfile"
	"github.com/shashiranjanraj/pizzapos/pkg/collection"
	"github.com/shashiranjanraj/pizzapos/pkg/event"
	"github.com/shashiranjanraj/pizzapos/pkg/logger"
	"github.com/shashiranjanraj/pizzapos/pkg/storage"
)

// AdminService is the back-office workflow: order board, kitchen status
// changes, driver dispatch, reports and the end-of-day reset.
type AdminService struct {
	store store.Store
	disk  storage.Disk
	life  *lifecycle
	now   func() time.Time
}

// NewAdminService wires the admin workflow. disk receives reset-sales archives.
func NewAdminService(s store.Store, disk storage.Disk, bus *event.Bus) *AdminService {
	return &AdminService{
		store: s,
		disk:  disk,
		life:  &lifecycle{store: s, bus: bus, now: time.Now},
		now:   time.Now,
	}
}

// Orders lists orders with the given status. "" and "all" list everything.
func (s *AdminService) Orders(filter string) ([]*models.Order, error) {
	orders, err := s.store.ListOrders()
	if err != nil {
		return nil, err
	}
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" || filter == "all" {
		return orders, nil
	}
	status, err := models.ParseStatus(filter)
	if err != nil || status == models.StatusDraft {
		return nil, &models.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", filter)}
	}
	return collection.Filter(orders, func(o *models.Order) bool { return o.Status == status }), nil
}

func (s *AdminService) Order(id string) (*models.Order, error) {
	return s.store.FindOrder(id)
}

func (s *AdminService) Events(id string) ([]models.OrderEvent, error) {
	if _, err := s.store.FindOrder(id); err != nil {
		return nil, err
	}
	return s.store.ListEvents(id)
}

func (s *AdminService) StartPreparing(ctx context.Context, id, actor string) (*models.Order, error) {
	return s.life.apply(ctx, id, actor, models.EventStartPrep)
}

func (s *AdminService) MarkReady(ctx context.Context, id, actor string) (*models.Order, error) {
	return s.life.apply(ctx, id, actor, models.EventMarkReady)
}

// MarkPickedUp completes a pickup order.
func (s *AdminService) MarkPickedUp(ctx context.Context, id, actor string) (*models.Order, error) {
	return s.life.apply(ctx, id, actor, models.EventPickUp)
}

func (s *AdminService) Cancel(ctx context.Context, id, actor string) (*models.Order, error) {
	return s.life.apply(ctx, id, actor, models.EventCancel)
}

// AssignDriver dispatches a ready delivery order. The driver must be a known
// user with the driver role.
func (s *AdminService) AssignDriver(ctx context.Context, id, driver, actor string) (*models.Order, error) {
	u, err := lookupDriver(s.store, driver)
	if err != nil {
		return nil, err
	}
	return s.life.transition(ctx, id, actor, models.EventAssignDriver, func(o *models.Order) error {
		return o.AssignDriver(u)
	})
}

// Advance applies any admin event by name. assign-driver needs a driver and
// goes through AssignDriver.
func (s *AdminService) Advance(ctx context.Context, id string, ev models.Event, actor string) (*models.Order, error) {
	switch ev {
	case models.EventStartPrep, models.EventMarkReady, models.EventPickUp, models.EventCancel:
		return s.life.apply(ctx, id, actor, ev)
	case models.EventAssignDriver:
		return nil, &models.ValidationError{Field: "driver", Message: "is required"}
	default:
		return nil, &models.ValidationError{Field: "event", Message: fmt.Sprintf("%s is not an admin action", ev)}
	}
}

func (s *AdminService) Dashboard() (Dashboard, error) {
	orders, err := s.store.ListOrders()
	if err != nil {
		return Dashboard{}, err
	}
	return BuildDashboard(orders, s.now()), nil
}

// DailyReport aggregates the orders placed on day's local calendar date.
func (s *AdminService) DailyReport(day time.Time) (DailyReport, error) {
	orders, err := s.store.ListOrders()
	if err != nil {
		return DailyReport{}, err
	}
	return BuildDailyReport(orders, day), nil
}

func (s *AdminService) SalesReport() (SalesReport, error) {
	orders, err := s.store.ListOrders()
	if err != nil {
		return SalesReport{}, err
	}
	return BuildSalesReport(orders), nil
}

func (s *AdminService) Users() ([]models.User, error) {
	return s.store.ListUsers()
}

// ResetResult describes a completed ResetSales.
type ResetResult struct {
	Removed []*models.Order `json:"removed"`
	Archive string          `json:"archive"`
}

// ResetSales deletes every order placed on day. It refuses to run unless
// confirmed is true. The orders are archived to the disk before anything is
// removed, and only the archived orders are removed.
func (s *AdminService) ResetSales(ctx context.Context, day time.Time, confirmed bool) (ResetResult, error) {
	if !confirmed {
		return ResetResult{}, ErrConfirmationRequired
	}
	if s.disk == nil {
		return ResetResult{}, errors.New("services: reset-sales: no archive disk configured")
	}

	orders, err := s.store.ListOrders()
	if err != nil {
		return ResetResult{}, err
	}
	doomed := collection.Filter(orders, onDay(day))

	dir := path.Join("archive", fmt.Sprintf("sales-%s-%s", day.Format("2006-01-02"), s.now().Format("20060102-150405")))
	if err := s.archive(ctx, dir, doomed); err != nil {
		return ResetResult{}, fmt.Errorf("services: reset-sales: archive: %w", err)
	}

	ids := make(map[string]bool, len(doomed))
	for _, o := range doomed {
		ids[o.ID] = true
	}
	removed, err := s.store.PurgeOrders(func(o *models.Order) bool { return ids[o.ID] })
	if err != nil {
		return ResetResult{}, err
	}

	logger.WithCtx(ctx).Warn("sales reset", "day", day.Format("2006-01-02"), "removed", len(removed), "archive", dir)
	s.life.bus.Fire(event.SalesReset, ResetResult{Removed: removed, Archive: dir})
	return ResetResult{Removed: removed, Archive: dir}, nil
}

func (s *AdminService) archive(ctx context.Context, dir string, orders []*models.Order) error {
	var orderLines, itemLines []string
	for _, o := range orders {
		line, err := flatfile.EncodeOrder(o)
		if err != nil {
			return err
		}
		items, err := flatfile.EncodeItems(o.ID, o.Items())
		if err != nil {
			return err
		}
		orderLines = append(orderLines, line)
		itemLines = append(itemLines, items...)
	}
	if err := s.disk.Put(ctx, path.Join(dir, flatfile.OrdersFile), joinLines(orderLines)); err != nil {
		return err
	}
	return s.disk.Put(ctx, path.Join(dir, flatfile.ItemsFile), joinLines(itemLines))
}

func joinLines(lines []string) []byte {
	if len(lines) == 0 {
		return nil
	}
	return []byte(strings.Join(lines, "\n") + "\n")
}

func lookupDriver(s store.Store, username string) (models.User, error) {
	if strings.TrimSpace(username) == "" {
		return models.User{}, &models.ValidationError{Field: "driver", Message: "is required"}
	}
	u, err := s.FindUser(username)
	if isNotFound(err) {
		return models.User{}, &models.ValidationError{Field: "driver", Message: fmt.Sprintf("unknown user %s", username)}
	}
	if err != nil {
		return models.User{}, err
	}
	if u.Role != models.RoleDriver {
		return models.User{}, &models.ValidationError{Field: "driver", Message: fmt.Sprintf("%s is not a driver", username)}
	}
	return u, nil
}
