package services

import (
	"context"
	"errors"
	"time"

	"invoice_manager/internal/logger"
	"invoice_manager/internal/models"
	"invoice_manager/internal/patch"
	"invoice_manager/internal/pricing"
	"invoice_manager/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderInput is a create or save request. On save, unset fields keep their
// persisted value; an unset Items leaves the lines alone while an empty one
// removes them all.
type OrderInput struct {
	CustomerID patch.Field[uuid.UUID]           `json:"customer_id"`
	Status     patch.Field[string]              `json:"status"`
	OrderDate  patch.Field[Date]                `json:"order_date"`
	ExtraInfo  patch.Field[string]              `json:"extra_info"`
	Items      patch.Field[[]pricing.ItemInput] `json:"items"`
}

type OrderService interface {
	CreateOrder(ctx context.Context, actor Actor, input OrderInput) (*models.Order, error)
	UpdateOrder(ctx context.Context, actor Actor, id uuid.UUID, input OrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, actor Actor, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, actor Actor, filter repository.OrderFilter) ([]models.Order, error)
	DeleteOrder(ctx context.Context, actor Actor, id uuid.UUID) error
}

type orderService struct {
	store   repository.Store
	locker  OrderLocker
	lockTTL time.Duration
	log     zerolog.Logger
}

func NewOrderService(store repository.Store, locker OrderLocker, lockTTL time.Duration) OrderService {
	if locker == nil {
		locker = NewLocalLocker()
	}
	return &orderService{
		store:   store,
		locker:  locker,
		lockTTL: lockTTL,
		log:     logger.WithComponent("order_service"),
	}
}

var orderStatuses = map[string]bool{
	string(models.OrderDraft):     true,
	string(models.OrderPending):   true,
	string(models.OrderCompleted): true,
	string(models.OrderCancelled): true,
}

func (s *orderService) CreateOrder(ctx context.Context, actor Actor, input OrderInput) (*models.Order, error) {
	if !input.CustomerID.IsSet() {
		return nil, invalid("customer_id is required")
	}

	order := &models.Order{
		ID:        uuid.New(),
		CompanyID: actor.CompanyID,
		CreatedBy: actor.UserID,
		Status:    string(models.OrderDraft),
		OrderDate: truncateDay(time.Now()),
	}
	if err := s.applyHeader(ctx, s.store, order, input); err != nil {
		return nil, err
	}

	submitted, _ := input.Items.Get()
	order.Items = pricing.NewItems(order.ID, submitted)
	order.TotalAmountVatExcl, order.TotalAmountVatIncl = pricing.SumTotals(order.Items)

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		return tx.Orders().Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("order_id", order.ID.String()).
		Int("items", len(order.Items)).
		Str("total_vat_incl", order.TotalAmountVatIncl.String()).
		Msg("order created")

	return s.store.Orders().GetByID(ctx, actor.CompanyID, order.ID)
}

// UpdateOrder saves the order header and reconciles its lines in one
// transaction. Failures other than missing rows, permissions and bad input are
// reported as *ReconciliationConflict and leave the order untouched.
func (s *orderService) UpdateOrder(ctx context.Context, actor Actor, id uuid.UUID, input OrderInput) (*models.Order, error) {
	release, err := s.locker.Acquire(ctx, "order:"+id.String(), s.lockTTL)
	if err != nil {
		return nil, &ReconciliationConflict{OrderID: id, Err: err}
	}
	defer release()

	var plan *pricing.Plan
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		order, err := tx.Orders().LockByID(ctx, actor.CompanyID, id)
		if err != nil {
			return notFound(err, "order")
		}
		if !actor.canModifyOrder(order) {
			return ErrForbidden
		}
		if err := s.applyHeader(ctx, tx, order, input); err != nil {
			return err
		}

		if submitted, ok := input.Items.Get(); ok {
			existing, err := tx.OrderItems().GetByOrderID(ctx, id)
			if err != nil {
				return err
			}
			plan, err = pricing.Reconcile(id, existing, submitted)
			if err != nil {
				return err
			}
			if err := applyPlan(ctx, tx, id, plan); err != nil {
				return err
			}
			order.TotalAmountVatExcl = plan.TotalVatExcl
			order.TotalAmountVatIncl = plan.TotalVatIncl
		}

		return tx.Orders().UpdateHeader(ctx, order)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) || errors.Is(err, ErrInvalidInput) {
			return nil, err
		}
		s.log.Warn().Err(err).Str("order_id", id.String()).Msg("order save rolled back")
		return nil, &ReconciliationConflict{OrderID: id, Err: err}
	}

	if plan != nil {
		s.log.Info().
			Str("order_id", id.String()).
			Int("deleted", len(plan.Deletes)).
			Int("updated", len(plan.Updates)).
			Int("inserted", len(plan.Inserts)).
			Msg("order items reconciled")
	}

	return s.store.Orders().GetByID(ctx, actor.CompanyID, id)
}

func applyPlan(ctx context.Context, tx repository.Store, orderID uuid.UUID, plan *pricing.Plan) error {
	items := tx.OrderItems()
	if err := items.DeleteByIDs(ctx, orderID, plan.Deletes); err != nil {
		return err
	}
	for i := range plan.Updates {
		if err := items.Update(ctx, &plan.Updates[i]); err != nil {
			return err
		}
	}
	return items.Create(ctx, plan.Inserts)
}

// applyHeader copies the supplied order-level fields onto order.
func (s *orderService) applyHeader(ctx context.Context, st repository.Store, order *models.Order, input OrderInput) error {
	if customerID, ok := input.CustomerID.Get(); ok {
		if _, err := st.Customers().GetByID(ctx, order.CompanyID, customerID); err != nil {
			if errors.Is(notFound(err, "customer"), ErrNotFound) {
				return invalid("customer_id %s is not a customer of this company", customerID)
			}
			return err
		}
		order.CustomerID = customerID
	}
	if status, ok := input.Status.Get(); ok {
		if !orderStatuses[status] {
			return invalid("unknown order status %q", status)
		}
		order.Status = status
	}
	if date, ok := input.OrderDate.Get(); ok {
		order.OrderDate = date.Time
	}
	input.ExtraInfo.Apply(&order.ExtraInfo)
	return nil
}

func (s *orderService) GetOrder(ctx context.Context, actor Actor, id uuid.UUID) (*models.Order, error) {
	order, err := s.store.Orders().GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, actor Actor, filter repository.OrderFilter) ([]models.Order, error) {
	return s.store.Orders().List(ctx, actor.CompanyID, filter)
}

func (s *orderService) DeleteOrder(ctx context.Context, actor Actor, id uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		order, err := tx.Orders().LockByID(ctx, actor.CompanyID, id)
		if err != nil {
			return notFound(err, "order")
		}
		if !actor.canModifyOrder(order) {
			return ErrForbidden
		}
		if err := tx.Orders().Delete(ctx, actor.CompanyID, id); err != nil {
			return notFound(err, "order")
		}
		s.log.Info().Str("order_id", id.String()).Msg("order deleted")
		return nil
	})
}
