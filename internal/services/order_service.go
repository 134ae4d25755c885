package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agri_market/internal/events"
	"agri_market/internal/models"
	"agri_market/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderService interface {
	CreateOrder(ctx context.Context, actor Actor, input CreateOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, id uint, actor Actor) (*models.Order, error)
	ListOrders(ctx context.Context, actor Actor, asSeller bool) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uint, status string, actor Actor) (*models.Order, error)
	UpdatePaymentStatus(ctx context.Context, id uint, status string, actor Actor) (*models.Order, error)
}

// CreateOrderInput names exactly one listing. ListingKind defaults to
// product, or produce when only ProduceID is set.
type CreateOrderInput struct {
	ListingKind     string `json:"listing_kind"`
	ProductID       uint   `json:"product_id"`
	ProduceID       uint   `json:"produce_id"`
	Quantity        int    `json:"quantity" binding:"required"`
	DeliveryMethod  string `json:"delivery_method"`
	DeliveryAddress string `json:"delivery_address"`
	Notes           string `json:"notes"`
}

// OrderStatusChangedPayload is the body of an order.status_changed event.
type OrderStatusChangedPayload struct {
	OrderID     uint   `json:"order_id"`
	OrderNumber string `json:"order_number"`
	From        string `json:"from"`
	To          string `json:"to"`
	ActorID     uint   `json:"actor_id"`
}

// orderTransitions lists the permitted edges. Anything else, including a
// jump such as pending to delivered, is rejected.
var orderTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:    {models.OrderConfirmed, models.OrderCancelled, models.OrderRejected},
	models.OrderConfirmed:  {models.OrderProcessing, models.OrderCancelled, models.OrderRejected},
	models.OrderProcessing: {models.OrderReady},
	models.OrderReady:      {models.OrderDelivered},
}

func canMoveOrder(from, to models.OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type orderService struct {
	repos      *repository.Repositories
	dispatcher *Dispatcher
	now        func() time.Time
}

func NewOrderService(repos *repository.Repositories, dispatcher *Dispatcher) OrderService {
	return &orderService{repos: repos, dispatcher: dispatcher, now: time.Now}
}

// NewOrderNumber returns ORD-YYYYMMDD-XXXXXXXX.
func NewOrderNumber(now time.Time) string {
	return referenceNumber("ORD", now)
}

func referenceNumber(prefix string, now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), suffix)
}

func (s *orderService) CreateOrder(ctx context.Context, actor Actor, input CreateOrderInput) (*models.Order, error) {
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	method := models.DeliveryMethod(input.DeliveryMethod)
	if method == "" {
		method = models.DeliveryHome
	}
	if method != models.DeliveryHome && method != models.DeliveryPickup {
		return nil, fmt.Errorf("%w: unknown delivery method %q", ErrInvalidInput, input.DeliveryMethod)
	}
	kind, err := input.listingKind()
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderNumber:     NewOrderNumber(s.now()),
		ListingKind:     string(kind),
		CustomerID:      actor.UserID,
		Quantity:        input.Quantity,
		Status:          string(models.OrderPending),
		PaymentStatus:   string(models.PaymentPending),
		DeliveryMethod:  string(method),
		DeliveryAddress: input.DeliveryAddress,
		Notes:           input.Notes,
	}

	var name string
	if kind == models.KindProduce {
		name, err = s.attachProduce(ctx, order, input.ProduceID)
	} else {
		name, err = s.attachProduct(ctx, order, input.ProductID)
	}
	if err != nil {
		return nil, err
	}
	if order.SellerID == actor.UserID {
		return nil, fmt.Errorf("%w: cannot order your own %s", ErrForbidden, kind)
	}
	order.TotalAmount = order.UnitPrice.Mul(decimal.NewFromInt(int64(input.Quantity)))

	if err := s.repos.Orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	var out outbox
	out.notify(order.SellerID, models.NotifyOrder, "New order received",
		fmt.Sprintf("Order %s: %d x %s", order.OrderNumber, order.Quantity, name), order.OrderNumber)
	out.event(events.OrderStatusChanged, order.OrderNumber, OrderStatusChangedPayload{
		OrderID: order.ID, OrderNumber: order.OrderNumber, To: order.Status, ActorID: actor.UserID,
	})
	s.dispatcher.dispatch(ctx, &out)

	return order, nil
}

func (in CreateOrderInput) listingKind() (models.ListingKind, error) {
	kind := models.ListingKind(in.ListingKind)
	if kind == "" {
		kind = models.KindProduct
		if in.ProductID == 0 && in.ProduceID != 0 {
			kind = models.KindProduce
		}
	}

	switch kind {
	case models.KindProduct:
		if in.ProductID == 0 || in.ProduceID != 0 {
			return "", fmt.Errorf("%w: a product order needs product_id only", ErrInvalidInput)
		}
	case models.KindProduce:
		if in.ProduceID == 0 || in.ProductID != 0 {
			return "", fmt.Errorf("%w: a produce order needs produce_id only", ErrInvalidInput)
		}
	default:
		return "", fmt.Errorf("%w: cannot order a %q listing", ErrInvalidInput, in.ListingKind)
	}
	return kind, nil
}

// attachProduct points the order at a supplier's product and returns the
// product name.
func (s *orderService) attachProduct(ctx context.Context, order *models.Order, productID uint) (string, error) {
	product, err := s.repos.Products.GetByID(ctx, productID)
	if err != nil {
		return "", notFound(err, "product", productID)
	}
	if !product.IsAvailable {
		return "", fmt.Errorf("%w: product %d is not available", ErrConflict, product.ID)
	}
	supplier, err := s.repos.Profiles.GetSupplierByID(ctx, product.SupplierID)
	if err != nil {
		return "", notFound(err, "supplier", product.SupplierID)
	}

	order.ProductID = &product.ID
	order.SupplierID = &supplier.ID
	order.SellerID = supplier.UserID
	order.UnitPrice = product.Price
	return product.Name, nil
}

// attachProduce points the order at a farmer's produce and returns the
// produce name.
func (s *orderService) attachProduce(ctx context.Context, order *models.Order, produceID uint) (string, error) {
	produce, err := s.repos.Produce.GetByID(ctx, produceID)
	if err != nil {
		return "", notFound(err, "produce", produceID)
	}
	if !produce.IsAvailable {
		return "", fmt.Errorf("%w: produce %d is not available", ErrConflict, produce.ID)
	}
	farmer, err := s.repos.Profiles.GetFarmerByID(ctx, produce.FarmerID)
	if err != nil {
		return "", notFound(err, "farmer", produce.FarmerID)
	}

	order.ProduceID = &produce.ID
	order.FarmerID = &farmer.ID
	order.SellerID = farmer.UserID
	order.UnitPrice = produce.PricePerUnit
	return produce.Name, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uint, actor Actor) (*models.Order, error) {
	order, err := s.repos.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "order", id)
	}
	if _, err := orderParty(order, actor); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, actor Actor, asSeller bool) ([]models.Order, error) {
	if !asSeller {
		return s.repos.Orders.GetByCustomerID(ctx, actor.UserID)
	}
	return s.repos.Orders.GetBySellerID(ctx, actor.UserID)
}

// UpdateStatus moves an order along the lifecycle. Confirming sells the
// ordered quantity out of stock; cancelling or rejecting a confirmed order
// returns it. The order and listing rows stay locked until commit.
func (s *orderService) UpdateStatus(ctx context.Context, id uint, status string, actor Actor) (*models.Order, error) {
	next := models.OrderStatus(status)
	if !next.IsValid() {
		return nil, fmt.Errorf("%w: %q is not an order status", ErrInvalidStatus, status)
	}

	var out outbox
	var order *models.Order
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		order, err = tx.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "order", id)
		}

		isSeller, err := orderParty(order, actor)
		if err != nil {
			return err
		}
		if !isSeller && next != models.OrderCancelled {
			return fmt.Errorf("%w: buyers may only cancel an order", ErrForbidden)
		}

		current := models.OrderStatus(order.Status)
		if current == next {
			return nil
		}
		if !canMoveOrder(current, next) {
			return fmt.Errorf("%w: order cannot move from %s to %s", ErrInvalidTransition, current, next)
		}

		switch {
		case next == models.OrderConfirmed:
			if err := s.moveStock(ctx, tx, &out, order, -order.Quantity, models.StockSale, actor); err != nil {
				return err
			}
		case current == models.OrderConfirmed && (next == models.OrderCancelled || next == models.OrderRejected):
			if err := s.moveStock(ctx, tx, &out, order, order.Quantity, models.StockReturn, actor); err != nil {
				return err
			}
		}

		now := s.now()
		if next == models.OrderConfirmed && order.ConfirmedAt == nil {
			order.ConfirmedAt = &now
		}
		if next == models.OrderDelivered && order.DeliveredAt == nil {
			order.DeliveredAt = &now
			orderID := order.ID
			err := creditUser(ctx, tx, order.SellerID, order.TotalAmount,
				fmt.Sprintf("Order %s delivered", order.OrderNumber), order.OrderNumber, &orderID, nil)
			if err != nil {
				return err
			}
		}

		order.Status = string(next)
		if err := tx.Orders.Update(ctx, order); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		out.notify(order.CustomerID, models.NotifyOrder, "Order update",
			fmt.Sprintf("Your order %s is now %s", order.OrderNumber, next), order.OrderNumber)
		out.event(events.OrderStatusChanged, order.OrderNumber, OrderStatusChangedPayload{
			OrderID: order.ID, OrderNumber: order.OrderNumber, From: string(current), To: string(next), ActorID: actor.UserID,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.dispatch(ctx, &out)
	return order, nil
}

// moveStock writes the ledger entry for the order's listing, locking the
// product or produce row first.
func (s *orderService) moveStock(ctx context.Context, tx *repository.Repositories, out *outbox, order *models.Order, delta int, changeType models.StockChangeType, actor Actor) error {
	note := fmt.Sprintf("Order %s", order.OrderNumber)

	if order.ListingKind == string(models.KindProduce) {
		if order.ProduceID == nil {
			return fmt.Errorf("%w: order %d has no produce", ErrNotFound, order.ID)
		}
		produce, err := tx.Produce.GetForUpdate(ctx, *order.ProduceID)
		if err != nil {
			return notFound(err, "produce", *order.ProduceID)
		}
		entry, err := applyProduceChange(ctx, tx, produce, decimal.NewFromInt(int64(delta)), changeType, actor.UserID, note)
		if err != nil {
			return err
		}
		recordProduceEvent(out, entry)
		return nil
	}

	if order.ProductID == nil {
		return fmt.Errorf("%w: order %d has no product", ErrNotFound, order.ID)
	}
	product, err := tx.Products.GetForUpdate(ctx, *order.ProductID)
	if err != nil {
		return notFound(err, "product", *order.ProductID)
	}
	entry, err := applyStockChange(ctx, tx, product, delta, changeType, actor.UserID, note)
	if err != nil {
		return err
	}
	recordStockEvent(out, entry)
	return nil
}

func (s *orderService) UpdatePaymentStatus(ctx context.Context, id uint, status string, actor Actor) (*models.Order, error) {
	payment := models.PaymentStatus(status)
	if !payment.IsValid() {
		return nil, fmt.Errorf("%w: %q is not a payment status", ErrInvalidStatus, status)
	}

	var out outbox
	var order *models.Order
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		order, err = tx.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "order", id)
		}
		isSeller, err := orderParty(order, actor)
		if err != nil {
			return err
		}
		if !isSeller {
			return fmt.Errorf("%w: only the seller may update payment", ErrForbidden)
		}
		if order.PaymentStatus == string(payment) {
			return nil
		}

		order.PaymentStatus = string(payment)
		if err := tx.Orders.Update(ctx, order); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		out.notify(order.CustomerID, models.NotifyPayment, "Payment update",
			fmt.Sprintf("Payment for order %s is %s", order.OrderNumber, payment), order.OrderNumber)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.dispatch(ctx, &out)
	return order, nil
}

// orderParty reports whether the actor sold the order, failing with
// ErrForbidden when the actor is neither its seller nor its buyer.
func orderParty(order *models.Order, actor Actor) (isSeller bool, err error) {
	isSeller = order.SellerID == actor.UserID
	if !isSeller && order.CustomerID != actor.UserID {
		return false, fmt.Errorf("%w: order %d belongs to another user", ErrForbidden, order.ID)
	}
	return isSeller, nil
}
