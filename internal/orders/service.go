package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/migapan/storefront-backend/internal/cart"
	"github.com/migapan/storefront-backend/internal/products"
	"github.com/migapan/storefront-backend/pkg/db"
	"github.com/migapan/storefront-backend/pkg/db/models"
	"github.com/migapan/storefront-backend/pkg/enums"
	pkgerrors "github.com/migapan/storefront-backend/pkg/errors"
	"github.com/migapan/storefront-backend/pkg/logger"
	"github.com/migapan/storefront-backend/pkg/metrics"
	"github.com/migapan/storefront-backend/pkg/outbox"
	"github.com/migapan/storefront-backend/pkg/outbox/payloads"
	"github.com/migapan/storefront-backend/pkg/pagination"
)

const createFailedMessage = "could not create order"

// Service places and reads the caller's orders.
type Service interface {
	Place(ctx context.Context, actor Actor, req PlaceOrderRequest) (*OrderDTO, error)
	List(ctx context.Context, userID uint64, params pagination.Params) (*ListResult, error)
	Get(ctx context.Context, userID, orderID uint64) (*OrderDTO, error)
}

// Actor is the authenticated user placing the order.
type Actor struct {
	UserID uint64
	Role   enums.UserRole
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams bundles the dependencies required to build an order service.
type ServiceParams struct {
	TxRunner      txRunner
	Repo          *Repository
	ProductRepo   *products.Repository
	CartRepo      *cart.Repository
	Outbox        outbox.Emitter
	ShippingFee   decimal.Decimal
	NumberRetries int
	Metrics       *metrics.OrderMetrics
	Logger        *logger.Logger
	// NumberFunc overrides order number generation in tests.
	NumberFunc func(time.Time) (string, error)
}

type service struct {
	tx          txRunner
	repo        *Repository
	products    *products.Repository
	carts       *cart.Repository
	outbox      outbox.Emitter
	shippingFee decimal.Decimal
	attempts    int
	metrics     *metrics.OrderMetrics
	logg        *logger.Logger
	number      func(time.Time) (string, error)
	now         func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter is required")
	}
	if params.ShippingFee.IsNegative() {
		return nil, fmt.Errorf("shipping fee must not be negative")
	}
	attempts := params.NumberRetries
	if attempts <= 0 {
		attempts = 1
	}
	number := params.NumberFunc
	if number == nil {
		number = NewOrderNumber
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		tx:          params.TxRunner,
		repo:        params.Repo,
		products:    params.ProductRepo,
		carts:       params.CartRepo,
		outbox:      params.Outbox,
		shippingFee: params.ShippingFee,
		attempts:    attempts,
		metrics:     params.Metrics,
		logg:        logg,
		number:      number,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// placement is the validated, normalized form of a request.
type placement struct {
	delivery enums.DeliveryMethod
	payment  enums.PaymentMethod
	address  *string
	phone    *string
	notes    *string
	lines    []LineRequest
}

func (s *service) Place(ctx context.Context, actor Actor, req PlaceOrderRequest) (*OrderDTO, error) {
	out, err := s.place(ctx, actor, req)
	if err != nil {
		typed := pkgerrors.As(err)
		if typed == nil {
			typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, createFailedMessage)
		}
		s.metrics.Failed(string(typed.Code()))
		return nil, typed
	}
	s.metrics.Placed(out.DeliveryMethod.String(), out.PaymentMethod.String(), out.Total)
	return out, nil
}

func (s *service) place(ctx context.Context, actor Actor, req PlaceOrderRequest) (*OrderDTO, error) {
	if actor.UserID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	p, err := normalize(req)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	for attempt := 1; attempt <= s.attempts; attempt++ {
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			var txErr error
			order, txErr = s.placeTx(ctx, tx, actor, p)
			return txErr
		})
		if err == nil || !db.IsUniqueViolation(err, UniqueOrderNumberConstraint) {
			break
		}
		s.metrics.NumberCollision()
		s.logg.Warn(s.logg.WithField(ctx, "attempt", attempt), "order.number_collision")
	}
	if err != nil {
		if db.IsUniqueViolation(err, UniqueOrderNumberConstraint) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, createFailedMessage)
		}
		return nil, err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total":        order.Total.String(),
	})
	s.logg.Info(logCtx, "order.placed")

	dto := FromModel(order)
	return &dto, nil
}

// placeTx runs the all-or-nothing part of placement on tx.
func (s *service) placeTx(ctx context.Context, tx *gorm.DB, actor Actor, p placement) (*models.Order, error) {
	carts := s.carts.WithTx(tx)

	lines := p.lines
	if len(lines) == 0 {
		fromCart, err := s.cartLines(ctx, carts, actor.UserID)
		if err != nil {
			return nil, err
		}
		lines = fromCart
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}

	ids := make([]uint64, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	catalog, err := s.products.WithTx(tx).FindActiveByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, createFailedMessage)
	}

	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		product, ok := catalog[line.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %d not found or unavailable", line.ProductID)).
				WithDetails(map[string]any{"product_id": line.ProductID})
		}
		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
			Subtotal:    lineTotal,
		})
	}

	shipping := decimal.Zero
	if p.delivery.RequiresAddress() {
		shipping = s.shippingFee
	}

	now := s.now()
	number, err := s.number(now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, createFailedMessage)
	}

	order := &models.Order{
		UserID:          actor.UserID,
		OrderNumber:     number,
		DeliveryMethod:  p.delivery,
		PaymentMethod:   p.payment,
		Subtotal:        subtotal,
		ShippingCost:    shipping,
		Total:           subtotal.Add(shipping),
		DeliveryAddress: p.address,
		ContactPhone:    p.phone,
		Notes:           p.notes,
		Status:          enums.OrderStatusPending,
	}
	repo := s.repo.WithTx(tx)
	if err := repo.InsertOrder(ctx, order); err != nil {
		if db.IsUniqueViolation(err, UniqueOrderNumberConstraint) {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, createFailedMessage)
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if err := repo.InsertItems(ctx, items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, createFailedMessage)
	}
	order.Items = items

	if _, err := carts.ClearItemsForUser(ctx, actor.UserID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, createFailedMessage)
	}

	if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Actor:         &outbox.ActorRef{UserID: actor.UserID, Role: actor.Role.String()},
		Data:          orderCreatedPayload(order),
		OccurredAt:    now,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, createFailedMessage)
	}
	return order, nil
}

// cartLines locks the user's cart before reading it so a concurrent
// placement from the same cart waits and then finds it empty.
func (s *service) cartLines(ctx context.Context, carts *cart.Repository, userID uint64) ([]LineRequest, error) {
	c, err := carts.LockCart(ctx, cart.ForUser(userID))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, createFailedMessage)
	}
	if c == nil {
		return nil, nil
	}
	items, err := carts.ListItems(ctx, c.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, createFailedMessage)
	}
	lines := make([]LineRequest, 0, len(items))
	for _, item := range items {
		lines = append(lines, LineRequest{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines, nil
}

func normalize(req PlaceOrderRequest) (placement, error) {
	var p placement

	delivery, err := enums.ParseDeliveryMethod(strings.ToLower(strings.TrimSpace(req.DeliveryMethod)))
	if err != nil {
		return p, pkgerrors.New(pkgerrors.CodeValidation, "delivery_method must be domicilio or recogida")
	}
	payment, err := enums.ParsePaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod)))
	if err != nil {
		return p, pkgerrors.New(pkgerrors.CodeValidation, "payment_method must be efectivo, transferencia or tarjeta")
	}
	p.delivery = delivery
	p.payment = payment

	if delivery.RequiresAddress() {
		p.address = trimmed(req.DeliveryAddress)
		if p.address == nil {
			return p, pkgerrors.New(pkgerrors.CodeValidation, "delivery_address is required for home delivery")
		}
	}
	p.phone = trimmed(req.ContactPhone)
	p.notes = trimmed(req.Notes)

	for i, line := range req.Items {
		if line.ProductID == 0 || line.Quantity < 1 {
			return p, pkgerrors.New(pkgerrors.CodeValidation, "each item needs a product_id and a quantity of at least 1").
				WithDetails(map[string]any{"index": i})
		}
	}
	p.lines = req.Items
	return p, nil
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}

func orderCreatedPayload(order *models.Order) payloads.OrderCreatedEvent {
	event := payloads.OrderCreatedEvent{
		OrderID:        order.ID,
		OrderNumber:    order.OrderNumber,
		UserID:         order.UserID,
		DeliveryMethod: order.DeliveryMethod.String(),
		PaymentMethod:  order.PaymentMethod.String(),
		Subtotal:       order.Subtotal.String(),
		ShippingCost:   order.ShippingCost.String(),
		Total:          order.Total.String(),
		Items:          make([]payloads.OrderCreatedItem, 0, len(order.Items)),
		CreatedAt:      order.CreatedAt,
	}
	for _, item := range order.Items {
		event.Items = append(event.Items, payloads.OrderCreatedItem{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.String(),
		})
	}
	return event
}

func (s *service) List(ctx context.Context, userID uint64, params pagination.Params) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListForUser(ctx, userID, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	result := &ListResult{Orders: make([]OrderDTO, 0, len(rows))}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	for i := range rows {
		result.Orders = append(result.Orders, FromModel(&rows[i]))
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, userID, orderID uint64) (*OrderDTO, error) {
	if orderID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order id")
	}
	order, err := s.repo.FindForUser(ctx, userID, orderID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	dto := FromModel(order)
	return &dto, nil
}
