package checkout

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aaravmahajanofficial/teagram/internal/apiclient"
	appErrors "github.com/aaravmahajanofficial/teagram/internal/errors"
	"github.com/aaravmahajanofficial/teagram/internal/models"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	msgSubmitFailed = "Не удалось оформить заказ, попробуйте ещё раз"
	msgEmptyCart    = "Корзина пуста"
	msgInProgress   = "Заказ уже отправляется"
)

var tracer = otel.Tracer("github.com/aaravmahajanofficial/teagram/internal/checkout")

type OrderCreator interface {
	CreateOrder(ctx context.Context, req models.OrderRequest, idempotencyKey string) (*models.OrderSummary, error)
}

// CartState is the part of the cart store checkout depends on.
type CartState interface {
	IsEmpty() bool
	TotalPrice() int64
	Clear(ctx context.Context) error
}

// Flow owns the checkout form between edits and submissions.
type Flow struct {
	orders OrderCreator
	cart   CartState
	logger *slog.Logger

	mu             sync.Mutex
	form           Form
	fieldErrs      FieldErrors
	submitErr      string
	submitting     bool
	idempotencyKey string
}

func NewFlow(orders OrderCreator, cart CartState, logger *slog.Logger) *Flow {
	if logger == nil {
		logger = slog.Default()
	}

	return &Flow{
		orders:    orders,
		cart:      cart,
		logger:    logger,
		form:      NewForm(),
		fieldErrs: FieldErrors{},
	}
}

// Set updates one field, clears that field's error and starts a new
// submission identity. The phone is stored formatted.
func (f *Flow) Set(field Field, value string) error {

	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case FieldName:
		f.form.Name = value
	case FieldPhone:
		f.form.Phone = FormatPhone(value)
	case FieldDelivery:
		method := models.DeliveryMethod(value)
		if !method.Valid() {
			return appErrors.ValidationError("Unknown delivery method").WithDetail(value)
		}
		f.form.Delivery = method
		// the address requirement depends on the method
		delete(f.fieldErrs, FieldAddress)
	case FieldAddress:
		f.form.Address = value
	case FieldComment:
		f.form.Comment = value
	default:
		return appErrors.ValidationError("Unknown checkout field").WithDetail(string(field))
	}

	delete(f.fieldErrs, field)
	f.idempotencyKey = ""

	return nil
}

// Submit validates the form and creates the order. Validation failures
// never reach the network. On success the cart is cleared and the form
// reset; on failure the form is kept and SubmitError is set.
func (f *Flow) Submit(ctx context.Context) (*models.OrderSummary, error) {

	ctx, span := tracer.Start(ctx, "checkout.submit", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	f.mu.Lock()

	if f.submitting {
		f.mu.Unlock()
		return nil, appErrors.BusinessError(msgInProgress)
	}

	f.submitErr = ""

	if errs := Validate(f.form); len(errs) > 0 {
		f.fieldErrs = errs
		f.mu.Unlock()
		return nil, appErrors.ValidationError("Invalid checkout form").WithData(errs)
	}

	if f.cart.IsEmpty() {
		f.submitErr = msgEmptyCart
		f.mu.Unlock()
		return nil, appErrors.BusinessError(msgEmptyCart)
	}

	if f.idempotencyKey == "" {
		f.idempotencyKey = uuid.NewString()
	}

	req := f.form.Request(f.cart.TotalPrice())
	key := f.idempotencyKey
	f.submitting = true
	f.mu.Unlock()

	span.SetAttributes(
		attribute.String("order.delivery_method", string(req.DeliveryMethod)),
		attribute.Int64("order.expected_total", req.ExpectedTotal),
	)

	summary, err := f.orders.CreateOrder(ctx, req, key)

	f.mu.Lock()
	f.submitting = false

	if err != nil {
		if !apiclient.IsCanceled(err) {
			f.submitErr = msgSubmitFailed
		}
		f.mu.Unlock()

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		f.logger.Error("Order submission failed",
			slog.String("delivery_method", string(req.DeliveryMethod)),
			slog.String("error", err.Error()),
		)

		return nil, err
	}

	f.form = NewForm()
	f.fieldErrs = FieldErrors{}
	f.idempotencyKey = ""
	f.mu.Unlock()

	summary.DeliveryMethod = models.DeliveryMethod(summary.DeliveryMethod).Label()
	if summary.CustomerName == "" {
		summary.CustomerName = req.CustomerName
	}

	if err := f.cart.Clear(ctx); err != nil {
		f.logger.Warn("Failed to clear cart after order",
			slog.String("order_id", summary.OrderID),
			slog.String("error", err.Error()),
		)
	}

	f.logger.Info("Order placed",
		slog.String("order_id", summary.OrderID),
		slog.Int64("total", summary.Total),
	)

	return summary, nil
}

func (f *Flow) Form() Form {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.form
}

func (f *Flow) Errors() FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(FieldErrors, len(f.fieldErrs))
	for k, v := range f.fieldErrs {
		out[k] = v
	}

	return out
}

// SubmitError is the generic retry message shown after a failed submission.
func (f *Flow) SubmitError() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.submitErr
}

func (f *Flow) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.submitting
}
