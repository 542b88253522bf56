package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aaravmahajanofficial/teagram/internal/apiclient"
	appErrors "github.com/aaravmahajanofficial/teagram/internal/errors"
	"github.com/aaravmahajanofficial/teagram/internal/metrics"
	"github.com/aaravmahajanofficial/teagram/internal/models"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

const (
	msgLoadFailed   = "Не удалось загрузить корзину"
	msgUpdateFailed = "Не удалось обновить корзину"

	hydrateConcurrency = 4
)

var tracer = otel.Tracer("github.com/aaravmahajanofficial/teagram/internal/cart")

// Backend is the server-side cart. *API implements it.
type Backend interface {
	Fetch(ctx context.Context) (*models.Cart, error)
	Clear(ctx context.Context) (*models.Cart, error)
	AddItem(ctx context.Context, item models.CartItem) (*models.Cart, error)
	ReplaceItems(ctx context.Context, items []models.CartItem) (*models.Cart, error)
	UpdateItem(ctx context.Context, productID, variantID string, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, productID, variantID string) (*models.Cart, error)
}

// ProductSource resolves product details for line items. *catalog.Client
// implements it.
type ProductSource interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

// Line is a cart item with its resolved display data.
type Line struct {
	Product  models.Product
	Variant  models.ProductVariant
	Quantity int
	Total    int64
}

// Store holds the client's mirror of the server cart. Mutations run one at a
// time in call order; a mutation whose context is cancelled before the
// response arrives leaves the state untouched.
type Store struct {
	backend  Backend
	products ProductSource
	validate *validator.Validate
	logger   *slog.Logger

	// single slot queue for mutations
	sem chan struct{}

	mu       sync.RWMutex
	status   Status
	cart     models.Cart
	resolved map[string]models.Product
	errMsg   string
	updating bool
}

func NewStore(backend Backend, products ProductSource, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		backend:  backend,
		products: products,
		validate: validator.New(),
		logger:   logger,
		sem:      make(chan struct{}, 1),
		status:   StatusLoading,
		cart:     models.Cart{Items: []models.CartItem{}},
		resolved: make(map[string]models.Product),
	}
}

// Load fetches the cart and hydrates the products it references.
func (s *Store) Load(ctx context.Context) error {
	return s.run(ctx, "load", func(ctx context.Context) (*models.Cart, error) {
		return s.backend.Fetch(ctx)
	})
}

func (s *Store) AddItem(ctx context.Context, productID, variantID string, quantity int) error {

	item := models.CartItem{ProductID: productID, VariantID: variantID, Quantity: quantity}
	if err := s.validate.Struct(item); err != nil {
		return appErrors.ValidationError("Invalid cart item").WithError(err)
	}

	return s.run(ctx, "add", func(ctx context.Context) (*models.Cart, error) {
		return s.backend.AddItem(ctx, item)
	})
}

// UpdateItem sets a line's quantity; zero or less removes the line.
func (s *Store) UpdateItem(ctx context.Context, productID, variantID string, quantity int) error {

	if quantity <= 0 {
		return s.RemoveItem(ctx, productID, variantID)
	}

	if productID == "" || variantID == "" {
		return appErrors.ValidationError("Product and variant are required")
	}

	return s.run(ctx, "update", func(ctx context.Context) (*models.Cart, error) {
		return s.backend.UpdateItem(ctx, productID, variantID, quantity)
	})
}

func (s *Store) RemoveItem(ctx context.Context, productID, variantID string) error {

	if productID == "" || variantID == "" {
		return appErrors.ValidationError("Product and variant are required")
	}

	return s.run(ctx, "remove", func(ctx context.Context) (*models.Cart, error) {
		return s.backend.RemoveItem(ctx, productID, variantID)
	})
}

func (s *Store) ReplaceItems(ctx context.Context, items []models.CartItem) error {

	if err := s.validate.Struct(models.ReplaceItemsRequest{Items: items}); err != nil {
		return appErrors.ValidationError("Invalid cart items").WithError(err)
	}

	return s.run(ctx, "replace", func(ctx context.Context) (*models.Cart, error) {
		return s.backend.ReplaceItems(ctx, items)
	})
}

func (s *Store) Clear(ctx context.Context) error {
	return s.run(ctx, "clear", func(ctx context.Context) (*models.Cart, error) {
		return s.backend.Clear(ctx)
	})
}

func (s *Store) run(ctx context.Context, operation string, call func(context.Context) (*models.Cart, error)) error {

	ctx, span := tracer.Start(ctx, "cart."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("cart.operation", operation)),
	)
	defer span.End()

	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-s.sem }()

	s.setUpdating(true)
	defer s.setUpdating(false)

	next, err := call(ctx)

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err != nil {
		metrics.RecordCartMutation(operation, metrics.ResultFailure)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		s.logger.Error("Cart request failed",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)

		s.mu.Lock()
		if operation == "load" {
			s.status = StatusError
			s.errMsg = msgLoadFailed
		} else {
			s.errMsg = msgUpdateFailed
		}
		s.mu.Unlock()

		return err
	}

	fetched := s.hydrate(ctx, next)

	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.mu.Lock()
	for id, product := range fetched {
		s.resolved[id] = product
	}
	s.cart = *next
	s.status = StatusReady
	s.errMsg = ""
	s.mu.Unlock()

	s.checkTotals(operation)

	span.SetAttributes(
		attribute.Int("cart.total_count", next.TotalCount),
		attribute.Int64("cart.total_price", next.TotalPrice),
	)
	metrics.RecordCartMutation(operation, metrics.ResultSuccess)

	return nil
}

// hydrate fetches the products referenced by cart that are not resolved yet.
// A product that fails to load is logged and skipped.
func (s *Store) hydrate(ctx context.Context, cart *models.Cart) map[string]models.Product {

	if s.products == nil {
		return nil
	}

	var missing []string

	s.mu.RLock()
	for _, id := range cart.ProductIDs() {
		if _, ok := s.resolved[id]; !ok {
			missing = append(missing, id)
		}
	}
	s.mu.RUnlock()

	if len(missing) == 0 {
		return nil
	}

	var (
		g       errgroup.Group
		mu      sync.Mutex
		fetched = make(map[string]models.Product, len(missing))
	)
	g.SetLimit(hydrateConcurrency)

	for _, id := range missing {
		g.Go(func() error {
			product, err := s.products.GetProduct(ctx, id)
			if err != nil {
				if !apiclient.IsCanceled(err) {
					s.logger.Warn("Failed to load cart product",
						slog.String("product_id", id),
						slog.String("error", err.Error()),
					)
				}
				return nil
			}

			mu.Lock()
			fetched[id] = *product
			mu.Unlock()

			return nil
		})
	}

	_ = g.Wait()

	return fetched
}

// checkTotals logs when the server totals disagree with the quantities and
// resolved prices. The server value is kept either way.
func (s *Store) checkTotals(operation string) {

	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		count    int
		price    int64
		complete = true
	)

	for _, item := range s.cart.Items {
		count += item.Quantity

		variant, ok := s.resolveVariantLocked(item.ProductID, item.VariantID)
		if !ok {
			complete = false
			continue
		}
		price += variant.Price * int64(item.Quantity)
	}

	if count != s.cart.TotalCount || (complete && price != s.cart.TotalPrice) {
		s.logger.Warn("Cart totals diverge from line items",
			slog.String("operation", operation),
			slog.Int("server_total_count", s.cart.TotalCount),
			slog.Int("item_count", count),
			slog.Int64("server_total_price", s.cart.TotalPrice),
			slog.Int64("item_price", price),
		)
	}
}

func (s *Store) setUpdating(updating bool) {
	s.mu.Lock()
	s.updating = updating
	s.mu.Unlock()
}

func (s *Store) IsUpdating() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.updating
}

func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.status
}

// Error is the user-facing message of the last failed request, or "".
func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.errMsg
}

func (s *Store) ItemQuantity(productID, variantID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cart.Quantity(productID, variantID)
}

func (s *Store) TotalCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cart.TotalCount
}

func (s *Store) TotalPrice() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cart.TotalPrice
}

func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.cart.Items) == 0
}

func (s *Store) Snapshot() models.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return models.Cart{
		Items:      append([]models.CartItem{}, s.cart.Items...),
		TotalCount: s.cart.TotalCount,
		TotalPrice: s.cart.TotalPrice,
	}
}

func (s *Store) ResolveProduct(productID string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.resolved[productID]

	return product, ok
}

func (s *Store) ResolveVariant(productID, variantID string) (models.ProductVariant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.resolveVariantLocked(productID, variantID)
}

func (s *Store) resolveVariantLocked(productID, variantID string) (models.ProductVariant, bool) {

	product, ok := s.resolved[productID]
	if !ok {
		return models.ProductVariant{}, false
	}

	variant, ok := product.Variant(variantID)
	if !ok {
		return models.ProductVariant{}, false
	}

	return *variant, true
}

// Lines returns the renderable line items in cart order. Items whose product
// or variant could not be resolved are left out.
func (s *Store) Lines() []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := make([]Line, 0, len(s.cart.Items))

	for _, item := range s.cart.Items {
		product, ok := s.resolved[item.ProductID]
		if !ok {
			continue
		}

		variant, ok := product.Variant(item.VariantID)
		if !ok {
			continue
		}

		lines = append(lines, Line{
			Product:  product,
			Variant:  *variant,
			Quantity: item.Quantity,
			Total:    variant.Price * int64(item.Quantity),
		})
	}

	return lines
}
