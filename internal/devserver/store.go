package devserver

import (
	"net/http"
	"slices"
	"strings"
	"sync"

	appErrors "github.com/aaravmahajanofficial/teagram/internal/errors"
	"github.com/aaravmahajanofficial/teagram/internal/models"
	"github.com/google/uuid"
)

// Store is the dev server's in-memory state: a fixed catalog plus one cart
// per user.
type Store struct {
	mu         sync.Mutex
	products   []models.Product
	byID       map[string]models.Product
	categories []models.CategoryOption
	carts      map[string][]models.CartItem
	// orders by user and idempotency key
	orders map[string]models.OrderSummary
}

func NewStore(products []models.Product, categories []models.CategoryOption) *Store {
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	return &Store{
		products:   products,
		byID:       byID,
		categories: categories,
		carts:      make(map[string][]models.CartItem),
		orders:     make(map[string]models.OrderSummary),
	}
}

func (s *Store) Categories() []models.CategoryOption {
	return slices.Clone(s.categories)
}

// ListProducts filters by category and a case-insensitive search over name,
// description and tags. A non-positive limit returns everything after offset.
func (s *Store) ListProducts(q models.ProductQuery) models.ProductList {

	search := strings.ToLower(strings.TrimSpace(q.Search))

	matching := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if q.Category != "" && q.Category != models.CategoryAll && p.Category != q.Category {
			continue
		}
		if search != "" && !matches(p, search) {
			continue
		}
		matching = append(matching, p)
	}

	start := min(max(q.Offset, 0), len(matching))
	end := len(matching)
	if q.Limit > 0 {
		end = min(start+q.Limit, len(matching))
	}

	return models.ProductList{Total: len(matching), Items: matching[start:end]}
}

func matches(p models.Product, search string) bool {
	if strings.Contains(strings.ToLower(p.Name), search) || strings.Contains(strings.ToLower(p.Description), search) {
		return true
	}

	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), search) {
			return true
		}
	}

	return false
}

func (s *Store) Product(id string) (models.Product, bool) {
	p, ok := s.byID[id]

	return p, ok
}

func (s *Store) Cart(userID string) models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cartLocked(userID)
}

// AddItem adds quantity to the line, creating it when absent.
func (s *Store) AddItem(userID string, item models.CartItem) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkVariant(item.ProductID, item.VariantID); err != nil {
		return models.Cart{}, err
	}

	s.carts[userID] = merge(s.carts[userID], item)

	return s.cartLocked(userID), nil
}

// ReplaceItems swaps the whole cart; duplicate lines are merged.
func (s *Store) ReplaceItems(userID string, items []models.CartItem) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var next []models.CartItem
	for _, item := range items {
		if err := s.checkVariant(item.ProductID, item.VariantID); err != nil {
			return models.Cart{}, err
		}
		next = merge(next, item)
	}

	s.carts[userID] = next

	return s.cartLocked(userID), nil
}

// UpdateItem sets the quantity of an existing line; zero removes it.
func (s *Store) UpdateItem(userID, productID, variantID string, quantity int) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	idx := slices.IndexFunc(items, sameLine(productID, variantID))
	if idx < 0 {
		return models.Cart{}, appErrors.NotFoundError("Cart item not found")
	}

	if quantity <= 0 {
		s.carts[userID] = slices.Delete(items, idx, idx+1)
	} else {
		items[idx].Quantity = quantity
	}

	return s.cartLocked(userID), nil
}

// RemoveItem deletes a line. Removing an absent line is not an error.
func (s *Store) RemoveItem(userID, productID, variantID string) models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[userID] = slices.DeleteFunc(s.carts[userID], sameLine(productID, variantID))

	return s.cartLocked(userID)
}

func (s *Store) ClearCart(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, userID)
}

// PlaceOrder turns the user's cart into an order. The client's expected
// total must match the cart total. Replaying an idempotency key returns the
// first order without touching the cart.
func (s *Store) PlaceOrder(userID, idempotencyKey string, req models.OrderRequest) (models.OrderSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orderKey := userID + "/" + idempotencyKey
	if idempotencyKey != "" {
		if summary, ok := s.orders[orderKey]; ok {
			return summary, nil
		}
	}

	cart := s.cartLocked(userID)
	if len(cart.Items) == 0 {
		return models.OrderSummary{}, appErrors.NewAppError(appErrors.ErrCodeBusiness, "Cart is empty", http.StatusUnprocessableEntity)
	}

	if req.ExpectedTotal != cart.TotalPrice {
		return models.OrderSummary{}, appErrors.NewAppError(appErrors.ErrCodeBusiness, "Cart total has changed", http.StatusConflict).
			WithData(map[string]int64{"expectedTotal": req.ExpectedTotal, "actualTotal": cart.TotalPrice})
	}

	summary := models.OrderSummary{
		OrderID:        "TG-" + strings.ToUpper(uuid.NewString()[:8]),
		CustomerName:   req.CustomerName,
		DeliveryMethod: req.DeliveryMethod.Label(),
		Total:          cart.TotalPrice,
	}

	if idempotencyKey != "" {
		s.orders[orderKey] = summary
	}
	delete(s.carts, userID)

	return summary, nil
}

func (s *Store) checkVariant(productID, variantID string) error {
	product, ok := s.byID[productID]
	if !ok {
		return appErrors.NotFoundError("Product not found").WithDetail(productID)
	}

	if _, ok := product.Variant(variantID); !ok {
		return appErrors.NotFoundError("Variant not found").WithDetail(variantID)
	}

	return nil
}

func (s *Store) cartLocked(userID string) models.Cart {
	items := slices.Clone(s.carts[userID])
	if items == nil {
		items = []models.CartItem{}
	}

	cart := models.Cart{Items: items}
	for _, item := range items {
		cart.TotalCount += item.Quantity
	}
	cart.TotalPrice = s.calculateTotal(items)

	return cart
}

func (s *Store) calculateTotal(items []models.CartItem) int64 {

	var totalPrice int64

	for _, item := range items {
		product, ok := s.byID[item.ProductID]
		if !ok {
			continue
		}
		if variant, ok := product.Variant(item.VariantID); ok {
			totalPrice += variant.Price * int64(item.Quantity)
		}
	}

	return totalPrice
}

func merge(items []models.CartItem, item models.CartItem) []models.CartItem {
	if idx := slices.IndexFunc(items, sameLine(item.ProductID, item.VariantID)); idx >= 0 {
		items[idx].Quantity += item.Quantity
		return items
	}

	return append(items, item)
}

func sameLine(productID, variantID string) func(models.CartItem) bool {
	return func(item models.CartItem) bool {
		return item.ProductID == productID && item.VariantID == variantID
	}
}
