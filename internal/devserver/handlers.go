package devserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	appErrors "github.com/aaravmahajanofficial/teagram/internal/errors"
	"github.com/aaravmahajanofficial/teagram/internal/models"
	"github.com/gin-gonic/gin"
)

type refreshReq struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type addItemReq struct {
	ProductID string `json:"productId" validate:"required"`
	VariantID string `json:"variantId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type replaceItemsReq struct {
	Items []addItemReq `json:"items" validate:"dive"`
}

type updateItemReq struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

type createOrderReq struct {
	CustomerName   string `json:"customerName" validate:"required,max=100"`
	Phone          string `json:"phone" validate:"required,e164"`
	DeliveryMethod string `json:"deliveryMethod" validate:"required,oneof=pickup courier cdek"`
	Address        string `json:"address" validate:"required_unless=DeliveryMethod pickup"`
	Comment        string `json:"comment" validate:"max=500"`
	ExpectedTotal  int64  `json:"expectedTotal" validate:"gte=0"`
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) refresh(c *gin.Context) {
	var req refreshReq
	if !s.bind(c, &req) {
		return
	}

	tokens, err := s.tokens.Refresh(req.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidRefreshToken) {
			writeError(c, appErrors.UnauthorizedError("Refresh token is invalid or expired"))
			return
		}
		writeError(c, appErrors.InternalError("Failed to issue tokens").WithError(err))
		return
	}

	c.JSON(http.StatusOK, tokens)
}

func (s *Server) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, models.CategoryList{Items: s.store.Categories()})
}

func (s *Server) listProducts(c *gin.Context) {
	q := models.ProductQuery{
		Category: models.ProductCategory(c.Query("category")),
		Search:   c.Query("search"),
	}

	if q.Category != "" && q.Category != models.CategoryAll && !q.Category.Valid() {
		writeError(c, appErrors.BadRequestError("Unknown category").WithDetail(string(q.Category)))
		return
	}

	var err error
	if q.Limit, err = intQuery(c, "limit"); err != nil {
		writeError(c, appErrors.BadRequestError("Invalid limit").WithDetail(err.Error()))
		return
	}
	if q.Offset, err = intQuery(c, "offset"); err != nil {
		writeError(c, appErrors.BadRequestError("Invalid offset").WithDetail(err.Error()))
		return
	}

	c.JSON(http.StatusOK, s.store.ListProducts(q))
}

func (s *Server) getProduct(c *gin.Context) {
	product, ok := s.store.Product(c.Param("id"))
	if !ok {
		writeError(c, appErrors.NotFoundError("Product not found"))
		return
	}

	c.JSON(http.StatusOK, product)
}

func (s *Server) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Cart(c.GetString(userIDKey)))
}

func (s *Server) clearCart(c *gin.Context) {
	s.store.ClearCart(c.GetString(userIDKey))
	c.Status(http.StatusNoContent)
}

func (s *Server) addItem(c *gin.Context) {
	var req addItemReq
	if !s.bind(c, &req) {
		return
	}

	cart, err := s.store.AddItem(c.GetString(userIDKey), models.CartItem(req))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

func (s *Server) replaceItems(c *gin.Context) {
	var req replaceItemsReq
	if !s.bind(c, &req) {
		return
	}

	items := make([]models.CartItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.CartItem(item))
	}

	cart, err := s.store.ReplaceItems(c.GetString(userIDKey), items)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

func (s *Server) updateItem(c *gin.Context) {
	var req updateItemReq
	if !s.bind(c, &req) {
		return
	}

	cart, err := s.store.UpdateItem(c.GetString(userIDKey), c.Param("productId"), c.Param("variantId"), req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

func (s *Server) removeItem(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.RemoveItem(c.GetString(userIDKey), c.Param("productId"), c.Param("variantId")))
}

func (s *Server) createOrder(c *gin.Context) {
	var req createOrderReq
	if !s.bind(c, &req) {
		return
	}

	userID := c.GetString(userIDKey)
	summary, err := s.store.PlaceOrder(userID, c.GetHeader("Idempotency-Key"), models.OrderRequest{
		CustomerName:   strings.TrimSpace(req.CustomerName),
		Phone:          req.Phone,
		DeliveryMethod: models.DeliveryMethod(req.DeliveryMethod),
		Address:        strings.TrimSpace(req.Address),
		Comment:        strings.TrimSpace(req.Comment),
		ExpectedTotal:  req.ExpectedTotal,
	})
	if err != nil {
		loggerFrom(c).Warn("Order rejected", slog.String("user_id", userID), slog.String("error", err.Error()))
		writeError(c, err)
		return
	}

	loggerFrom(c).Info("Order placed",
		slog.String("user_id", userID),
		slog.String("order_id", summary.OrderID),
		slog.Int64("total", summary.Total),
	)

	c.JSON(http.StatusCreated, summary)
}

// bind decodes the JSON body into req and validates it, writing the error
// response itself when either step fails.
func (s *Server) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		writeError(c, appErrors.BadRequestError("Invalid JSON body").WithDetail(err.Error()))
		return false
	}

	if err := s.validator.Struct(req); err != nil {
		writeValidationError(c, err)
		return false
	}

	return true
}

func intQuery(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New(name + " must be a non-negative integer")
	}

	return n, nil
}
