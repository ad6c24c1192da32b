package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/saaspos/sales-service/internal/auth"
	"github.com/saaspos/sales-service/internal/cart"
	"github.com/saaspos/sales-service/internal/checkout"
	"github.com/saaspos/sales-service/internal/checkout/dto"
	"github.com/saaspos/sales-service/internal/product"
	productuc "github.com/saaspos/sales-service/internal/product/usecase"
	"github.com/saaspos/sales-service/internal/sales"
	salesdto "github.com/saaspos/sales-service/internal/sales/dto"
	saleshandler "github.com/saaspos/sales-service/internal/sales/handler"
	"github.com/saaspos/sales-service/internal/settings"
	settingsuc "github.com/saaspos/sales-service/internal/settings/usecase"
	"github.com/saaspos/sales-service/pkg/logger"
	"go.uber.org/zap"
)

// CheckoutHandler exposes the terminal's cart over HTTP. The cart
// itself lives server-side in a session so every terminal action is a
// small state transition.
type CheckoutHandler struct {
	registry *checkout.Registry
	products product.UseCase
	sales    sales.UseCase
	settings settings.UseCase
	validate *validator.Validate
	logger   logger.ZapLogger
}

func NewCheckoutHandler(
	registry *checkout.Registry,
	products product.UseCase,
	salesUC sales.UseCase,
	settingsUC settings.UseCase,
	log logger.ZapLogger,
) *CheckoutHandler {
	return &CheckoutHandler{
		registry: registry,
		products: products,
		sales:    salesUC,
		settings: settingsUC,
		validate: validator.New(),
		logger:   log,
	}
}

func (h *CheckoutHandler) Open(c *fiber.Ctx) error {
	user := auth.FromFiber(c)
	session := h.registry.Open(user.TenantID, user.UserID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"session_id": session.ID})
}

func (h *CheckoutHandler) session(c *fiber.Ctx) (*checkout.Session, error) {
	return h.registry.Get(auth.TenantID(c), c.Params("id"))
}

func (h *CheckoutHandler) View(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	items, count, total := session.View()
	return c.JSON(fiber.Map{"items": items, "count": count, "total": total})
}

func (h *CheckoutHandler) AddItem(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	input := &dto.AddItemInput{}
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	snapshot, err := h.products.GetSnapshot(c.UserContext(), session.TenantID, input.ProductID)
	if err != nil {
		if errors.Is(err, productuc.ErrProductMissing) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
		}
		h.logger.Error("failed to load product snapshot", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load product"})
	}

	if !session.Add(*snapshot, input.Quantity) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":      "insufficient stock",
			"product_id": input.ProductID,
		})
	}

	return h.View(c)
}

func (h *CheckoutHandler) DecreaseItem(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	session.Decrease(c.Params("productId"))
	return h.View(c)
}

func (h *CheckoutHandler) RemoveItem(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	session.Remove(c.Params("productId"))
	return h.View(c)
}

// Authorize unlocks price overrides for this session after the admin
// PIN checks out.
func (h *CheckoutHandler) Authorize(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	input := &dto.AuthorizeInput{}
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	valid, err := h.settings.VerifyPin(c.UserContext(), session.TenantID, input.Pin)
	if err != nil {
		if errors.Is(err, settingsuc.ErrNoPinConfigured) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "no admin pin configured"})
		}
		h.logger.Error("failed to verify pin", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not verify pin"})
	}
	if !valid {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"valid": false})
	}

	session.Authorize()
	return c.JSON(fiber.Map{"valid": true})
}

func (h *CheckoutHandler) SetPrice(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	input := &dto.SetPriceInput{}
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := session.SetCustomPrice(c.Params("productId"), input.Price); err != nil {
		switch {
		case errors.Is(err, checkout.ErrOverrideNotAuthorized):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, cart.ErrItemNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "item not in cart"})
		case errors.Is(err, cart.ErrNegativePrice):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not set price"})
	}

	return h.View(c)
}

func (h *CheckoutHandler) ClearCart(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	session.Clear()
	return h.View(c)
}

// Submit realizes the cart as a sale. The session blocks a second
// submit until the first settles, and the cart is only cleared once
// the sale is confirmed so a failed attempt can be retried as-is.
func (h *CheckoutHandler) Submit(c *fiber.Ctx) error {
	user := auth.FromFiber(c)

	session, err := h.session(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	input := &dto.SubmitInput{}
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	submission, err := session.BeginSubmit(input.PaymentMethod)
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	if len(submission.Items) == 0 {
		session.EndSubmit(false)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cart is empty"})
	}

	sale, err := h.sales.ProcessSale(c.UserContext(), toSaleInput(user, submission, c.Get(saleshandler.IdempotencyHeader)))
	if err != nil {
		session.EndSubmit(false)
		var stockErr *sales.InsufficientStockError
		if errors.As(err, &stockErr) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":      stockErr.Error(),
				"product_id": stockErr.ProductID,
			})
		}
		h.logger.Error("failed to submit checkout", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not submit checkout"})
	}

	session.EndSubmit(true)
	return c.Status(fiber.StatusCreated).JSON(sale)
}

func toSaleInput(user auth.UserContext, sub cart.Submission, idemKey string) *salesdto.CreateSaleInput {
	items := make([]salesdto.SaleItemInput, 0, len(sub.Items))
	for _, it := range sub.Items {
		items = append(items, salesdto.SaleItemInput{
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			CustomPrice: it.CustomPrice,
		})
	}
	return &salesdto.CreateSaleInput{
		TenantID:       user.TenantID,
		UserID:         user.UserID,
		IdempotencyKey: idemKey,
		PaymentMethod:  sub.PaymentMethod,
		TotalAmount:    sub.TotalAmount,
		Items:          items,
	}
}
