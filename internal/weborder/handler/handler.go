package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/saaspos/sales-service/internal/auth"
	"github.com/saaspos/sales-service/internal/sales"
	"github.com/saaspos/sales-service/internal/weborder"
	"github.com/saaspos/sales-service/internal/weborder/dto"
	"github.com/saaspos/sales-service/internal/weborder/usecase"
	"github.com/saaspos/sales-service/pkg/logger"
	"go.uber.org/zap"
)

type WebOrderHandler struct {
	uc       weborder.UseCase
	validate *validator.Validate
	logger   logger.ZapLogger
}

func NewWebOrderHandler(uc weborder.UseCase, log logger.ZapLogger) *WebOrderHandler {
	return &WebOrderHandler{uc: uc, validate: validator.New(), logger: log}
}

// Place is the public storefront endpoint. It is addressed by shop slug
// and carries no tenant credentials.
func (h *WebOrderHandler) Place(c *fiber.Ctx) error {
	input := &dto.PlaceOrderInput{}
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	order, err := h.uc.PlaceOrder(c.UserContext(), c.Params("slug"), input)
	if err != nil {
		var stockErr *sales.InsufficientStockError
		switch {
		case errors.Is(err, usecase.ErrShopNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "shop not found"})
		case errors.As(err, &stockErr):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":      stockErr.Error(),
				"product_id": stockErr.ProductID,
			})
		}
		h.logger.Error("failed to place web order", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not place order"})
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

func (h *WebOrderHandler) List(c *fiber.Ctx) error {
	list, count, err := h.uc.ListOrders(
		c.UserContext(),
		auth.TenantID(c),
		c.Query("status"),
		c.QueryInt("page", 1),
		c.QueryInt("page_size", 25),
	)
	if err != nil {
		h.logger.Error("failed to list web orders", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not list orders"})
	}
	return c.JSON(fiber.Map{"orders": list, "total": count})
}

func (h *WebOrderHandler) Get(c *fiber.Ctx) error {
	order, err := h.uc.GetOrder(c.UserContext(), auth.TenantID(c), c.Params("id"))
	if err != nil {
		h.logger.Error("failed to load web order", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load order"})
	}
	if order == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
	}
	return c.JSON(order)
}

func (h *WebOrderHandler) UpdateStatus(c *fiber.Ctx) error {
	input := &dto.UpdateStatusInput{}
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	order, err := h.uc.Transition(c.UserContext(), auth.TenantID(c), c.Params("id"), input.Status)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrOrderNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
		case errors.Is(err, usecase.ErrInvalidTransition):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, weborder.ErrStatusConflict):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "order status changed, reload and retry"})
		}
		h.logger.Error("failed to transition web order", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not update order"})
	}

	return c.JSON(order)
}
