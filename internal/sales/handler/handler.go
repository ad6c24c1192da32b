package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/saaspos/sales-service/internal/auth"
	"github.com/saaspos/sales-service/internal/sales"
	"github.com/saaspos/sales-service/internal/sales/dto"
	"github.com/saaspos/sales-service/pkg/logger"
	"go.uber.org/zap"
)

// IdempotencyHeader lets the terminal tag a checkout so a rapid
// double-tap replays the first result instead of charging twice.
const IdempotencyHeader = "Idempotency-Key"

type SalesHandler struct {
	uc       sales.UseCase
	validate *validator.Validate
	logger   logger.ZapLogger
}

func NewSalesHandler(uc sales.UseCase, log logger.ZapLogger) *SalesHandler {
	return &SalesHandler{uc: uc, validate: validator.New(), logger: log}
}

func (h *SalesHandler) Create(c *fiber.Ctx) error {
	user := auth.FromFiber(c)

	input := &dto.CreateSaleInput{}
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	input.TenantID = user.TenantID
	input.UserID = user.UserID
	input.IdempotencyKey = c.Get(IdempotencyHeader)

	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	sale, err := h.uc.ProcessSale(c.UserContext(), input)
	if err != nil {
		var stockErr *sales.InsufficientStockError
		if errors.As(err, &stockErr) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":      stockErr.Error(),
				"product_id": stockErr.ProductID,
			})
		}
		h.logger.Error("failed to process sale", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not process sale"})
	}

	return c.Status(fiber.StatusCreated).JSON(sale)
}

func (h *SalesHandler) List(c *fiber.Ctx) error {
	list, count, err := h.uc.ListSales(
		c.UserContext(),
		auth.TenantID(c),
		c.QueryInt("page", 1),
		c.QueryInt("page_size", 25),
	)
	if err != nil {
		h.logger.Error("failed to list sales", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not list sales"})
	}
	return c.JSON(fiber.Map{"sales": list, "total": count})
}

func (h *SalesHandler) Get(c *fiber.Ctx) error {
	sale, err := h.uc.GetSale(c.UserContext(), auth.TenantID(c), c.Params("id"))
	if err != nil {
		h.logger.Error("failed to load sale", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load sale"})
	}
	if sale == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "sale not found"})
	}
	return c.JSON(sale)
}

func (h *SalesHandler) Update(c *fiber.Ctx) error {
	user := auth.FromFiber(c)

	input := &dto.UpdateSaleInput{}
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	input.SaleID = c.Params("id")
	input.TenantID = user.TenantID
	input.UserID = user.UserID

	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	sale, err := h.uc.UpdateSale(c.UserContext(), input)
	if err != nil {
		var stockErr *sales.InsufficientStockError
		switch {
		case errors.Is(err, sales.ErrSaleNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "sale not found"})
		case errors.As(err, &stockErr):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":      stockErr.Error(),
				"product_id": stockErr.ProductID,
			})
		}
		h.logger.Error("failed to update sale", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not update sale"})
	}

	return c.JSON(sale)
}
