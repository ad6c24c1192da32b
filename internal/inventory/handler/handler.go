package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/saaspos/sales-service/internal/auth"
	"github.com/saaspos/sales-service/internal/inventory"
	"github.com/saaspos/sales-service/internal/inventory/dto"
	"github.com/saaspos/sales-service/internal/inventory/usecase"
	"github.com/saaspos/sales-service/pkg/logger"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	uc       inventory.UseCase
	validate *validator.Validate
	logger   logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{uc: uc, validate: validator.New(), logger: log}
}

func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	filters := &dto.MovementFilters{}
	if err := c.QueryParser(filters); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid query parameters"})
	}
	filters.TenantID = auth.TenantID(c)

	if err := h.validate.Struct(filters); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	movements, total, err := h.uc.ListMovements(c.UserContext(), filters)
	if err != nil {
		h.logger.Error("failed to list movements", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not list movements"})
	}
	return c.JSON(fiber.Map{"movements": movements, "total": total})
}

func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	user := auth.FromFiber(c)

	input := &dto.AdjustStockInput{}
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	input.TenantID = user.TenantID
	input.UserID = user.UserID

	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	movement, err := h.uc.AdjustStock(c.UserContext(), input)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrProductMissing):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
		case errors.Is(err, usecase.ErrStockNegative):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, usecase.ErrLockBusy):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.Error("failed to adjust stock", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not adjust stock"})
	}

	return c.Status(fiber.StatusCreated).JSON(movement)
}
