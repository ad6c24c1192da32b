package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/saaspos/sales-service/internal/auth"
	"github.com/saaspos/sales-service/internal/category"
	"github.com/saaspos/sales-service/internal/category/usecase"
	"github.com/saaspos/sales-service/pkg/logger"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	uc       category.UseCase
	validate *validator.Validate
	logger   logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{uc: uc, validate: validator.New(), logger: log}
}

type categoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=500"`
	IsActive    *bool  `json:"is_active"`
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	cat, err := h.uc.CreateCategory(c.UserContext(), auth.TenantID(c), req.Name, req.Description)
	if err != nil {
		h.logger.Error("failed to create category", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not create category"})
	}
	return c.Status(fiber.StatusCreated).JSON(cat)
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	categories, err := h.uc.ListCategories(c.UserContext(), auth.TenantID(c))
	if err != nil {
		h.logger.Error("failed to list categories", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not list categories"})
	}
	return c.JSON(categories)
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	cat, err := h.uc.UpdateCategory(c.UserContext(), auth.TenantID(c), c.Params("id"), req.Name, req.Description, isActive)
	if err != nil {
		if errors.Is(err, usecase.ErrCategoryMissing) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "category not found"})
		}
		h.logger.Error("failed to update category", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not update category"})
	}
	return c.JSON(cat)
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteCategory(c.UserContext(), auth.TenantID(c), c.Params("id")); err != nil {
		h.logger.Error("failed to delete category", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not delete category"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
