package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/saaspos/sales-service/internal/auth"
	"github.com/saaspos/sales-service/internal/product"
	"github.com/saaspos/sales-service/internal/product/dto"
	"github.com/saaspos/sales-service/internal/product/usecase"
	"github.com/saaspos/sales-service/pkg/logger"
	"go.uber.org/zap"
)

type ProductHandler struct {
	uc       product.UseCase
	validate *validator.Validate
	logger   logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:       uc,
		validate: validator.New(),
		logger:   log,
	}
}

type productRequest struct {
	CategoryID      string   `json:"category_id"`
	SKU             string   `json:"sku"`
	Barcode         string   `json:"barcode"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	PriceNet        float64  `json:"price_net"`
	PriceFinal      *float64 `json:"price_final"`
	CostPrice       *float64 `json:"cost_price"`
	TaxPercent      *float64 `json:"tax_percent"`
	IsTaxIncluded   bool     `json:"is_tax_included"`
	StockCurrent    float64  `json:"stock_current"`
	StockMin        float64  `json:"stock_min"`
	MeasurementUnit string   `json:"measurement_unit"`
	ImageURL        string   `json:"image_url"`
	IsActive        *bool    `json:"is_active"`
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	tenantID := auth.TenantID(c)

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	input := &dto.CreateProductInput{
		TenantID:        tenantID,
		CategoryID:      req.CategoryID,
		SKU:             req.SKU,
		Barcode:         req.Barcode,
		Name:            req.Name,
		Description:     req.Description,
		PriceNet:        req.PriceNet,
		PriceFinal:      req.PriceFinal,
		CostPrice:       req.CostPrice,
		TaxPercent:      req.TaxPercent,
		IsTaxIncluded:   req.IsTaxIncluded,
		StockCurrent:    req.StockCurrent,
		StockMin:        req.StockMin,
		MeasurementUnit: req.MeasurementUnit,
		ImageURL:        req.ImageURL,
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	p, err := h.uc.CreateProduct(c.UserContext(), input)
	if err != nil {
		if errors.Is(err, usecase.ErrSKUTaken) || errors.Is(err, usecase.ErrBarcodeTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.Error("failed to create product", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not create product"})
	}

	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	p, err := h.uc.GetProduct(c.UserContext(), auth.TenantID(c), c.Params("id"))
	if err != nil {
		h.logger.Error("failed to load product", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load product"})
	}
	if p == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	return c.JSON(p)
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	var isActive *bool
	if v := c.Query("is_active"); v != "" {
		b := v == "true"
		isActive = &b
	}

	filters := &dto.ProductFilters{
		TenantID:    auth.TenantID(c),
		CategoryID:  c.Query("category_id"),
		IsActive:    isActive,
		SearchQuery: c.Query("q"),
		LowStock:    c.Query("low_stock") == "true",
		SortBy:      c.Query("sort_by"),
		SortOrder:   c.Query("sort_order"),
		Page:        c.QueryInt("page", 1),
		PageSize:    c.QueryInt("page_size", 25),
	}

	products, count, err := h.uc.ListProducts(c.UserContext(), filters)
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not list products"})
	}

	return c.JSON(fiber.Map{
		"products":  products,
		"total":     count,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	input := &dto.UpdateProductInput{
		ID:              c.Params("id"),
		TenantID:        auth.TenantID(c),
		CategoryID:      req.CategoryID,
		SKU:             req.SKU,
		Barcode:         req.Barcode,
		Name:            req.Name,
		Description:     req.Description,
		PriceNet:        req.PriceNet,
		PriceFinal:      req.PriceFinal,
		CostPrice:       req.CostPrice,
		TaxPercent:      req.TaxPercent,
		IsTaxIncluded:   req.IsTaxIncluded,
		StockCurrent:    req.StockCurrent,
		StockMin:        req.StockMin,
		MeasurementUnit: req.MeasurementUnit,
		ImageURL:        req.ImageURL,
		IsActive:        isActive,
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	p, err := h.uc.UpdateProduct(c.UserContext(), input)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrProductMissing):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
		case errors.Is(err, usecase.ErrSKUTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.Error("failed to update product", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not update product"})
	}

	return c.JSON(p)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteProduct(c.UserContext(), auth.TenantID(c), c.Params("id")); err != nil {
		h.logger.Error("failed to delete product", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not delete product"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
