package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/saaspos/sales-service/internal/auth"
	"github.com/saaspos/sales-service/internal/settings"
	"github.com/saaspos/sales-service/internal/settings/dto"
	"github.com/saaspos/sales-service/internal/settings/usecase"
	"github.com/saaspos/sales-service/pkg/logger"
	"go.uber.org/zap"
)

type SettingsHandler struct {
	uc       settings.UseCase
	validate *validator.Validate
	logger   logger.ZapLogger
}

func NewSettingsHandler(uc settings.UseCase, log logger.ZapLogger) *SettingsHandler {
	return &SettingsHandler{uc: uc, validate: validator.New(), logger: log}
}

func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	config, err := h.uc.GetConfig(c.UserContext(), auth.TenantID(c))
	if err != nil {
		h.logger.Error("failed to load shop config", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load shop config"})
	}
	if config == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "shop not configured"})
	}
	return c.JSON(config)
}

type saveConfigRequest struct {
	URLSlug         string   `json:"url_slug"`
	ShopName        string   `json:"shop_name"`
	PrimaryColor    string   `json:"primary_color"`
	ContactPhone    string   `json:"contact_phone"`
	LogoURL         string   `json:"logo_url"`
	PaymentMethods  []string `json:"payment_methods"`
	ShippingMethods []string `json:"shipping_methods"`
	IsActive        bool     `json:"is_active"`
}

func (h *SettingsHandler) Save(c *fiber.Ctx) error {
	var req saveConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	input := &dto.SaveConfigInput{
		TenantID:        auth.TenantID(c),
		URLSlug:         req.URLSlug,
		ShopName:        req.ShopName,
		PrimaryColor:    req.PrimaryColor,
		ContactPhone:    req.ContactPhone,
		LogoURL:         req.LogoURL,
		PaymentMethods:  req.PaymentMethods,
		ShippingMethods: req.ShippingMethods,
		IsActive:        req.IsActive,
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	config, err := h.uc.SaveConfig(c.UserContext(), input)
	if err != nil {
		h.logger.Error("failed to save shop config", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not save shop config"})
	}
	return c.JSON(config)
}

type pinRequest struct {
	Pin string `json:"pin" validate:"required,min=4,max=12"`
}

func (h *SettingsHandler) SetPin(c *fiber.Ctx) error {
	var req pinRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.uc.SetPin(c.UserContext(), auth.TenantID(c), req.Pin); err != nil {
		h.logger.Error("failed to set admin pin", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not set pin"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SettingsHandler) VerifyPin(c *fiber.Ctx) error {
	var req pinRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	valid, err := h.uc.VerifyPin(c.UserContext(), auth.TenantID(c), req.Pin)
	if err != nil {
		if errors.Is(err, usecase.ErrNoPinConfigured) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.Error("failed to verify pin", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not verify pin"})
	}

	return c.JSON(fiber.Map{"valid": valid})
}
