package handlers

import (
	"context"
	"log"
	"time"

	"github.com/amirphl/Kusanagi-no-Tsurugi/app/dto"
	"github.com/amirphl/Kusanagi-no-Tsurugi/app/middleware"
	businessflow "github.com/amirphl/Kusanagi-no-Tsurugi/business_flow"
	"github.com/amirphl/Kusanagi-no-Tsurugi/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// LinkHandlerInterface defines the contract for link management handlers
type LinkHandlerInterface interface {
	Shorten(c fiber.Ctx) error
	ListLinks(c fiber.Ctx) error
	ExportLinks(c fiber.Ctx) error
}

// LinkHandler handles link creation and listing HTTP requests
type LinkHandler struct {
	shortenFlow businessflow.ShortenFlow
	linksFlow   businessflow.LinksFlow
	validator   *validator.Validate
}

// NewLinkHandler creates a new link handler
func NewLinkHandler(shortenFlow businessflow.ShortenFlow, linksFlow businessflow.LinksFlow) *LinkHandler {
	return &LinkHandler{
		shortenFlow: shortenFlow,
		linksFlow:   linksFlow,
		validator:   newValidator(),
	}
}

func (h *LinkHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *LinkHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Shorten creates a short link. Works for anonymous callers; when the
// request carries a valid token the link is attributed to that user.
func (h *LinkHandler) Shorten(c fiber.Ctx) error {
	var req dto.ShortenRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	var username *string
	if name, ok := middleware.GetUsernameFromContext(c); ok {
		username = &name
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.shortenFlow.Shorten(h.createRequestContext(c, "/api/v1/shorten"), &req, username, metadata)
	if err != nil {
		if businessflow.IsInvalidURL(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Invalid URL", "INVALID_URL", nil)
		}
		if businessflow.IsShortIDExhausted(err) {
			return h.ErrorResponse(c, fiber.StatusServiceUnavailable, "Could not allocate a short code, try again", "SHORT_ID_EXHAUSTED", nil)
		}

		log.Println("Shorten failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create short link", "SHORTEN_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Short link created", result.Link)
}

// ListLinks returns the caller's links with click counts
func (h *LinkHandler) ListLinks(c fiber.Ctx) error {
	username, ok := middleware.GetUsernameFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusForbidden, "Not authenticated", "NOT_AUTHENTICATED", nil)
	}

	result, err := h.linksFlow.ListUserLinks(h.createRequestContext(c, "/api/v1/links"), username)
	if err != nil {
		if businessflow.IsNotAuthenticated(err) || businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Not authenticated", "NOT_AUTHENTICATED", nil)
		}

		log.Println("List links failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list links", "LIST_LINKS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Links retrieved", result)
}

// ExportLinks downloads the caller's links as an Excel workbook
func (h *LinkHandler) ExportLinks(c fiber.Ctx) error {
	username, ok := middleware.GetUsernameFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusForbidden, "Not authenticated", "NOT_AUTHENTICATED", nil)
	}

	filename, content, err := h.linksFlow.ExportUserLinks(h.createRequestContext(c, "/api/v1/links/export"), username)
	if err != nil {
		if businessflow.IsNotAuthenticated(err) || businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Not authenticated", "NOT_AUTHENTICATED", nil)
		}

		log.Println("Export links failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export links", "EXPORT_LINKS_FAILED", nil)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	return c.Send(content)
}

func (h *LinkHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)

	return ctx
}
