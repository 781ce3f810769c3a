package handlers

import (
	"context"
	"log"
	"time"

	"github.com/amirphl/Kusanagi-no-Tsurugi/app/middleware"
	businessflow "github.com/amirphl/Kusanagi-no-Tsurugi/business_flow"
	"github.com/amirphl/Kusanagi-no-Tsurugi/utils"
	"github.com/gofiber/fiber/v3"
)

// RedirectHandlerInterface defines the contract for short link resolution
type RedirectHandlerInterface interface {
	Visit(c fiber.Ctx) error
}

// RedirectHandler resolves short codes and redirects visitors
type RedirectHandler struct {
	visitFlow businessflow.LinkVisitFlow
}

// NewRedirectHandler creates a new redirect handler
func NewRedirectHandler(visitFlow businessflow.LinkVisitFlow) *RedirectHandler {
	return &RedirectHandler{visitFlow: visitFlow}
}

// Visit resolves a short code and issues a 302 to the original URL.
// The visit is recorded before the redirect is sent.
func (h *RedirectHandler) Visit(c fiber.Ctx) error {
	shortID := c.Params("short_id")

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	url, err := h.visitFlow.Visit(h.createRequestContext(c, "/:short_id"), shortID, metadata)
	if err != nil {
		if businessflow.IsLinkNotFound(err) {
			middleware.RecordRedirect("not_found")
			return c.Status(fiber.StatusNotFound).SendString("Not found")
		}

		log.Println("Visit failed", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	middleware.RecordRedirect("found")
	return c.Redirect().Status(fiber.StatusFound).To(url)
}

func (h *RedirectHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)

	return ctx
}
