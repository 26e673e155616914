package handler

import (
	"errors"
	"reflect"
	"strings"

	"flow-seal-proxy/internal/core/config"
	"flow-seal-proxy/internal/core/logger"
	"flow-seal-proxy/internal/core/metrics"
	"flow-seal-proxy/internal/core/upstream"
	"flow-seal-proxy/internal/features/flow/domain"
	"flow-seal-proxy/internal/features/flow/ports"
	orderdomain "flow-seal-proxy/internal/features/orders/domain"
	regiondomain "flow-seal-proxy/internal/features/regions/domain"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// FlowSecretHeader carries the optional per-region shared secret.
const FlowSecretHeader = "X-Flow-Secret"

// FlowHandler handles the Shopify Flow webhooks.
type FlowHandler struct {
	// service runs the webhook.
	service ports.FlowService
	// mode selects Process or Search.
	mode string
	// debugErrors adds the error chain to error responses.
	debugErrors bool
	// metrics counts handled webhooks. May be nil.
	metrics  *metrics.Recorder
	validate *validator.Validate
}

// NewFlowHandler creates a new instance of FlowHandler.
func NewFlowHandler(s ports.FlowService, cfg config.FlowConfig, m *metrics.Recorder) *FlowHandler {
	return &FlowHandler{
		service:     s,
		mode:        cfg.Mode,
		debugErrors: cfg.DebugErrors,
		metrics:     m,
		validate:    newValidator(),
	}
}

// OrderCreatedRequest is the body Shopify Flow posts when an order is created.
// Empty optional fields are treated as absent.
type OrderCreatedRequest struct {
	ShopDomain string `json:"shopDomain" validate:"required,max=255"`
	OrderID    string `json:"orderId" validate:"max=255"`
	OrderName  string `json:"orderName" validate:"max=64"`
	CustomerID string `json:"customerId" validate:"max=255"`
	Email      string `json:"email" validate:"max=320"`
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
	// Detail is the full error chain, only present when DEBUG_ERRORS is enabled.
	Detail string `json:"detail,omitempty"`
}

// OrderCreated handles POST /flow/order-created.
// @Summary Tag a new order with its customer's subscriptions
// @Description Resolves the order and customer, looks up the customer's Seal subscriptions and adds seal_sub_id_<id> and seal_min_cycles_<n> tags to the order and the customer. In search-only mode it returns the raw subscriptions instead.
// @Tags Flow
// @Accept json
// @Produce json
// @Param X-Flow-Secret header string false "Shared secret of the shop's region"
// @Param request body OrderCreatedRequest true "Order created event"
// @Success 200 {object} domain.Result
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /flow/order-created [post]
func (h *FlowHandler) OrderCreated(c *fiber.Ctx) error {
	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		rayID = "unknown"
	}

	var req OrderCreatedRequest
	if err := c.BodyParser(&req); err != nil {
		h.metrics.Webhook("", fiber.StatusBadRequest)
		return h.fail(c, fiber.StatusBadRequest, "Invalid request body", rayID, err)
	}
	if err := h.validate.Struct(req); err != nil {
		h.metrics.Webhook("", fiber.StatusBadRequest)
		return h.fail(c, fiber.StatusBadRequest, validationMessage(err), rayID, err)
	}

	in := domain.Input{
		ShopDomain: req.ShopDomain,
		Secret:     c.Get(FlowSecretHeader),
		OrderID:    orderdomain.Optional(req.OrderID),
		OrderName:  orderdomain.Optional(req.OrderName),
		CustomerID: orderdomain.Optional(req.CustomerID),
		Email:      orderdomain.Optional(req.Email),
	}

	var (
		body   any
		region string
		err    error
	)
	if h.mode == config.ModeSearchOnly {
		var res *domain.SearchResult
		if res, err = h.service.Search(c.UserContext(), in); err == nil {
			body, region = res, res.Region
		}
	} else {
		var res *domain.Result
		if res, err = h.service.Process(c.UserContext(), in); err == nil {
			body, region = res, res.Region
		}
	}

	if err != nil {
		status, msg := h.statusFor(err)
		h.metrics.Webhook(domain.RegionOf(err), status)

		log := logger.Get().With(
			zap.String("ray_id", rayID),
			zap.String("shop", req.ShopDomain),
			zap.Int("status", status),
			zap.Error(err),
		)
		if status >= fiber.StatusInternalServerError {
			log.Error("Order-created webhook failed")
		} else {
			log.Warn("Order-created webhook rejected")
		}
		return h.fail(c, status, msg, rayID, err)
	}

	h.metrics.Webhook(region, fiber.StatusOK)
	return c.Status(fiber.StatusOK).JSON(body)
}

// statusFor maps a webhook error to its HTTP status and public message.
func (h *FlowHandler) statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, regiondomain.ErrInvalidShopDomain):
		return fiber.StatusBadRequest, "Invalid shop domain"
	case errors.Is(err, regiondomain.ErrShopNotConfigured):
		return fiber.StatusBadRequest, "Shop not configured"
	case errors.Is(err, domain.ErrMissingEmail):
		return fiber.StatusBadRequest, "Missing email"
	case errors.Is(err, domain.ErrMissingOrderID):
		return fiber.StatusBadRequest, "Missing orderId (and could not resolve from orderName)"
	case errors.Is(err, regiondomain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, regiondomain.ErrMissingCredentials):
		return fiber.StatusInternalServerError, "Server credentials missing for shop"
	}

	if ue, ok := upstream.As(err); ok {
		if h.mode == config.ModeSearchOnly && ue.Status >= fiber.StatusBadRequest {
			return ue.Status, "Subscription search failed"
		}
		return fiber.StatusInternalServerError, "Upstream request failed"
	}

	return fiber.StatusInternalServerError, "Internal Server Error"
}

func (h *FlowHandler) fail(c *fiber.Ctx, status int, msg, rayID string, err error) error {
	resp := ErrorResponse{
		Message: msg,
		RayID:   rayID,
	}
	if h.debugErrors && err != nil {
		resp.Detail = err.Error()
	}
	return c.Status(status).JSON(resp)
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}

	e := verrs[0]
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	default:
		return e.Field() + " is invalid"
	}
}
