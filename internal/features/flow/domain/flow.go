package domain

import (
	"errors"
	"fmt"

	orderdomain "flow-seal-proxy/internal/features/orders/domain"
	subdomain "flow-seal-proxy/internal/features/subscriptions/domain"
)

var (
	// ErrMissingEmail is returned when no email is known after context resolution.
	ErrMissingEmail = errors.New("email could not be resolved")
	// ErrMissingOrderID is returned when no order id is known after context resolution.
	ErrMissingOrderID = errors.New("order id could not be resolved")
)

// Step names a state of the order-created webhook.
type Step string

const (
	StepValidateShop        Step = "validate_shop"
	StepAuthenticate        Step = "authenticate"
	StepCheckCredentials    Step = "check_credentials"
	StepResolveContext      Step = "resolve_context"
	StepRequireFields       Step = "require_email_and_order_id"
	StepLookupSubscriptions Step = "lookup_subscriptions"
)

// StepError records where a webhook stopped.
type StepError struct {
	// Step is the state that failed.
	Step Step
	// Region is the resolved region code, empty if the shop was not resolved.
	Region string
	// Err is the underlying cause.
	Err error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// RegionOf returns the region code carried by err, or "" if there is none.
func RegionOf(err error) string {
	var se *StepError
	if errors.As(err, &se) {
		return se.Region
	}
	return ""
}

// Input is an order-created webhook as received from Flow.
// Optional fields are nil when Flow sent them empty or not at all.
type Input struct {
	ShopDomain string
	Secret     string
	OrderID    *string
	OrderName  *string
	CustomerID *string
	Email      *string
}

// Result is the response of a fully processed webhook.
type Result struct {
	// Region is the code of the shop's region. Not serialized.
	Region            string                      `json:"-"`
	OK                bool                        `json:"ok"`
	Mode              string                      `json:"mode"`
	ShopDomain        string                      `json:"shopDomain"`
	OrderID           *string                     `json:"orderId"`
	OrderName         *string                     `json:"orderName"`
	CustomerID        *string                     `json:"customerId"`
	Email             *string                     `json:"email"`
	Subscriptions     []subdomain.Summary         `json:"subscriptions"`
	Tags              []string                    `json:"tags"`
	OrderTagResult    orderdomain.TagWriteResult  `json:"orderTagResult"`
	CustomerTagResult *orderdomain.TagWriteResult `json:"customerTagResult"`
}

// SearchResult is the response of a webhook processed in search-only mode.
type SearchResult struct {
	// Region is the code of the shop's region. Not serialized.
	Region        string           `json:"-"`
	OK            bool             `json:"ok"`
	Mode          string           `json:"mode"`
	ShopDomain    string           `json:"shopDomain"`
	Email         string           `json:"email"`
	Subscriptions []subdomain.Stub `json:"subscriptions"`
}
