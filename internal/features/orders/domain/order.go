package domain

import "strings"

// Context is what is known about an order when a webhook arrives.
// A nil field means the value is unknown and may be resolved from the Admin API.
type Context struct {
	// ShopDomain is the canonical shop the order belongs to.
	ShopDomain string
	// OrderID is the order global id, e.g. gid://shopify/Order/1.
	OrderID *string
	// OrderName is the human order name, e.g. #1001.
	OrderName *string
	// CustomerID is the customer global id.
	CustomerID *string
	// Email is the contact email used to look up subscriptions.
	Email *string
}

// Complete reports whether every optional field is known.
func (c Context) Complete() bool {
	return c.OrderID != nil && c.OrderName != nil && c.CustomerID != nil && c.Email != nil
}

// Fill copies the fields of o into the unknown fields of c. Known fields are kept.
func (c *Context) Fill(o Order) {
	if c.OrderID == nil {
		c.OrderID = Optional(o.ID)
	}
	if c.CustomerID == nil {
		c.CustomerID = Optional(o.CustomerID)
	}
	if c.Email == nil {
		c.Email = Optional(o.ContactEmail())
	}
	if c.OrderName == nil {
		c.OrderName = Optional(o.Name)
	}
}

// Order is the snapshot of a Shopify order used to complete a Context.
type Order struct {
	// ID is the order global id.
	ID string `json:"id"`
	// Name is the order name including its leading #.
	Name string `json:"name"`
	// Email is the order-level contact email, possibly empty.
	Email string `json:"email,omitempty"`
	// CustomerID is the customer global id, empty for guest orders.
	CustomerID string `json:"customer_id,omitempty"`
	// CustomerEmail is the email on the customer record.
	CustomerEmail string `json:"customer_email,omitempty"`
}

// ContactEmail returns the order email, falling back to the customer email.
func (o Order) ContactEmail() string {
	if e := strings.TrimSpace(o.Email); e != "" {
		return e
	}
	return strings.TrimSpace(o.CustomerEmail)
}

// Optional trims s and returns nil when nothing is left.
func Optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Value dereferences p, returning "" for nil.
func Value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// NormalizeOrderName prefixes name with # when it is missing.
func NormalizeOrderName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, "#") {
		return name
	}
	return "#" + name
}
