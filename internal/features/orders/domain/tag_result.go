package domain

// Tag write outcomes, used as metric labels.
const (
	OutcomeOK         = "ok"
	OutcomeSkipped    = "skipped"
	OutcomeUserErrors = "user_errors"
	OutcomeError      = "error"
)

// UserError is a field-level error reported by a Shopify mutation.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// TagsAdded is the payload of a successful tagsAdd mutation.
type TagsAdded struct {
	// NodeID is the id of the tagged resource, empty if Shopify returned no node.
	NodeID string
	// UserErrors lists the validation errors Shopify reported.
	UserErrors []UserError
}

// TagWriteResult records what happened when tagging one target.
// Exactly one of Skipped, Error or the success fields is set.
type TagWriteResult struct {
	Skipped    bool        `json:"skipped,omitempty"`
	NodeID     string      `json:"nodeId,omitempty"`
	Tags       []string    `json:"tags,omitempty"`
	UserErrors []UserError `json:"userErrors,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Outcome classifies the result.
func (r TagWriteResult) Outcome() string {
	switch {
	case r.Skipped:
		return OutcomeSkipped
	case r.Error != "":
		return OutcomeError
	case len(r.UserErrors) > 0:
		return OutcomeUserErrors
	default:
		return OutcomeOK
	}
}
