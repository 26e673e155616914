package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidID is returned when a subscription id is neither a JSON string nor a number.
var ErrInvalidID = errors.New("invalid subscription id")

// ID is a Seal subscription identifier. Seal sends it as a number, some endpoints as a string.
type ID string

// UnmarshalJSON accepts both 77 and "77".
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidID, data)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, data)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes numeric ids as JSON numbers and anything else as a string.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseUint(string(id), 10, 64); err == nil && strconv.FormatUint(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Stub is one entry of a Seal subscription search. Raw keeps the full record
// so search-only responses can return it untouched.
type Stub struct {
	ID  ID
	Raw json.RawMessage
}

// MarshalJSON returns the original record.
func (s Stub) MarshalJSON() ([]byte, error) {
	if len(s.Raw) == 0 {
		return json.Marshal(map[string]ID{"id": s.ID})
	}
	return s.Raw, nil
}

// Summary is the part of a subscription detail that drives tagging.
type Summary struct {
	// ID is the Seal subscription id.
	ID ID `json:"id"`
	// BillingMinCycles is the minimum number of billing cycles, nil when Seal has none.
	BillingMinCycles *int `json:"billing_min_cycles"`
}
