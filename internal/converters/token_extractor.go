package converters

import (
	"encoding/json"
	"strings"
)

// detailsTokenField is the key of the details token in a serialized product descriptor
const detailsTokenField = "skuDetailsToken"

// DetailsTokenExtractor reads the details token from a product descriptor's JSON form
type DetailsTokenExtractor struct{}

// NewDetailsTokenExtractor creates a new extractor
func NewDetailsTokenExtractor() *DetailsTokenExtractor {
	return &DetailsTokenExtractor{}
}

// Extract returns the details token, or an empty string when the input is empty,
// not a JSON object, or has no string token field
func (e *DetailsTokenExtractor) Extract(serialized string) string {
	if strings.TrimSpace(serialized) == "" {
		return ""
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(serialized), &fields); err != nil {
		return ""
	}

	raw, ok := fields[detailsTokenField]
	if !ok {
		return ""
	}

	var token string
	if err := json.Unmarshal(raw, &token); err != nil {
		return ""
	}
	return token
}
