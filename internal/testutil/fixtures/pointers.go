// Package fixtures builds store products, offers and purchase records for tests.
package fixtures

// IntPtr returns a pointer to i, for comparing optional counts.
func IntPtr(i int) *int {
	return &i
}

// BoolPtr returns a pointer to b, for PurchaseParams.ApplyOffer.
func BoolPtr(b bool) *bool {
	return &b
}
