package domain

// Payment represents a charge as reported by the upstream processor.
// It is transient; nothing is persisted locally.
type Payment struct {
	ID             string
	Status         string
	Amount         int64 // minor units (cents)
	Currency       string
	ReceiptURL     string
	CardBrand      string
	CardLast4      string
	IdempotencyKey string
	ReferenceID    string
}
