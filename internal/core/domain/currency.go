package domain

// Currency is a reference entry feeding Transaction.CurrencyCode.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary Key (ISO 4217 style)
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Precision    int    `json:"precision"`
	AuditFields
}
