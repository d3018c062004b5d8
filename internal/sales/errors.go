package sales

import "errors"

var (
	// ErrInvalidData is returned when the dataset or one of its collections is missing or empty.
	ErrInvalidData = errors.New("invalid sales data")
	// ErrMissingPolicy is returned when a revenue or bonus strategy is not configured.
	ErrMissingPolicy = errors.New("calculation policy not configured")
	// ErrOrphanRecord indicates a purchase record that names a seller absent from the dataset.
	ErrOrphanRecord = errors.New("purchase record references unknown seller")
)
