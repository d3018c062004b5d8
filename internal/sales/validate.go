package sales

import "fmt"

// Validate checks that the dataset is structurally usable and that both
// strategies are set. It stops at the first problem found.
func Validate(ds *Dataset, p Policies) error {
	switch {
	case ds == nil:
		return fmt.Errorf("%w: dataset is nil", ErrInvalidData)
	case len(ds.Sellers) == 0:
		return fmt.Errorf("%w: sellers must not be empty", ErrInvalidData)
	case len(ds.Products) == 0:
		return fmt.Errorf("%w: products must not be empty", ErrInvalidData)
	case len(ds.PurchaseRecords) == 0:
		return fmt.Errorf("%w: purchase records must not be empty", ErrInvalidData)
	}
	if !revenueInvokable(p.Revenue) {
		return fmt.Errorf("%w: revenue strategy", ErrMissingPolicy)
	}
	if !bonusInvokable(p.Bonus) {
		return fmt.Errorf("%w: bonus strategy", ErrMissingPolicy)
	}
	return nil
}
