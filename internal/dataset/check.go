package dataset

import (
	"errors"
	"fmt"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/sales-report/internal/sales"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Check validates the structure of a decoded dataset against the struct tags on
// the sales types: non-empty collections, seller ids, catalog SKUs and the seller
// of every receipt. Values such as quantities, prices and discounts are not
// range-checked. Only the first violation is reported and it wraps sales.ErrInvalidData.
func Check(ds *sales.Dataset) error {
	if ds == nil {
		return fmt.Errorf("%w: dataset is nil", sales.ErrInvalidData)
	}
	err := validate.Struct(ds)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Errorf("%w: %s failed %q", sales.ErrInvalidData, fe.Namespace(), fe.Tag())
	}
	return fmt.Errorf("%w: %v", sales.ErrInvalidData, err)
}
