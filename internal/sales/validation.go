package sales

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	// decimals are checked as floats so numeric tags like gt=0 apply.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

func validateRecord(r *SaleRecord) error {
	r.normalize()
	if err := validate.Struct(r); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

// Validate checks every supplied value against the record schema.
func (p *Patch) Validate() error {
	if p.IsEmpty() {
		return fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	p.normalize()
	if p.SaleDate != nil && p.SaleDate.IsZero() {
		return fmt.Errorf("%w: sale_date is required", ErrValidation)
	}
	if err := validate.Struct(p); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, fmt.Sprintf("%s %s", fieldName(fe), validationMessage(fe)))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

func fieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "Product":
		return "product"
	case "Category":
		return "category"
	case "UnitPrice":
		return "unit_price"
	case "Quantity":
		return "quantity"
	case "SaleDate":
		return "sale_date"
	case "Seller":
		return "seller"
	case "Region":
		return "region"
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	}
	return "is invalid"
}
