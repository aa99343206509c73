package validation

import (
	"reflect"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/example/storefront/internal/models"
)

// New returns a validator that reports fields by their json names and knows
// the order_status tag.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("order_status", func(fl validatorv10.FieldLevel) bool {
		_, ok := models.ParseOrderStatus(fl.Field().String())
		return ok
	})

	return v
}
