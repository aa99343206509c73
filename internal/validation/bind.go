package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/example/storefront/internal/apperr"
)

// Bind parses the JSON body into out and runs struct validation. Both kinds
// of failure come back as InvalidArgument.
func Bind(c *fiber.Ctx, v *validatorv10.Validate, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperr.InvalidArgument("invalid request body")
	}
	return Struct(v, out)
}

// Struct validates an already decoded value.
func Struct(v *validatorv10.Validate, in interface{}) error {
	if err := v.Struct(in); err != nil {
		return apperr.InvalidArgument("validation failed: %s", describe(err))
	}
	return nil
}

func describe(err error) string {
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}

	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		if fe.Param() != "" {
			fields = append(fields, fmt.Sprintf("%s (%s=%s)", field, fe.Tag(), fe.Param()))
		} else {
			fields = append(fields, fmt.Sprintf("%s (%s)", field, fe.Tag()))
		}
	}
	sort.Strings(fields)
	return strings.Join(fields, ", ")
}
