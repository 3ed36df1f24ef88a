package inventory

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"stockscan-backend/internal/catalog"
	"stockscan-backend/internal/ean"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their json names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bind parses the JSON or form body into out and checks its validate tags.
func bind(c *fiber.Ctx, out any) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(out); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		return catalog.NewValidationError(catalog.ErrInvalidInput, fields)
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "len":
		return fmt.Sprintf("Ensure this value has exactly %s characters.", fe.Param())
	case "numeric":
		return "Enter digits only."
	}
	return "Enter a valid value."
}

// parseEAN validates a barcode taken from the path or a form field.
func parseEAN(raw string) (ean.EAN, error) {
	code, err := ean.Validate(raw)
	if err == nil {
		return code, nil
	}
	msg := "Enter a valid EAN-8, UPC-A or EAN-13 barcode."
	if errors.Is(err, ean.ErrInvalidChecksum) {
		msg = "The number's checksum or check digit is invalid."
	}
	return "", catalog.NewValidationError(err, map[string]string{"ean": msg})
}
