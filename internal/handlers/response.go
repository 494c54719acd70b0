package handlers

import (
	"fmt"
	"log"
	"reflect"
	"strings"

	"maninews/internal/apperror"
	"maninews/pkg/slug"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// newValidator returns a validator that reports fields by their JSON name
// and understands the slug tag.
func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slug.Valid(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return validate
}

// normalizer is implemented by request bodies that clean up their fields
// before validation.
type normalizer interface {
	Normalize()
}

// parseBody decodes the JSON body into dst and validates it. Failures are
// Validation errors listing the offending fields.
func parseBody(c *fiber.Ctx, validate *validator.Validate, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return apperror.NewInvalidFields("Invalid request body", map[string]string{"body": err.Error()})
	}
	if n, ok := dst.(normalizer); ok {
		n.Normalize()
	}
	if err := validate.Struct(dst); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return apperror.NewValidation("Invalid request body")
		}
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return apperror.NewInvalidFields("Validation failed", errorMessages)
	}
	return nil
}

// respondError writes the response for err. failure is the message shown
// when err is a fault; the cause is only logged.
func respondError(c *fiber.Ctx, failure string, err error) error {
	appErr := apperror.From(err)
	if appErr.Kind == apperror.Fault {
		log.Printf("%s: %v", failure, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": failure,
		})
	}

	body := fiber.Map{
		"message": appErr.Message,
		"error":   appErr.Kind.String(),
	}
	if len(appErr.Fields) > 0 {
		body["errors"] = appErr.Fields
	}
	return c.Status(appErr.StatusCode()).JSON(body)
}

// queryBool parses an optional boolean query parameter.
func queryBool(c *fiber.Ctx, key string) (*bool, error) {
	switch c.Query(key) {
	case "":
		return nil, nil
	case "true":
		v := true
		return &v, nil
	case "false":
		v := false
		return &v, nil
	default:
		return nil, apperror.NewInvalidFields("Invalid query", map[string]string{key: "must be true or false"})
	}
}
