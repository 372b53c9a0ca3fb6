package validators

import (
	"fmt"
	"lms/middleware"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Validate is the shared struct validator. Field names in errors follow json tags.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationMessages turns validator errors into the field -> message map used by responses
func ValidationMessages(err error) map[string]string {
	errors := make(map[string]string)

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["request"] = "Invalid request!"
		return errors
	}

	for _, fe := range validationErrors {
		field := fe.Field()
		label := strings.ToUpper(field[:1]) + field[1:]
		switch fe.Tag() {
		case "required":
			errors[field] = label + " is required!"
		case "email":
			errors[field] = label + " must be a valid email address!"
		case "url":
			errors[field] = label + " must be a valid URL!"
		case "min":
			if fe.Kind() == reflect.String {
				errors[field] = fmt.Sprintf("%s must be at least %s characters long!", label, fe.Param())
			} else {
				errors[field] = fmt.Sprintf("%s must be at least %s!", label, fe.Param())
			}
		case "max":
			if fe.Kind() == reflect.String {
				errors[field] = fmt.Sprintf("%s must be at most %s characters long!", label, fe.Param())
			} else {
				errors[field] = fmt.Sprintf("%s must be at most %s!", label, fe.Param())
			}
		case "gte":
			errors[field] = fmt.Sprintf("%s must be greater than or equal to %s!", label, fe.Param())
		case "oneof":
			errors[field] = fmt.Sprintf("%s must be one of: %s!", label, fe.Param())
		default:
			errors[field] = label + " is invalid!"
		}
	}
	return errors
}

// BodyValidator parses the JSON body into a new T, trims it with clean (if any),
// validates it and stores it in c.Locals(key).
func BodyValidator[T any](key string, clean func(*T)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(T)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if clean != nil {
			clean(reqData)
		}

		if err := Validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, ValidationMessages(err))
		}

		c.Locals(key, reqData)
		return c.Next()
	}
}

// IDParams validates positive integer route params and stores them in c.Locals as uint
func IDParams(params ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, param := range params {
			raw := strings.TrimSpace(c.Params(param))
			label := paramLabel(param)
			if raw == "" {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, label+" is required!", nil)
			}

			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || id == 0 {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+label+"!", nil)
			}
			c.Locals(param, uint(id))
		}
		return c.Next()
	}
}

// paramLabel turns "courseId" into "Course ID"
func paramLabel(param string) string {
	name := strings.TrimSuffix(param, "Id")
	if name == "" {
		return "ID"
	}
	return strings.ToUpper(name[:1]) + name[1:] + " ID"
}
