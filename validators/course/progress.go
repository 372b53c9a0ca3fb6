package courseValidator

import (
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// UpdateProgressRequest accepts isCompleted, or completed as an alias
type UpdateProgressRequest struct {
	IsCompleted *bool `json:"isCompleted"`
	Completed   *bool `json:"completed"`
}

// Value returns the requested completion state
func (r *UpdateProgressRequest) Value() bool {
	if r.IsCompleted != nil {
		return *r.IsCompleted
	}
	return *r.Completed
}

func UpdateProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateProgressRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.IsCompleted == nil && reqData.Completed == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"isCompleted": "IsCompleted is required!",
			})
		}

		c.Locals("validatedProgress", reqData)
		return c.Next()
	}
}
