package courseValidator

import (
	"lms/middleware"
	"lms/validators"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type CreateCourseRequest struct {
	Title string `json:"title" validate:"required,min=1,max=255"`
}

// UpdateCourseRequest only carries the fields a teacher may change. Nil means untouched.
type UpdateCourseRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"imageUrl"`
	Price       *float64 `json:"price"`
	CategoryID  *uint    `json:"categoryId"`
}

type SearchCoursesQuery struct {
	Title      string
	CategoryID *uint
}

func CreateCourse() fiber.Handler {
	return validators.BodyValidator("validatedCourse", func(r *CreateCourseRequest) {
		r.Title = strings.TrimSpace(r.Title)
	})
}

func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != nil {
			title := strings.TrimSpace(*reqData.Title)
			if title == "" {
				errors["title"] = "Title cannot be empty!"
			} else if len(title) > 255 {
				errors["title"] = "Title must be at most 255 characters long!"
			}
			reqData.Title = &title
		}

		if reqData.Description != nil {
			description := strings.TrimSpace(*reqData.Description)
			reqData.Description = &description
		}

		if reqData.ImageURL != nil {
			imageURL := strings.TrimSpace(*reqData.ImageURL)
			if imageURL != "" {
				if err := validators.Validate.Var(imageURL, "url"); err != nil {
					errors["imageUrl"] = "ImageUrl must be a valid URL!"
				}
			}
			reqData.ImageURL = &imageURL
		}

		if reqData.Price != nil && *reqData.Price < 0 {
			errors["price"] = "Price must be greater than or equal to 0!"
		}

		if reqData.CategoryID != nil && *reqData.CategoryID == 0 {
			errors["categoryId"] = "Invalid Category ID!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// SearchCourses reads the optional title and categoryId query params
func SearchCourses() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := &SearchCoursesQuery{
			Title: strings.TrimSpace(c.Query("title")),
		}

		if raw := strings.TrimSpace(c.Query("categoryId")); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || id == 0 {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Category ID!", nil)
			}
			categoryID := uint(id)
			query.CategoryID = &categoryID
		}

		c.Locals("validatedSearch", query)
		return c.Next()
	}
}
