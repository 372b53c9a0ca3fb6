package courseValidator

import (
	"lms/middleware"
	"lms/validators"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type CreateChapterRequest struct {
	Title string `json:"title" validate:"required,min=1,max=255"`
}

// UpdateChapterRequest ignores isPublished; publishing has its own endpoint.
type UpdateChapterRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsFree      *bool   `json:"isFree"`
	VideoURL    *string `json:"videoUrl"`
}

type ChapterPosition struct {
	ID       uint `json:"id" validate:"required"`
	Position int  `json:"position" validate:"gte=0"`
}

type ReorderChaptersRequest struct {
	List []ChapterPosition `json:"list" validate:"required,min=1,dive"`
}

func CreateChapter() fiber.Handler {
	return validators.BodyValidator("validatedChapter", func(r *CreateChapterRequest) {
		r.Title = strings.TrimSpace(r.Title)
	})
}

func UpdateChapter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateChapterRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != nil {
			title := strings.TrimSpace(*reqData.Title)
			if title == "" {
				errors["title"] = "Title cannot be empty!"
			}
			reqData.Title = &title
		}

		if reqData.VideoURL != nil {
			videoURL := strings.TrimSpace(*reqData.VideoURL)
			if err := validators.Validate.Var(videoURL, "required,url"); err != nil {
				errors["videoUrl"] = "VideoUrl must be a valid URL!"
			}
			reqData.VideoURL = &videoURL
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedChapterUpdate", reqData)
		return c.Next()
	}
}

func ReorderChapters() fiber.Handler {
	return validators.BodyValidator[ReorderChaptersRequest]("validatedReorder", nil)
}
