package courseValidator

import (
	"lms/validators"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type CreateAttachmentRequest struct {
	URL string `json:"url" validate:"required,url"`
}

func CreateAttachment() fiber.Handler {
	return validators.BodyValidator("validatedAttachment", func(r *CreateAttachmentRequest) {
		r.URL = strings.TrimSpace(r.URL)
	})
}
