package authValidator

import (
	"lms/models"
	"lms/validators"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=STUDENT TEACHER"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func Signup() fiber.Handler {
	return validators.BodyValidator("validatedSignup", func(r *SignupRequest) {
		r.Name = strings.TrimSpace(r.Name)
		r.Email = strings.ToLower(strings.TrimSpace(r.Email))
		r.Role = strings.ToUpper(strings.TrimSpace(r.Role))
		if r.Role == "" {
			r.Role = models.RoleStudent
		}
	})
}

func Login() fiber.Handler {
	return validators.BodyValidator("validatedLogin", func(r *LoginRequest) {
		r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	})
}
