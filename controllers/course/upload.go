package controllers

import (
	"errors"
	"lms/config"
	"lms/middleware"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// UploadFile stores a multipart "file" for the upload kind in the route
func UploadFile(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
	}

	kind, err := utils.LookupUploadKind(c.Params("kind"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unknown upload type!", nil)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "File is required!", nil)
	}

	filename, err := utils.SaveUploadedFile(file, config.AppConfig.UploadDir, kind)
	switch {
	case errors.Is(err, utils.ErrFileTooLarge):
		return middleware.JsonResponse(c, fiber.StatusRequestEntityTooLarge, false, "File is too large!", nil)
	case errors.Is(err, utils.ErrFileTypeNotAllowed):
		return middleware.JsonResponse(c, fiber.StatusUnsupportedMediaType, false, "File type is not allowed!", nil)
	case err != nil:
		return internalError(c, err, "[UPLOAD]")
	}

	log.Info().Uint("userId", userID).Str("kind", kind.Name).Str("file", filename).Msg("[UPLOAD] file stored")
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "File uploaded successfully!", fiber.Map{
		"url":  utils.GetFileURL(filename),
		"key":  filename,
		"name": file.Filename,
	})
}
