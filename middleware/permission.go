package middleware

import (
	"errors"
	"lms/database"
	"lms/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CheckPermissionMiddleware returns a middleware that checks if the user has the required permission
func CheckPermissionMiddleware(requiredPermission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := CurrentUserID(c)
		if !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
		}

		var permission models.Permission
		err := database.Database.Db.Where("user_id = ? AND permission = ?", userID, requiredPermission).
			First(&permission).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
			}
			log.Error().Err(err).Uint("userId", userID).Str("permission", requiredPermission).Msg("[CHECK_PERMISSION]")
			return JsonResponse(c, fiber.StatusInternalServerError, false, "Server error while checking permissions!", nil)
		}

		return c.Next()
	}
}

// DefaultPermissions returns the permission set granted to a role at signup
func DefaultPermissions(role string) []string {
	permissions := []string{
		models.PermissionViewCourse,
		models.PermissionPurchaseCourse,
		models.PermissionTrackProgress,
	}
	if role == models.RoleTeacher {
		permissions = append(permissions,
			models.PermissionCreateCourse,
			models.PermissionManageCourse,
			models.PermissionViewAnalytics,
		)
	}
	return permissions
}

// SeedPermissions seeds default permissions for a given role and user ID
func SeedPermissions(db *gorm.DB, role string, userID uint) error {
	var permissionRecords []models.Permission
	for _, p := range DefaultPermissions(role) {
		permissionRecords = append(permissionRecords, models.Permission{
			UserID:     userID,
			Role:       role,
			Permission: p,
		})
	}

	return db.Create(&permissionRecords).Error
}
