package paymentController

import (
	"errors"
	"fmt"
	"lms/config"
	"lms/database"
	"lms/metrics"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errMissingMetadata = errors.New("missing metadata")

// Webhook verifies a Stripe event and records purchases from completed checkouts
func Webhook(c *fiber.Ctx) error {
	event, err := utils.Payments.ParseWebhook(c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		metrics.WebhookEventsTotal.WithLabelValues("unknown", "invalid").Inc()
		log.Warn().Err(err).Msg("[WEBHOOK] signature verification failed")
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Webhook Error: "+err.Error(), nil)
	}

	if event.Type != utils.EventCheckoutSessionCompleted {
		if err := recordEvent(database.Database.Db, event); err != nil {
			log.Error().Err(err).Str("eventId", event.ID).Msg("[WEBHOOK] saving event")
		}
		metrics.WebhookEventsTotal.WithLabelValues(event.Type, "ignored").Inc()
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Webhook Error: Unhandled event type "+event.Type, nil)
	}

	userID, courseID, err := purchaseMetadata(event.Metadata)
	if err != nil {
		if err := recordEvent(database.Database.Db, event); err != nil {
			log.Error().Err(err).Str("eventId", event.ID).Msg("[WEBHOOK] saving event")
		}
		metrics.WebhookEventsTotal.WithLabelValues(event.Type, "invalid").Inc()
		log.Warn().Str("eventId", event.ID).Msg("[WEBHOOK] completed checkout without purchase metadata")
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Webhook Error: Missing metadata", nil)
	}

	var created bool
	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := recordEvent(tx, event); err != nil {
			return err
		}

		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Purchase{
			UserID:   userID,
			CourseID: courseID,
		})
		if result.Error != nil {
			return result.Error
		}
		created = result.RowsAffected > 0

		if event.SessionID == "" {
			return nil
		}
		completedAt := time.Now()
		return tx.Model(&models.CheckoutSession{}).
			Where("session_id = ?", event.SessionID).
			Updates(map[string]interface{}{
				"status":       models.CheckoutStatusCompleted,
				"completed_at": completedAt,
			}).Error
	})
	if err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(event.Type, "error").Inc()
		log.Error().Err(err).Str("eventId", event.ID).Msg("[WEBHOOK] recording purchase")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Internal Error", nil)
	}

	metrics.WebhookEventsTotal.WithLabelValues(event.Type, "processed").Inc()
	if created {
		metrics.PurchasesTotal.Inc()
		log.Info().Uint("userId", userID).Uint("courseId", courseID).Msg("[WEBHOOK] purchase recorded")
		sendReceipt(userID, courseID)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Webhook received", nil)
}

func purchaseMetadata(metadata map[string]string) (uint, uint, error) {
	userID, err := strconv.ParseUint(metadata["userId"], 10, 64)
	if err != nil || userID == 0 {
		return 0, 0, errMissingMetadata
	}
	courseID, err := strconv.ParseUint(metadata["courseId"], 10, 64)
	if err != nil || courseID == 0 {
		return 0, 0, errMissingMetadata
	}
	return uint(userID), uint(courseID), nil
}

// recordEvent stores the raw event once per event id
func recordEvent(db *gorm.DB, event *utils.WebhookEvent) error {
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.PaymentEvent{
		EventID:   event.ID,
		EventType: event.Type,
		Payload:   datatypes.JSON(event.Raw),
	}).Error
}

func sendReceipt(userID, courseID uint) {
	db := database.Database.Db

	var user models.User
	var course models.Course
	if err := db.First(&user, userID).Error; err != nil {
		log.Warn().Err(err).Uint("userId", userID).Msg("[WEBHOOK] receipt skipped")
		return
	}
	if err := db.First(&course, courseID).Error; err != nil {
		log.Warn().Err(err).Uint("courseId", courseID).Msg("[WEBHOOK] receipt skipped")
		return
	}

	price := 0.0
	if course.Price != nil {
		price = *course.Price
	}
	courseURL := fmt.Sprintf("%s/courses/%d", config.AppConfig.AppURL, course.ID)
	utils.SendEmailAsync(utils.PurchaseReceiptEmail(user.Email, user.Name, course.Title, price, courseURL))
}
