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

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Checkout opens a Stripe Checkout Session for a published course
func Checkout(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
	}
	courseID, ok := c.Locals("courseId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
		}
		return checkoutError(c, err)
	}

	var purchases int64
	if err := db.Model(&models.Purchase{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&purchases).Error; err != nil {
		return checkoutError(c, err)
	}
	if purchases > 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Already purchased", nil)
	}

	var course models.Course
	if err := db.Where("id = ? AND is_published = ?", courseID, true).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Not found", nil)
		}
		return checkoutError(c, err)
	}

	customerID, err := stripeCustomerFor(c, db, &user)
	if err != nil {
		return checkoutError(c, err)
	}

	price := 0.0
	if course.Price != nil {
		price = *course.Price
	}
	description := ""
	if course.Description != nil {
		description = *course.Description
	}
	currency := config.AppConfig.CheckoutCurrency
	courseURL := fmt.Sprintf("%s/courses/%d", config.AppConfig.AppURL, course.ID)

	session, err := utils.Payments.CreateCheckoutSession(c.UserContext(), utils.CheckoutParams{
		CustomerID:  customerID,
		ProductName: course.Title,
		Description: description,
		UnitAmount:  utils.PriceToCents(price),
		Currency:    currency,
		SuccessURL:  courseURL + "?success=1",
		CancelURL:   courseURL + "?canceled=1",
		Metadata: map[string]string{
			"courseId": strconv.FormatUint(uint64(course.ID), 10),
			"userId":   strconv.FormatUint(uint64(userID), 10),
		},
	})
	if err != nil {
		return checkoutError(c, err)
	}

	record := models.CheckoutSession{
		SessionID:   session.SessionID,
		UserID:      userID,
		CourseID:    course.ID,
		AmountCents: utils.PriceToCents(price),
		Currency:    currency,
		Status:      models.CheckoutStatusPending,
	}
	if err := db.Create(&record).Error; err != nil {
		// the hosted session is usable even if the local record failed
		log.Error().Err(err).Str("sessionId", session.SessionID).Msg("[COURSE_ID_CHECKOUT] saving checkout session")
	}

	metrics.CheckoutSessionsTotal.WithLabelValues("created").Inc()
	log.Info().Uint("userId", userID).Uint("courseId", course.ID).Str("sessionId", session.SessionID).Msg("[COURSE_ID_CHECKOUT] session created")

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Checkout session created!", fiber.Map{
		"url": session.URL,
	})
}

// stripeCustomerFor reuses the user's Stripe customer or creates one
func stripeCustomerFor(c *fiber.Ctx, db *gorm.DB, user *models.User) (string, error) {
	var customer models.StripeCustomer
	err := db.Where("user_id = ?", user.ID).First(&customer).Error
	if err == nil {
		return customer.StripeCustomerID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	customerID, err := utils.Payments.CreateCustomer(c.UserContext(), user.Email)
	if err != nil {
		return "", err
	}

	customer = models.StripeCustomer{UserID: user.ID, StripeCustomerID: customerID}
	if err := db.Create(&customer).Error; err != nil {
		return "", err
	}
	return customerID, nil
}

func checkoutError(c *fiber.Ctx, err error) error {
	metrics.CheckoutSessionsTotal.WithLabelValues("error").Inc()
	log.Error().Err(err).Str("path", c.Path()).Msg("[COURSE_ID_CHECKOUT]")
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Internal Error", nil)
}
