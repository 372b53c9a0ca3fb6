package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// RevenueEntry is the total earned by one course
type RevenueEntry struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

// Analytics summarises a teacher's sales
type Analytics struct {
	Data                  []RevenueEntry `json:"data"`
	TotalRevenue          float64        `json:"totalRevenue"`
	TotalSales            int            `json:"totalSales"`
	MonthRevenue          float64        `json:"monthRevenue"`
	TotalRevenueFormatted string         `json:"totalRevenueFormatted"`
	MonthRevenueFormatted string         `json:"monthRevenueFormatted"`
}

type salesRow struct {
	Title     string
	Price     *float64
	CreatedAt time.Time
}

// ComputeAnalytics groups the purchases of the teacher's courses by course title.
// Revenue is counted at the current course price.
func ComputeAnalytics(db *gorm.DB, userID uint, reference time.Time) (*Analytics, error) {
	var rows []salesRow
	err := db.Model(&models.Purchase{}).
		Select("courses.title AS title, courses.price AS price, purchases.created_at AS created_at").
		Joins("JOIN courses ON courses.id = purchases.course_id AND courses.deleted_at IS NULL").
		Where("courses.user_id = ?", userID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	monthStart := now.With(reference).BeginningOfMonth()

	result := &Analytics{Data: []RevenueEntry{}}
	totals := map[string]float64{}
	for _, row := range rows {
		price := 0.0
		if row.Price != nil {
			price = *row.Price
		}
		totals[row.Title] += price
		result.TotalRevenue += price
		result.TotalSales++
		if !row.CreatedAt.Before(monthStart) {
			result.MonthRevenue += price
		}
	}

	for name, total := range totals {
		result.Data = append(result.Data, RevenueEntry{Name: name, Total: total})
	}
	sort.Slice(result.Data, func(i, j int) bool { return result.Data[i].Name < result.Data[j].Name })

	result.TotalRevenueFormatted = utils.FormatPrice(result.TotalRevenue)
	result.MonthRevenueFormatted = utils.FormatPrice(result.MonthRevenue)
	return result, nil
}

func GetAnalytics(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
	}

	analytics, err := ComputeAnalytics(database.Database.Db, userID, time.Now())
	if err != nil {
		return internalError(c, err, "[GET_ANALYTICS]")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Analytics fetched successfully!", analytics)
}
