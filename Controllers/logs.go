package Controllers

import (
	"strconv"
	"time"

	"Summit/Models"

	"github.com/gofiber/fiber/v2"
)

// GetLogs retrieves request audit rows with pagination and filtering.
func GetLogs(c *fiber.Ctx) error {
	if Models.DB == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "Storage backend unavailable",
		})
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "50"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 50
	}

	query := Models.DB.Model(&Models.RequestLog{})

	// Default date range is today
	now := time.Now()
	dateFrom := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dateTo := dateFrom.Add(24 * time.Hour)
	if v := c.Query("date_from"); v != "" {
		if parsed, err := time.Parse("2006-01-02", v); err == nil {
			dateFrom = parsed
		}
	}
	if v := c.Query("date_to"); v != "" {
		if parsed, err := time.Parse("2006-01-02", v); err == nil {
			dateTo = parsed.Add(24 * time.Hour)
		}
	}
	query = query.Where("timestamp >= ? AND timestamp < ?", dateFrom, dateTo)

	if path := c.Query("path"); path != "" {
		query = query.Where("path LIKE ?", "%"+path+"%")
	}
	if method := c.Query("method"); method != "" {
		query = query.Where("method = ?", method)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to retrieve logs",
		})
	}

	var logs []Models.RequestLog
	if err := query.Order("timestamp DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&logs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to retrieve logs",
		})
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}
	return c.JSON(fiber.Map{
		"logs":        logs,
		"total_logs":  total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": totalPages,
		"date_from":   dateFrom,
		"date_to":     dateTo,
	})
}

// GetLogStats aggregates request counts, error rate and latency per path.
func GetLogStats(c *fiber.Ctx) error {
	if Models.DB == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "Storage backend unavailable",
		})
	}

	type pathStats struct {
		Path       string  `json:"path"`
		Method     string  `json:"method"`
		Count      int64   `json:"count"`
		AvgLatency float64 `json:"avg_latency_ms"`
		MaxLatency float64 `json:"max_latency_ms"`
		Errors     int64   `json:"errors"`
	}

	var stats []pathStats
	err := Models.DB.Model(&Models.RequestLog{}).
		Select("path, method, COUNT(*) as count, AVG(latency_ms) as avg_latency, MAX(latency_ms) as max_latency, SUM(CASE WHEN status >= 400 THEN 1 ELSE 0 END) as errors").
		Group("path, method").
		Order("count DESC").
		Scan(&stats).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to compute log stats",
		})
	}

	return c.JSON(fiber.Map{
		"paths": stats,
	})
}
