package audit

import (
	"matrium-backend/internal/database"
	"matrium-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /auditLogs?limit=100
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 100)
		if limit < 1 || limit > 500 {
			limit = 100
		}

		var logs []models.AuditLog
		if err := database.DB.
			Order("created_at DESC, id DESC").
			Limit(limit).
			Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Audit logs could not be listed")
		}

		return c.JSON(fiber.Map{
			"status": "success",
			"data":   logs,
		})
	}
}
