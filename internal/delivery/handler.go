package delivery

import (
	"fmt"
	"strconv"

	"matrium-backend/internal/audit"
	"matrium-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateDeliveryRequest struct {
	OrderID         int         `json:"orderId"`
	CustomerName    string      `json:"customerName"`
	DeliveryAddress string      `json:"deliveryAddress"`
	DeliveryDate    string      `json:"deliveryDate"`
	Status          string      `json:"status"`
	DeliveryType    string      `json:"deliveryType"`
	Products        []LineInput `json:"products"`
}

type UpdateDeliveryRequest struct {
	CustomerName    *string `json:"customerName"`
	DeliveryAddress *string `json:"deliveryAddress"`
	DeliveryDate    *string `json:"deliveryDate"`
	Status          *string `json:"status"`
	DeliveryType    *string `json:"deliveryType"`
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid id parameter")
	}
	return uint(id), nil
}

// POST /createDelivery
func CreateDeliveryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDeliveryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		d, err := svc.Create(CreateDeliveryInput{
			OrderID:         body.OrderID,
			CustomerName:    body.CustomerName,
			DeliveryAddress: body.DeliveryAddress,
			DeliveryDate:    body.DeliveryDate,
			Status:          body.Status,
			DeliveryType:    body.DeliveryType,
			Products:        body.Products,
		})
		if err != nil {
			return err
		}

		_ = audit.WriteLog(audit.LogOptions{
			EntityType:  "delivery",
			EntityID:    d.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Delivery created for %s: %d line(s)", d.CustomerName, len(body.Products)),
			After:       d,
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status":      "success",
			"message":     "Delivery created successfully.",
			"delivery_id": d.ID,
		})
	}
}

// GET /getDeliveries
func ListDeliveriesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deliveries, err := svc.List()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Deliveries could not be listed")
		}
		return c.JSON(fiber.Map{
			"status": "success",
			"data":   deliveries,
		})
	}
}

// PUT /updateDelivery/:id
func UpdateDeliveryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}

		var body UpdateDeliveryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		d, err := svc.Update(id, UpdateDeliveryInput{
			CustomerName:    body.CustomerName,
			DeliveryAddress: body.DeliveryAddress,
			DeliveryDate:    body.DeliveryDate,
			Status:          body.Status,
			DeliveryType:    body.DeliveryType,
		})
		if err != nil {
			return err
		}

		_ = audit.WriteLog(audit.LogOptions{
			EntityType:  "delivery",
			EntityID:    d.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Delivery %d updated", d.ID),
			After:       d,
		})

		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Delivery updated successfully.",
		})
	}
}

// DELETE /deleteDelivery/:id
func DeleteDeliveryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}

		d, err := svc.Delete(id)
		if err != nil {
			return err
		}

		_ = audit.WriteLog(audit.LogOptions{
			EntityType:  "delivery",
			EntityID:    d.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Delivery %d deleted, %d line(s) credited back", d.ID, len(d.Items)),
			Before:      d,
		})

		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Delivery deleted successfully.",
		})
	}
}
