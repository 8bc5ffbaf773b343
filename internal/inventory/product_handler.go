package inventory

import (
	"fmt"
	"log"
	"strings"

	"matrium-backend/internal/audit"
	"matrium-backend/internal/config"
	"matrium-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	ProductName  string          `json:"product_name"`
	Category     string          `json:"category"`
	QtyPurchased int             `json:"qty_purchased"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Supplier     string          `json:"supplier"`
	Image        string          `json:"image"`
}

type UpdateProductRequest struct {
	ProductID    uint            `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Category     string          `json:"category"`
	QtyPurchased int             `json:"qty_purchased"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Supplier     string          `json:"supplier"`
	Image        string          `json:"image"`
}

type DeleteProductRequest struct {
	ProductID uint `json:"product_id"`
}

// GET /getProduct?page=&per_page=
func ListProductsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		perPage := c.QueryInt("per_page", 20)

		products, err := svc.List(page, perPage)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Products could not be listed")
		}
		return c.JSON(products)
	}
}

// POST /createProduct
func CreateProductHandler(svc *Service, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		image := strings.TrimSpace(body.Image)
		if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
			local, err := FetchProductImage(image, cfg.ProductImagePath)
			if err != nil {
				// keep the remote URL when the download fails
				log.Printf("product image download failed for %q: %v", image, err)
			} else {
				image = local
			}
		}

		p, err := svc.CreateOrMerge(CreateProductInput{
			Name:      body.ProductName,
			Category:  body.Category,
			Supplier:  body.Supplier,
			Quantity:  body.QtyPurchased,
			UnitPrice: body.UnitPrice,
			Image:     image,
		})
		if err != nil {
			return err
		}

		_ = audit.WriteLog(audit.LogOptions{
			EntityType:  "product",
			EntityID:    p.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Product created/merged: %s (%d pcs)", p.Name, body.QtyPurchased),
			After:       p,
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status":  "success",
			"message": "Product created successfully",
			"product": formatProduct(*p),
		})
	}
}

// PUT /updateProduct
func UpdateProductHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Missing required field: product_id")
		}

		p, err := svc.Update(body.ProductID, UpdateProductInput{
			Name:      body.ProductName,
			Category:  body.Category,
			Supplier:  body.Supplier,
			Quantity:  body.QtyPurchased,
			UnitPrice: body.UnitPrice,
			Image:     body.Image,
		})
		if err != nil {
			return err
		}

		_ = audit.WriteLog(audit.LogOptions{
			EntityType:  "product",
			EntityID:    p.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Product updated: %s", p.Name),
			After:       p,
		})

		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Product updated successfully",
			"product": formatProduct(*p),
		})
	}
}

// DELETE /deleteProduct
func DeleteProductHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body DeleteProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Missing required field: product_id")
		}

		p, err := svc.Delete(body.ProductID)
		if err != nil {
			return err
		}

		_ = audit.WriteLog(audit.LogOptions{
			EntityType:  "product",
			EntityID:    p.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Product deleted: %s", p.Name),
			Before:      p,
		})

		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Product deleted successfully",
		})
	}
}

// GET /analytics
func AnalyticsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := svc.Analytics()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Analytics could not be computed")
		}
		return c.JSON(a)
	}
}
