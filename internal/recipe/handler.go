package recipe

import (
	"fmt"
	"strconv"

	"matrium-backend/internal/audit"
	"matrium-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AddRecipeRequest struct {
	Name        string            `json:"name"`
	ProductName string            `json:"productName"`
	Type        string            `json:"type"`
	Category    string            `json:"category"`
	Ingredients []IngredientInput `json:"ingredients"`
}

type UseRecipeRequest struct {
	Quantity int `json:"quantity"`
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid id parameter")
	}
	return uint(id), nil
}

// POST /addRecipe
func AddRecipeHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body AddRecipeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		r, err := svc.Add(AddRecipeInput{
			Name:        body.Name,
			ProductName: body.ProductName,
			Type:        body.Type,
			Category:    body.Category,
			Ingredients: body.Ingredients,
		})
		if err != nil {
			return err
		}

		_ = audit.WriteLog(audit.LogOptions{
			EntityType:  "recipe",
			EntityID:    r.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Recipe added: %s (%d ingredient(s))", r.Name, len(r.Ingredients)),
			After:       r,
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status":    "success",
			"message":   "Recipe added successfully.",
			"recipe_id": r.ID,
		})
	}
}

// GET /getRecipes
func ListRecipesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		recipes, err := svc.List()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Recipes could not be listed")
		}
		return c.JSON(fiber.Map{
			"status": "success",
			"data":   recipes,
		})
	}
}

// DELETE /deleteRecipe/:id
func DeleteRecipeHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}

		r, err := svc.Delete(id)
		if err != nil {
			return err
		}

		_ = audit.WriteLog(audit.LogOptions{
			EntityType:  "recipe",
			EntityID:    r.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Recipe deleted: %s", r.Name),
			Before:      r,
		})

		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Recipe deleted successfully.",
		})
	}
}

// POST /useRecipe/:id
func UseRecipeHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}

		var body UseRecipeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		p, err := svc.Use(id, body.Quantity)
		if err != nil {
			return err
		}

		_ = audit.WriteLog(audit.LogOptions{
			EntityType:  "recipe",
			EntityID:    id,
			Action:      models.AuditActionUse,
			Description: fmt.Sprintf("Recipe %d used: produced %d x %s", id, body.Quantity, p.Name),
			After:       p,
		})

		return c.JSON(fiber.Map{
			"status":     "success",
			"message":    "Recipe used successfully, product created.",
			"product_id": p.ID,
		})
	}
}
