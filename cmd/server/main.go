package main

import (
	"log"
	"strings"

	"matrium-backend/internal/apperrors"
	"matrium-backend/internal/audit"
	"matrium-backend/internal/config"
	"matrium-backend/internal/database"
	"matrium-backend/internal/delivery"
	"matrium-backend/internal/inventory"
	"matrium-backend/internal/recipe"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	ledger := inventory.NewService(database.DB, cfg.LowStockThreshold)
	deliveries := delivery.NewService(database.DB, ledger)
	recipes := recipe.NewService(database.DB, ledger)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"status":  "error",
					"message": e.Message,
				})
			}
			code := apperrors.HTTPStatus(err)
			if code == fiber.StatusInternalServerError {
				log.Println("Unexpected error:", err)
				return c.Status(code).JSON(fiber.Map{
					"status":  "error",
					"message": "Unexpected server error",
				})
			}
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"message": err.Error(),
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Matrium!")
	})

	// Inventory ledger
	app.Get("/getProduct", inventory.ListProductsHandler(ledger))
	app.Post("/createProduct", inventory.CreateProductHandler(ledger, cfg))
	app.Put("/updateProduct", inventory.UpdateProductHandler(ledger))
	app.Delete("/deleteProduct", inventory.DeleteProductHandler(ledger))
	app.Get("/analytics", inventory.AnalyticsHandler(ledger))
	app.Post("/importProducts", inventory.ImportProductsHandler(ledger))

	// Delivery processor
	app.Post("/createDelivery", delivery.CreateDeliveryHandler(deliveries))
	app.Get("/getDeliveries", delivery.ListDeliveriesHandler(deliveries))
	app.Put("/updateDelivery/:id", delivery.UpdateDeliveryHandler(deliveries))
	app.Delete("/deleteDelivery/:id", delivery.DeleteDeliveryHandler(deliveries))

	// Recipe compiler
	app.Post("/addRecipe", recipe.AddRecipeHandler(recipes))
	app.Get("/getRecipes", recipe.ListRecipesHandler(recipes))
	app.Delete("/deleteRecipe/:id", recipe.DeleteRecipeHandler(recipes))
	app.Post("/useRecipe/:id", recipe.UseRecipeHandler(recipes))

	// Audit trail
	app.Get("/auditLogs", audit.ListAuditLogsHandler())

	log.Println("Server running on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
