package recipe

import (
	"errors"

	"matrium-backend/internal/apperrors"
	"matrium-backend/internal/database"
	"matrium-backend/internal/inventory"
	"matrium-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Produced goods land in the stock table under a fixed category/supplier so
// repeat production runs merge into the same line.
const (
	producedCategory = "Final Material"
	producedSupplier = "The Factory"
)

// Service expands recipes against current inventory. The totals stored at
// add time are an estimate only; actual production cost is always evaluated
// at use time from current stock prices.
type Service struct {
	db     *gorm.DB
	ledger *inventory.Service
}

func NewService(db *gorm.DB, ledger *inventory.Service) *Service {
	return &Service{db: db, ledger: ledger}
}

type IngredientInput struct {
	StockID  uint            `json:"stockId"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type AddRecipeInput struct {
	Name        string
	ProductName string
	Type        string
	Category    string
	Ingredients []IngredientInput
}

func (in *AddRecipeInput) validate() error {
	switch {
	case in.Name == "":
		return apperrors.NewValidation("Missing required field: name")
	case in.ProductName == "":
		return apperrors.NewValidation("Missing required field: productName")
	case in.Type == "":
		return apperrors.NewValidation("Missing required field: type")
	case len(in.Ingredients) == 0:
		return apperrors.NewValidation("Missing required field: ingredients")
	}
	if in.Type != "fixed" && in.Type != "variable" {
		return apperrors.NewValidation("type must be 'fixed' or 'variable'")
	}
	for _, ing := range in.Ingredients {
		if ing.StockID == 0 {
			return apperrors.NewValidation("Every ingredient needs a stockId")
		}
		if ing.Quantity <= 0 {
			return apperrors.NewValidation("Ingredient quantity must be positive")
		}
		if ing.Price.IsNegative() {
			return apperrors.NewValidation("Ingredient price must not be negative")
		}
	}
	return nil
}

// Add persists the recipe with its ingredient list and registers a
// zero-quantity stock line for the produced good, priced at the add-time
// estimate: unitPrice = Σ(qty*price) / Σ(qty).
func (s *Service) Add(in AddRecipeInput) (*models.Recipe, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	totalPrice := decimal.Zero
	totalQuantity := 0
	for _, ing := range in.Ingredients {
		totalPrice = totalPrice.Add(ing.Price.Mul(decimal.NewFromInt(int64(ing.Quantity))))
		totalQuantity += ing.Quantity
	}
	unitPrice := decimal.Zero
	if totalQuantity > 0 {
		unitPrice = totalPrice.DivRound(decimal.NewFromInt(int64(totalQuantity)), 2)
	}

	r := models.Recipe{
		Name:        in.Name,
		ProductName: in.ProductName,
		Type:        in.Type,
		Category:    in.Category,
		TotalPrice:  totalPrice.Round(2),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, ing := range in.Ingredients {
			var p models.Product
			if err := tx.First(&p, "id = ?", ing.StockID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NewNotFound("Product ID %d not found", ing.StockID)
				}
				return err
			}
			r.Ingredients = append(r.Ingredients, models.RecipeIngredient{
				ProductID:  ing.StockID,
				Quantity:   ing.Quantity,
				PriceAtAdd: ing.Price.Round(2),
			})
		}

		if err := tx.Create(&r).Error; err != nil {
			return err
		}

		_, err := s.ledger.EnsureLineTx(tx, inventory.CreateProductInput{
			Name:      in.ProductName,
			Category:  producedCategory,
			Supplier:  producedSupplier,
			Quantity:  0,
			UnitPrice: unitPrice,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

type IngredientView struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit"`
	Price    string `json:"price"`
}

type RecipeView struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	ProductName string           `json:"productName"`
	Type        string           `json:"type"`
	Category    string           `json:"category"`
	Ingredients []IngredientView `json:"ingredients"`
	TotalPrice  string           `json:"totalPrice"`
	DateCreated string           `json:"dateCreated"`
}

// List expands every recipe's ingredients against live stock: each ingredient
// is valued at quantity * current unit price, so the total shown is a live
// valuation rather than the stored add-time estimate.
func (s *Service) List() ([]RecipeView, error) {
	var recipes []models.Recipe
	if err := s.db.
		Preload("Ingredients.Product").
		Order("created_at DESC, id DESC").
		Find(&recipes).Error; err != nil {
		return nil, err
	}

	res := make([]RecipeView, 0, len(recipes))
	for _, r := range recipes {
		ingredients := make([]IngredientView, 0, len(r.Ingredients))
		totalPrice := decimal.Zero

		for _, ing := range r.Ingredients {
			price := ing.Product.UnitPrice.Mul(decimal.NewFromInt(int64(ing.Quantity)))
			totalPrice = totalPrice.Add(price)
			ingredients = append(ingredients, IngredientView{
				Name:     ing.Product.Name,
				Quantity: ing.Quantity,
				Unit:     ing.Product.Category,
				Price:    price.StringFixed(2),
			})
		}

		res = append(res, RecipeView{
			ID:          r.ID,
			Name:        r.Name,
			ProductName: r.ProductName,
			Type:        r.Type,
			Category:    r.Category,
			Ingredients: ingredients,
			TotalPrice:  totalPrice.StringFixed(2),
			DateCreated: r.CreatedAt.Format("2006-01-02"),
		})
	}
	return res, nil
}

// Delete removes the ingredient rows, then the recipe row.
func (s *Service) Delete(id uint) (*models.Recipe, error) {
	var r models.Recipe
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Ingredients").First(&r, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("Recipe not found")
			}
			return err
		}

		if err := tx.Where("recipe_id = ?", r.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", r.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Use produces quantityToProduce units: every ingredient is debited by
// quantity * quantityToProduce, and the produced good is credited to stock at
// unitPrice = totalCost / quantityToProduce, where totalCost is the per-unit
// ingredient cost at current stock prices. All of it is one transaction; an
// ingredient running short rolls back every debit already applied.
func (s *Service) Use(id uint, quantityToProduce int) (*models.Product, error) {
	if quantityToProduce <= 0 {
		return nil, apperrors.NewValidation("quantity must be positive")
	}

	var produced *models.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var r models.Recipe
		if err := tx.Preload("Ingredients").First(&r, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("Recipe not found")
			}
			return err
		}

		totalCost := decimal.Zero
		for _, ing := range r.Ingredients {
			var p models.Product
			if err := database.LockForUpdate(tx).
				First(&p, "id = ?", ing.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NewNotFound("Product ID %d not found", ing.ProductID)
				}
				return err
			}

			required := ing.Quantity * quantityToProduce
			if p.Quantity < required {
				return apperrors.NewInsufficientStock("Not enough %s in stock", p.Name)
			}

			if _, err := s.ledger.AdjustQuantity(tx, p.ID, -required); err != nil {
				return err
			}

			totalCost = totalCost.Add(p.UnitPrice.Mul(decimal.NewFromInt(int64(ing.Quantity))))
		}

		unitPrice := totalCost.DivRound(decimal.NewFromInt(int64(quantityToProduce)), 2)

		p, err := s.ledger.CreateOrMergeTx(tx, inventory.CreateProductInput{
			Name:      r.ProductName,
			Category:  producedCategory,
			Supplier:  producedSupplier,
			Quantity:  quantityToProduce,
			UnitPrice: unitPrice,
		})
		if err != nil {
			return err
		}
		produced = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return produced, nil
}
