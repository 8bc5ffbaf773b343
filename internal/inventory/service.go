package inventory

import (
	"errors"
	"fmt"
	"strings"

	"matrium-backend/internal/apperrors"
	"matrium-backend/internal/database"
	"matrium-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service is the inventory ledger: it owns product rows and the arithmetic
// that keeps TotalAmount and Status consistent with Quantity/UnitPrice.
type Service struct {
	db       *gorm.DB
	lowStock int
}

func NewService(db *gorm.DB, lowStockThreshold int) *Service {
	return &Service{db: db, lowStock: lowStockThreshold}
}

type CreateProductInput struct {
	Name      string
	Category  string
	Supplier  string
	Quantity  int
	UnitPrice decimal.Decimal
	Image     string
}

type UpdateProductInput struct {
	Name      string
	Category  string
	Supplier  string
	Quantity  int
	UnitPrice decimal.Decimal
	Image     string
}

// StatusFor derives the stock status from a quantity.
func (s *Service) StatusFor(qty int) models.ProductStatus {
	switch {
	case qty <= 0:
		return models.StatusOutOfStock
	case qty <= s.lowStock:
		return models.StatusLowStock
	default:
		return models.StatusAvailable
	}
}

func (s *Service) refreshDerived(p *models.Product) {
	p.TotalAmount = p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
	p.Status = s.StatusFor(p.Quantity)
}

func validateCreateInput(in *CreateProductInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Supplier = strings.TrimSpace(in.Supplier)

	switch {
	case in.Name == "":
		return apperrors.NewValidation("Missing required field: product_name")
	case in.Category == "":
		return apperrors.NewValidation("Missing required field: category")
	case in.Supplier == "":
		return apperrors.NewValidation("Missing required field: supplier")
	case in.Quantity < 0:
		return apperrors.NewValidation("qty_purchased must not be negative")
	case in.UnitPrice.IsNegative():
		return apperrors.NewValidation("unit_price must not be negative")
	}
	return nil
}

// CreateOrMerge looks up a product by its natural key (name, category,
// supplier). An existing line absorbs the purchase via a weighted-average
// unit price; otherwise a new line is created.
func (s *Service) CreateOrMerge(in CreateProductInput) (*models.Product, error) {
	var product *models.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		p, err := s.CreateOrMergeTx(tx, in)
		if err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// CreateOrMergeTx is CreateOrMerge on the caller's transaction, for
// operations that combine the merge with other writes (recipe production).
func (s *Service) CreateOrMergeTx(tx *gorm.DB, in CreateProductInput) (*models.Product, error) {
	if err := validateCreateInput(&in); err != nil {
		return nil, err
	}

	var existing models.Product
	err := database.LockForUpdate(tx).
		Where("name = ? AND category = ? AND supplier = ?", in.Name, in.Category, in.Supplier).
		First(&existing).Error
	if err == nil {
		if err := s.mergeInto(tx, &existing, in.Quantity, in.UnitPrice); err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p := models.Product{
		Name:      in.Name,
		Category:  in.Category,
		Supplier:  in.Supplier,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice.Round(2),
		Image:     in.Image,
	}
	s.refreshDerived(&p)

	// A concurrent request can win the natural-key race between our read
	// and the insert. Postgres aborts the whole transaction on the unique
	// violation, so the insert runs under a savepoint we can roll back to
	// before retrying once as a merge.
	if err := tx.SavePoint("stock_line_create").Error; err != nil {
		return nil, err
	}
	if err := tx.Create(&p).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		if err := tx.RollbackTo("stock_line_create").Error; err != nil {
			return nil, err
		}
		if err := database.LockForUpdate(tx).
			Where("name = ? AND category = ? AND supplier = ?", in.Name, in.Category, in.Supplier).
			First(&existing).Error; err != nil {
			return nil, err
		}
		if err := s.mergeInto(tx, &existing, in.Quantity, in.UnitPrice); err != nil {
			return nil, err
		}
		return &existing, nil
	}
	return &p, nil
}

// mergeInto folds an incoming purchase into an existing line:
// newPrice = (q1*p1 + q2*p2) / (q1+q2), 0 when the merged quantity is 0.
func (s *Service) mergeInto(tx *gorm.DB, p *models.Product, qty int, unitPrice decimal.Decimal) error {
	newQty := p.Quantity + qty
	if newQty == 0 {
		p.UnitPrice = decimal.Zero
	} else {
		existingValue := decimal.NewFromInt(int64(p.Quantity)).Mul(p.UnitPrice)
		incomingValue := decimal.NewFromInt(int64(qty)).Mul(unitPrice)
		p.UnitPrice = existingValue.Add(incomingValue).
			DivRound(decimal.NewFromInt(int64(newQty)), 2)
	}
	p.Quantity = newQty
	s.refreshDerived(p)
	return tx.Save(p).Error
}

// EnsureLineTx creates a stock line only if the natural key does not exist
// yet; an existing line is returned untouched. Used for the zero-quantity
// placeholder a recipe registers for its produced good.
func (s *Service) EnsureLineTx(tx *gorm.DB, in CreateProductInput) (*models.Product, error) {
	if err := validateCreateInput(&in); err != nil {
		return nil, err
	}

	var existing models.Product
	err := tx.Where("name = ? AND category = ? AND supplier = ?", in.Name, in.Category, in.Supplier).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p := models.Product{
		Name:      in.Name,
		Category:  in.Category,
		Supplier:  in.Supplier,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice.Round(2),
		Image:     in.Image,
	}
	s.refreshDerived(&p)

	// Same natural-key race as the merge path: a concurrent writer can
	// claim the key between the lookup and the insert, so the insert runs
	// under a savepoint and a conflict falls back to the existing line.
	if err := tx.SavePoint("stock_line_ensure").Error; err != nil {
		return nil, err
	}
	if err := tx.Create(&p).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		if err := tx.RollbackTo("stock_line_ensure").Error; err != nil {
			return nil, err
		}
		if err := tx.Where("name = ? AND category = ? AND supplier = ?", in.Name, in.Category, in.Supplier).
			First(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	return &p, nil
}

// Update overwrites the named fields and recomputes the derived ones.
func (s *Service) Update(id uint, in UpdateProductInput) (*models.Product, error) {
	var p models.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := database.LockForUpdate(tx).
			First(&p, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("Product not found")
			}
			return err
		}

		in.Name = strings.TrimSpace(in.Name)
		in.Category = strings.TrimSpace(in.Category)
		in.Supplier = strings.TrimSpace(in.Supplier)
		if in.Name == "" || in.Category == "" || in.Supplier == "" {
			return apperrors.NewValidation("product_name, category and supplier must not be empty")
		}
		if in.Quantity < 0 {
			return apperrors.NewValidation("qty_purchased must not be negative")
		}
		if in.UnitPrice.IsNegative() {
			return apperrors.NewValidation("unit_price must not be negative")
		}

		p.Name = in.Name
		p.Category = in.Category
		p.Supplier = in.Supplier
		p.Quantity = in.Quantity
		p.UnitPrice = in.UnitPrice.Round(2)
		p.Image = in.Image
		s.refreshDerived(&p)

		return tx.Save(&p).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes a stock line. Lines still referenced by delivery items or
// recipe ingredients are refused so no dangling references are left behind.
func (s *Service) Delete(id uint) (*models.Product, error) {
	var p models.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("Product not found")
			}
			return err
		}

		var deliveryRefs int64
		if err := tx.Model(&models.DeliveryItem{}).
			Where("product_id = ?", id).Count(&deliveryRefs).Error; err != nil {
			return err
		}
		if deliveryRefs > 0 {
			return apperrors.NewValidation("Product %s is referenced by %d delivery line(s) and cannot be deleted", p.Name, deliveryRefs)
		}

		var recipeRefs int64
		if err := tx.Model(&models.RecipeIngredient{}).
			Where("product_id = ?", id).Count(&recipeRefs).Error; err != nil {
			return err
		}
		if recipeRefs > 0 {
			return apperrors.NewValidation("Product %s is referenced by %d recipe ingredient(s) and cannot be deleted", p.Name, recipeRefs)
		}

		return tx.Delete(&models.Product{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// AdjustQuantity applies a stock delta (negative = debit, positive = credit)
// on the caller's transaction. The row is read FOR UPDATE so two concurrent
// debits cannot both pass the sufficiency check against a stale quantity.
func (s *Service) AdjustQuantity(tx *gorm.DB, id uint, delta int) (*models.Product, error) {
	var p models.Product
	if err := database.LockForUpdate(tx).
		First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("Product ID %d not found", id)
		}
		return nil, err
	}

	newQty := p.Quantity + delta
	if newQty < 0 {
		return nil, apperrors.NewInsufficientStock("Insufficient stock for product %s", p.Name)
	}

	p.Quantity = newQty
	s.refreshDerived(&p)
	if err := tx.Save(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FormattedProduct is the read-path representation of a stock line, with
// display id, unit-suffixed quantity and two-decimal price strings.
type FormattedProduct struct {
	ID           string `json:"id"`
	Image        string `json:"image"`
	ProductName  string `json:"productName"`
	ProductID    string `json:"productId"`
	Category     string `json:"category"`
	QtyPurchased string `json:"qtyPurchased"`
	UnitPrice    string `json:"unitPrice"`
	TotalAmount  string `json:"totalAmount"`
	Supplier     string `json:"supplier"`
	Status       string `json:"status"`
}

const defaultProductImage = "src/assets/images/default.png"

// List returns a page of stock lines ordered by id.
func (s *Service) List(page, perPage int) ([]FormattedProduct, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	var products []models.Product
	if err := s.db.Order("id asc").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&products).Error; err != nil {
		return nil, err
	}

	res := make([]FormattedProduct, 0, len(products))
	for _, p := range products {
		res = append(res, formatProduct(p))
	}
	return res, nil
}

func formatProduct(p models.Product) FormattedProduct {
	image := p.Image
	if image == "" {
		image = defaultProductImage
	}

	prefix := strings.ToUpper(p.Name)
	if runes := []rune(prefix); len(runes) > 3 {
		prefix = string(runes[:3])
	}

	return FormattedProduct{
		ID:           fmt.Sprintf("%02d", p.ID),
		Image:        image,
		ProductName:  p.Name,
		ProductID:    fmt.Sprintf("ST-%s-%03d", prefix, p.ID),
		Category:     p.Category,
		QtyPurchased: fmt.Sprintf("%d pcs", p.Quantity),
		UnitPrice:    p.UnitPrice.StringFixed(2),
		TotalAmount:  formatThousands(p.TotalAmount),
		Supplier:     p.Supplier,
		Status:       string(p.Status),
	}
}

// formatThousands renders a decimal with two fraction digits and comma
// separators in the integer part ("1234567.8" -> "1,234,567.80").
func formatThousands(d decimal.Decimal) string {
	s := d.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}
