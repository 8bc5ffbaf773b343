package delivery

import (
	"errors"
	"time"

	"matrium-backend/internal/apperrors"
	"matrium-backend/internal/inventory"
	"matrium-backend/internal/models"

	"gorm.io/gorm"
)

// Service debits stock when a delivery is created and credits it back when
// the delivery is deleted. Every mutation is one transaction: a failing line
// rolls back the delivery and every debit made so far.
type Service struct {
	db     *gorm.DB
	ledger *inventory.Service
}

func NewService(db *gorm.DB, ledger *inventory.Service) *Service {
	return &Service{db: db, ledger: ledger}
}

type LineInput struct {
	ProductID uint `json:"id"`
	Quantity  int  `json:"quantity"`
}

type CreateDeliveryInput struct {
	OrderID         int
	CustomerName    string
	DeliveryAddress string
	DeliveryDate    string // "2006-01-02"
	Status          string
	DeliveryType    string
	Products        []LineInput
}

type UpdateDeliveryInput struct {
	CustomerName    *string
	DeliveryAddress *string
	DeliveryDate    *string
	Status          *string
	DeliveryType    *string
}

func (in *CreateDeliveryInput) validate() error {
	switch {
	case in.OrderID == 0:
		return apperrors.NewValidation("Missing required field: orderId")
	case in.CustomerName == "":
		return apperrors.NewValidation("Missing required field: customerName")
	case in.DeliveryAddress == "":
		return apperrors.NewValidation("Missing required field: deliveryAddress")
	case in.DeliveryDate == "":
		return apperrors.NewValidation("Missing required field: deliveryDate")
	case in.Status == "":
		return apperrors.NewValidation("Missing required field: status")
	case in.DeliveryType == "":
		return apperrors.NewValidation("Missing required field: deliveryType")
	case len(in.Products) == 0:
		return apperrors.NewValidation("Missing required field: products")
	}
	return nil
}

// Create validates the delivery, debits every line and persists the delivery
// with its items atomically.
func (s *Service) Create(in CreateDeliveryInput) (*models.Delivery, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	date, err := time.Parse("2006-01-02", in.DeliveryDate)
	if err != nil {
		return nil, apperrors.NewValidation("deliveryDate must be formatted 'YYYY-MM-DD'")
	}

	d := models.Delivery{
		OrderID:         in.OrderID,
		CustomerName:    in.CustomerName,
		DeliveryAddress: in.DeliveryAddress,
		DeliveryDate:    date,
		Status:          in.Status,
		DeliveryType:    in.DeliveryType,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&d).Error; err != nil {
			return err
		}

		for _, line := range in.Products {
			if line.Quantity <= 0 {
				return apperrors.NewValidation("Line quantity must be positive for product %d", line.ProductID)
			}

			if _, err := s.ledger.AdjustQuantity(tx, line.ProductID, -line.Quantity); err != nil {
				return err
			}

			item := models.DeliveryItem{
				DeliveryID: d.ID,
				ProductID:  line.ProductID,
				Quantity:   line.Quantity,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

type LineView struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type DeliveryView struct {
	DeliveryID      uint       `json:"deliveryId"`
	OrderID         int        `json:"orderId"`
	CustomerName    string     `json:"customerName"`
	DeliveryAddress string     `json:"deliveryAddress"`
	DeliveryDate    string     `json:"deliveryDate"`
	Status          string     `json:"status"`
	DeliveryType    string     `json:"deliveryType"`
	Products        []LineView `json:"products"`
}

// List returns every delivery with its lines expanded to product id/name.
func (s *Service) List() ([]DeliveryView, error) {
	var deliveries []models.Delivery
	if err := s.db.
		Preload("Items.Product").
		Order("created_at DESC, id DESC").
		Find(&deliveries).Error; err != nil {
		return nil, err
	}

	res := make([]DeliveryView, 0, len(deliveries))
	for _, d := range deliveries {
		lines := make([]LineView, 0, len(d.Items))
		for _, item := range d.Items {
			lines = append(lines, LineView{
				ID:       item.ProductID,
				Name:     item.Product.Name,
				Quantity: item.Quantity,
			})
		}
		res = append(res, DeliveryView{
			DeliveryID:      d.ID,
			OrderID:         d.OrderID,
			CustomerName:    d.CustomerName,
			DeliveryAddress: d.DeliveryAddress,
			DeliveryDate:    d.DeliveryDate.Format("2006-01-02"),
			Status:          d.Status,
			DeliveryType:    d.DeliveryType,
			Products:        lines,
		})
	}
	return res, nil
}

// Update overwrites only the provided fields; lines and stock stay untouched.
func (s *Service) Update(id uint, in UpdateDeliveryInput) (*models.Delivery, error) {
	var d models.Delivery
	if err := s.db.First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("Delivery not found")
		}
		return nil, err
	}

	if in.CustomerName != nil {
		d.CustomerName = *in.CustomerName
	}
	if in.DeliveryAddress != nil {
		d.DeliveryAddress = *in.DeliveryAddress
	}
	if in.DeliveryDate != nil {
		date, err := time.Parse("2006-01-02", *in.DeliveryDate)
		if err != nil {
			return nil, apperrors.NewValidation("deliveryDate must be formatted 'YYYY-MM-DD'")
		}
		d.DeliveryDate = date
	}
	if in.Status != nil {
		d.Status = *in.Status
	}
	if in.DeliveryType != nil {
		d.DeliveryType = *in.DeliveryType
	}

	if err := s.db.Save(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// Delete credits every line back to stock, removes the lines and then the
// delivery, all in one transaction. A second delete finds nothing and fails
// NotFound, so quantities are never credited twice.
func (s *Service) Delete(id uint) (*models.Delivery, error) {
	var d models.Delivery
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&d, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("Delivery not found")
			}
			return err
		}

		for _, item := range d.Items {
			if _, err := s.ledger.AdjustQuantity(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := tx.Where("delivery_id = ?", d.ID).Delete(&models.DeliveryItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Delivery{}, "id = ?", d.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}
