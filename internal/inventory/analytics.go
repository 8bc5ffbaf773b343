package inventory

import (
	"matrium-backend/internal/models"

	"github.com/shopspring/decimal"
)

type Analytics struct {
	TotalItems      int64           `json:"total_items"`
	TotalItemCost   decimal.Decimal `json:"total_item_cost"`
	LowStockItems   int64           `json:"low_stock_items"`
	OutOfStockItems int64           `json:"out_of_stock_items"`
}

// Analytics aggregates the stock table into the dashboard counters.
func (s *Service) Analytics() (*Analytics, error) {
	var a Analytics

	if err := s.db.Model(&models.Product{}).
		Where("total_amount > 0").
		Count(&a.TotalItems).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Product{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&a.TotalItemCost).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Product{}).
		Where("quantity <= ? AND quantity > 0", s.lowStock).
		Count(&a.LowStockItems).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Product{}).
		Where("quantity <= 0").
		Count(&a.OutOfStockItems).Error; err != nil {
		return nil, err
	}

	return &a, nil
}
