package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentworks/backend/internal/domain/report"
	"github.com/rentworks/backend/internal/infrastructure/persistence/models"
)

// GormSalesRepository implements report.SalesRepository using GORM. Sales and
// invoices are written by the sales collaborator; the aggregator reads them
// for fallback recomputation only.
type GormSalesRepository struct {
	db *gorm.DB
}

// NewGormSalesRepository creates a new GormSalesRepository
func NewGormSalesRepository(db *gorm.DB) *GormSalesRepository {
	return &GormSalesRepository{db: db}
}

// FindSalesByCustomer returns the customer's sales within the period
func (r *GormSalesRepository) FindSalesByCustomer(ctx context.Context, customerID uuid.UUID, period report.Period) ([]report.Sale, error) {
	var saleModels []models.SaleModel
	query := r.db.WithContext(ctx).
		Model(&models.SaleModel{}).
		Where("customer_id = ?", customerID)
	if period.Start != nil {
		query = query.Where("sale_date >= ?", *period.Start)
	}
	if period.End != nil {
		query = query.Where("sale_date <= ?", *period.End)
	}

	if err := query.Order("sale_date ASC").Find(&saleModels).Error; err != nil {
		return nil, err
	}
	sales := make([]report.Sale, len(saleModels))
	for i, model := range saleModels {
		sales[i] = model.ToDomain()
	}
	return sales, nil
}

// FindInvoicesByCustomer returns the customer's invoices within the period
func (r *GormSalesRepository) FindInvoicesByCustomer(ctx context.Context, customerID uuid.UUID, period report.Period) ([]report.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("customer_id = ?", customerID)
	if period.Start != nil {
		query = query.Where("issue_date >= ?", *period.Start)
	}
	if period.End != nil {
		query = query.Where("issue_date <= ?", *period.End)
	}

	if err := query.Order("issue_date ASC").Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	invoices := make([]report.Invoice, len(invoiceModels))
	for i, model := range invoiceModels {
		invoices[i] = model.ToDomain()
	}
	return invoices, nil
}

// Ensure GormSalesRepository implements SalesRepository
var _ report.SalesRepository = (*GormSalesRepository)(nil)
