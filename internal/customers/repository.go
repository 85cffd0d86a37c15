package customers

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository defines data access for customers
type Repository interface {
	Create(ctx context.Context, customer *Customer) error
	GetByID(ctx context.Context, id uint) (*Customer, error)
	List(ctx context.Context, offset, limit int) ([]Customer, int64, error)
	ListAll(ctx context.Context) ([]Customer, error)
	Update(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id uint) error
}

// GormRepository implements Repository using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewRepository creates a new GormRepository
func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, customer *Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *GormRepository) GetByID(ctx context.Context, id uint) (*Customer, error) {
	var customer Customer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (r *GormRepository) List(ctx context.Context, offset, limit int) ([]Customer, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&Customer{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []Customer
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *GormRepository) ListAll(ctx context.Context) ([]Customer, error) {
	var items []Customer
	if err := r.db.WithContext(ctx).Order("full_name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepository) Update(ctx context.Context, customer *Customer) error {
	result := r.db.WithContext(ctx).
		Model(&Customer{}).
		Where("id = ?", customer.ID).
		Updates(map[string]interface{}{
			"full_name":    customer.FullName,
			"email":        customer.Email,
			"phone_number": customer.PhoneNumber,
			"address":      customer.Address,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&Customer{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
