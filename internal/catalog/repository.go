package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository defines data access for services
type Repository interface {
	Create(ctx context.Context, service *Service) error
	GetByID(ctx context.Context, id uint) (*Service, error)
	List(ctx context.Context, offset, limit int) ([]Service, int64, error)
	ListAll(ctx context.Context) ([]Service, error)
	Update(ctx context.Context, service *Service) error
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

func (r *GormRepository) Create(ctx context.Context, service *Service) error {
	return r.db.WithContext(ctx).Create(service).Error
}

func (r *GormRepository) GetByID(ctx context.Context, id uint) (*Service, error) {
	var service Service
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &service, nil
}

func (r *GormRepository) List(ctx context.Context, offset, limit int) ([]Service, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&Service{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []Service
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *GormRepository) ListAll(ctx context.Context) ([]Service, error) {
	var items []Service
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepository) Update(ctx context.Context, service *Service) error {
	result := r.db.WithContext(ctx).
		Model(&Service{}).
		Where("id = ?", service.ID).
		Updates(map[string]interface{}{
			"name":        service.Name,
			"price":       service.Price,
			"description": service.Description,
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
	result := r.db.WithContext(ctx).Delete(&Service{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
