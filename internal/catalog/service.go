package catalog

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// CatalogService defines service catalog operations
type CatalogService interface {
	CreateService(ctx context.Context, req ServiceRequest) (*Service, error)
	GetService(ctx context.Context, id uint) (*Service, error)
	ListServices(ctx context.Context, page, perPage int) (*Page, error)
	ListAllServices(ctx context.Context) ([]Service, error)
	UpdateService(ctx context.Context, id uint, req ServiceRequest) (*Service, error)
	DeleteService(ctx context.Context, id uint) error
}

type catalogService struct {
	repo           Repository
	defaultPerPage int
	logger         *zap.Logger
}

// NewCatalogService creates a catalog service; perPage is the listing default
func NewCatalogService(repo Repository, perPage int, logger *zap.Logger) CatalogService {
	if perPage <= 0 {
		perPage = 10
	}
	return &catalogService{
		repo:           repo,
		defaultPerPage: perPage,
		logger:         logger,
	}
}

func (s *catalogService) fromRequest(id uint, req ServiceRequest) (*Service, error) {
	price, err := req.Price.Decimal()
	if err != nil {
		return nil, err
	}
	return &Service{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Price:       price,
		Description: strings.TrimSpace(req.Description),
	}, nil
}

func (s *catalogService) CreateService(ctx context.Context, req ServiceRequest) (*Service, error) {
	service, err := s.fromRequest(0, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, service); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	s.logger.Info("Service created", zap.Uint("service_id", service.ID), zap.String("price", service.Price.StringFixed(2)))
	return service, nil
}

func (s *catalogService) GetService(ctx context.Context, id uint) (*Service, error) {
	service, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get service %d: %w", id, err)
	}
	return service, nil
}

func (s *catalogService) ListServices(ctx context.Context, page, perPage int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = s.defaultPerPage
	}

	items, total, err := s.repo.List(ctx, (page-1)*perPage, perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	return &Page{
		Items:      items,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: int((total + int64(perPage) - 1) / int64(perPage)),
	}, nil
}

func (s *catalogService) ListAllServices(ctx context.Context) ([]Service, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return items, nil
}

func (s *catalogService) UpdateService(ctx context.Context, id uint, req ServiceRequest) (*Service, error) {
	service, err := s.fromRequest(id, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, service); err != nil {
		return nil, fmt.Errorf("failed to update service %d: %w", id, err)
	}
	s.logger.Info("Service updated", zap.Uint("service_id", id))
	return s.GetService(ctx, id)
}

func (s *catalogService) DeleteService(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete service %d: %w", id, err)
	}
	s.logger.Info("Service deleted", zap.Uint("service_id", id))
	return nil
}
