package customers

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Service defines customer management operations
type Service interface {
	CreateCustomer(ctx context.Context, req CustomerRequest) (*Customer, error)
	GetCustomer(ctx context.Context, id uint) (*Customer, error)
	ListCustomers(ctx context.Context, page, perPage int) (*Page, error)
	ListAllCustomers(ctx context.Context) ([]Customer, error)
	UpdateCustomer(ctx context.Context, id uint, req CustomerRequest) (*Customer, error)
	DeleteCustomer(ctx context.Context, id uint) error
}

type customerService struct {
	repo           Repository
	defaultPerPage int
	logger         *zap.Logger
}

// NewService creates a customer service; perPage is the listing default
func NewService(repo Repository, perPage int, logger *zap.Logger) Service {
	if perPage <= 0 {
		perPage = 10
	}
	return &customerService{
		repo:           repo,
		defaultPerPage: perPage,
		logger:         logger,
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, req CustomerRequest) (*Customer, error) {
	customer := &Customer{
		FullName:    strings.TrimSpace(req.FullName),
		Email:       strings.TrimSpace(req.Email),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Address:     strings.TrimSpace(req.Address),
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	s.logger.Info("Customer created", zap.Uint("customer_id", customer.ID))
	return customer, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id uint) (*Customer, error) {
	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer %d: %w", id, err)
	}
	return customer, nil
}

func (s *customerService) ListCustomers(ctx context.Context, page, perPage int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = s.defaultPerPage
	}

	items, total, err := s.repo.List(ctx, (page-1)*perPage, perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	return &Page{
		Items:      items,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: int((total + int64(perPage) - 1) / int64(perPage)),
	}, nil
}

func (s *customerService) ListAllCustomers(ctx context.Context) ([]Customer, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return items, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id uint, req CustomerRequest) (*Customer, error) {
	customer := &Customer{
		ID:          id,
		FullName:    strings.TrimSpace(req.FullName),
		Email:       strings.TrimSpace(req.Email),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Address:     strings.TrimSpace(req.Address),
	}
	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer %d: %w", id, err)
	}
	s.logger.Info("Customer updated", zap.Uint("customer_id", id))
	return s.GetCustomer(ctx, id)
}

func (s *customerService) DeleteCustomer(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete customer %d: %w", id, err)
	}
	s.logger.Info("Customer deleted", zap.Uint("customer_id", id))
	return nil
}
