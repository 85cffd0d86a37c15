package customers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, customer *Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uint) (*Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Customer), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, offset, limit int) ([]Customer, int64, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) ListAll(ctx context.Context) ([]Customer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Customer), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, customer *Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCreateCustomer_TrimsInput(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, 10, zap.NewNop())

	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *Customer) bool {
		return c.FullName == "Jan de Vries" && c.Address == "Dorpsstraat 1"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*Customer).ID = 4
	}).Return(nil)

	customer, err := svc.CreateCustomer(context.Background(), CustomerRequest{
		FullName:    "  Jan de Vries ",
		Email:       "jan@example.nl",
		PhoneNumber: "0612345678",
		Address:     "Dorpsstraat 1 ",
	})

	assert.NoError(t, err)
	assert.Equal(t, uint(4), customer.ID)
	repo.AssertExpectations(t)
}

func TestListCustomers_Pagination(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, 10, zap.NewNop())

	repo.On("List", mock.Anything, 10, 10).Return([]Customer{{ID: 11}}, int64(11), nil)

	page, err := svc.ListCustomers(context.Background(), 2, 0)

	assert.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 10, page.PerPage)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 1)
	repo.AssertExpectations(t)
}

func TestGetCustomer_NotFound(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, 10, zap.NewNop())

	repo.On("GetByID", mock.Anything, uint(9)).Return(nil, ErrNotFound)

	_, err := svc.GetCustomer(context.Background(), 9)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateCustomer_PassesAllFields(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, 10, zap.NewNop())

	req := CustomerRequest{
		FullName:    "Jan de Vries",
		Email:       "jan@example.nl",
		PhoneNumber: "0612345678",
		Address:     "Nieuwe Gracht 3",
	}
	repo.On("Update", mock.Anything, &Customer{
		ID:          5,
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	}).Return(nil)
	repo.On("GetByID", mock.Anything, uint(5)).Return(&Customer{ID: 5, Address: "Nieuwe Gracht 3"}, nil)

	customer, err := svc.UpdateCustomer(context.Background(), 5, req)

	assert.NoError(t, err)
	assert.Equal(t, "Nieuwe Gracht 3", customer.Address)
	repo.AssertExpectations(t)
}

func TestDeleteCustomer_WrapsError(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, 10, zap.NewNop())

	repo.On("Delete", mock.Anything, uint(3)).Return(errors.New("disk full"))

	err := svc.DeleteCustomer(context.Background(), 3)

	assert.EqualError(t, err, "failed to delete customer 3: disk full")
}
