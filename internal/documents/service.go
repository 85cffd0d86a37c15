package documents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"factuur-portal/backoffice-backend/internal/catalog"
	"factuur-portal/backoffice-backend/internal/customers"
	"factuur-portal/backoffice-backend/internal/metrics"
)

// CustomerLookup resolves stored customers
type CustomerLookup interface {
	GetCustomer(ctx context.Context, id uint) (*customers.Customer, error)
	ListAllCustomers(ctx context.Context) ([]customers.Customer, error)
}

// ServiceLookup resolves stored services
type ServiceLookup interface {
	GetService(ctx context.Context, id uint) (*catalog.Service, error)
	ListAllServices(ctx context.Context) ([]catalog.Service, error)
}

// Service turns form selections into rendered documents
type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (*RenderedDocument, error)
	Options(ctx context.Context) (*FormOptions, error)
}

type documentService struct {
	renderer  *Renderer
	customers CustomerLookup
	services  ServiceLookup
	settings  Settings
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewService creates a document service. m may be nil.
func NewService(renderer *Renderer, customers CustomerLookup, services ServiceLookup, settings Settings, m *metrics.Metrics, logger *zap.Logger) Service {
	return &documentService{
		renderer:  renderer,
		customers: customers,
		services:  services,
		settings:  settings,
		metrics:   m,
		logger:    logger,
	}
}

func (s *documentService) Generate(ctx context.Context, req GenerateRequest) (*RenderedDocument, error) {
	kind, err := ParseKind(string(req.Kind))
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidRequest, "invalid document request", err)
	}
	req.Kind = kind

	docReq, err := s.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	doc, err := s.renderer.Render(*docReq)
	s.metrics.ObserveRender(string(req.Kind), time.Since(start), err)
	if err != nil {
		s.logger.Error("Document render failed",
			zap.String("kind", string(req.Kind)),
			zap.Uint("customer_id", req.CustomerID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Document generated",
		zap.String("kind", string(req.Kind)),
		zap.String("number", doc.Number),
		zap.String("filename", doc.Filename),
		zap.String("total", doc.Totals.Total.StringFixed(2)),
	)
	return doc, nil
}

// buildRequest checks the selections and assembles the renderer input
func (s *documentService) buildRequest(ctx context.Context, req GenerateRequest) (*DocumentRequest, error) {
	taxRate := s.settings.DefaultTaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}
	if !s.accepts(taxRate) {
		return nil, fmt.Errorf("%w: %d", ErrTaxRateRejected, taxRate)
	}

	selections := req.Selections()
	if len(selections) == 0 {
		return nil, NewRenderError(ErrCodeInvalidRequest, "invalid document request", ErrNoLineItems)
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		d, err := parseDate(req.DueDate)
		if err != nil {
			return nil, err
		}
		dueDate = &d
	}

	customer, err := s.customers.GetCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	items := make([]LineItem, 0, len(selections))
	for _, sel := range selections {
		service, err := s.services.GetService(ctx, sel.ServiceID)
		if err != nil {
			return nil, fmt.Errorf("failed to load service: %w", err)
		}
		qty := sel.Quantity
		if qty == 0 {
			qty = 1
		}
		items = append(items, LineItem{
			Title:       service.Name,
			Description: service.Description,
			Quantity:    qty,
			UnitPrice:   service.Price,
			TaxRate:     decimal.NewFromInt(int64(taxRate)),
		})
	}

	return &DocumentRequest{
		Kind:   req.Kind,
		Sender: s.settings.Sender,
		Recipient: Party{
			Name:    customer.FullName,
			Address: customer.Address,
		},
		RecipientCountry: s.settings.RecipientCountry,
		Items:            items,
		LogoPath:         s.settings.LogoPath,
		DueDate:          dueDate,
	}, nil
}

func (s *documentService) accepts(rate int) bool {
	for _, r := range s.settings.AcceptedTaxRates {
		if r == rate {
			return true
		}
	}
	return false
}

func (s *documentService) Options(ctx context.Context) (*FormOptions, error) {
	cs, err := s.customers.ListAllCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	ss, err := s.services.ListAllServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	opts := &FormOptions{
		Customers:      make([]Choice, 0, len(cs)),
		Services:       make([]Choice, 0, len(ss)),
		TaxRates:       s.settings.AcceptedTaxRates,
		DefaultTaxRate: s.settings.DefaultTaxRate,
	}
	for _, c := range cs {
		opts.Customers = append(opts.Customers, Choice{ID: c.ID, Label: c.FullName})
	}
	for _, sv := range ss {
		opts.Services = append(opts.Services, Choice{ID: sv.ID, Label: fmt.Sprintf("%s (%s)", sv.Name, formatMoney(sv.Price))})
	}
	return opts, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "02-01-2006"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDueDate, s)
}
