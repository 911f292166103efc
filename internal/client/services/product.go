package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/agritrack/agritrack-cli/internal/client/api"
	"github.com/agritrack/agritrack-cli/internal/client/models"
	"github.com/agritrack/agritrack-cli/internal/client/permissions"
	"github.com/agritrack/agritrack-cli/internal/client/session"
	"github.com/agritrack/agritrack-cli/internal/common"
	"github.com/agritrack/agritrack-cli/internal/logging"
)

// ProductService is the product-facing application service: listing, search,
// single fetches, stage submission, stats, and admin CRUD.
type ProductService interface {
	List(ctx context.Context, page, size int, sortBy, sortDir string) (*models.ProductPage, error)
	Search(ctx context.Context, filter models.SearchFilter) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	History(ctx context.Context, id string) ([]models.TrackingStage, error)

	// AllowedStages returns the stage labels sess may submit, in vocabulary
	// order. An empty result means view-only access.
	AllowedStages(sess *session.Session) []string

	// AddStage validates and submits one tracking stage, then refetches the
	// product so the caller can replace its cached copy wholesale. The fresh
	// fetch is sequenced strictly after the backend acknowledges the append;
	// nothing is shown speculatively.
	AddStage(ctx context.Context, sess *session.Session, productID string, req models.StageRequest) (*models.Product, error)

	Stats(ctx context.Context) (*models.DashboardStats, error)

	Create(ctx context.Context, product models.Product) (*models.Product, error)
	Update(ctx context.Context, id string, product models.Product) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

type productService struct {
	client api.Client
	log    logging.Logger
}

// NewProductService constructs a ProductService bound to the given API client.
func NewProductService(client api.Client, log logging.Logger) ProductService {
	return &productService{client: client, log: log}
}

func (s *productService) List(ctx context.Context, page, size int, sortBy, sortDir string) (*models.ProductPage, error) {
	return s.client.GetProducts(ctx, page, size, sortBy, sortDir)
}

func (s *productService) Search(ctx context.Context, filter models.SearchFilter) ([]models.Product, error) {
	return s.client.SearchProducts(ctx, filter)
}

func (s *productService) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.client.GetProduct(ctx, id)
}

func (s *productService) History(ctx context.Context, id string) ([]models.TrackingStage, error) {
	return s.client.GetTrackingHistory(ctx, id)
}

func (s *productService) AllowedStages(sess *session.Session) []string {
	if sess == nil {
		return nil
	}
	return permissions.AllowedStages(sess.Roles, sess.StageProfile)
}

func (s *productService) AddStage(ctx context.Context, sess *session.Session, productID string, req models.StageRequest) (*models.Product, error) {
	if err := validateStageRequest(req); err != nil {
		return nil, err
	}
	if sess == nil || !permissions.CanSubmit(sess.Roles, sess.StageProfile, req.Stage) {
		return nil, fmt.Errorf("%w: stage %q", common.ErrPermissionDenied, req.Stage)
	}

	if _, err := s.client.AddTrackingStage(ctx, productID, req); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "tracking stage added", "product", productID, "stage", req.Stage)

	// Full refetch instead of patching the cached record: the backend owns
	// timestamps and ordering, and the data volumes are small.
	return s.client.GetProduct(ctx, productID)
}

func validateStageRequest(req models.StageRequest) error {
	if strings.TrimSpace(req.Stage) == "" {
		return fmt.Errorf("%w: stage is required", common.ErrValidation)
	}
	if strings.TrimSpace(req.Location) == "" {
		return fmt.Errorf("%w: location is required", common.ErrValidation)
	}
	if strings.TrimSpace(req.Handler) == "" {
		return fmt.Errorf("%w: handler is required", common.ErrValidation)
	}
	return nil
}

func (s *productService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	return s.client.GetDashboardStats(ctx)
}

func (s *productService) Create(ctx context.Context, product models.Product) (*models.Product, error) {
	return s.client.CreateProduct(ctx, product)
}

func (s *productService) Update(ctx context.Context, id string, product models.Product) (*models.Product, error) {
	return s.client.UpdateProduct(ctx, id, product)
}

func (s *productService) Delete(ctx context.Context, id string) error {
	return s.client.DeleteProduct(ctx, id)
}
