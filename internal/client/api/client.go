package api

import (
	"context"

	"github.com/agritrack/agritrack-cli/internal/client/models"
)

// Client is the transport-agnostic contract with the AgriTrack backend.
// Implementations map transport failures to the sentinel errors in
// internal/common so callers can match them with errors.Is.
type Client interface {
	Close() error

	// SetToken installs the bearer token injected on subsequent requests.
	// An empty token clears it.
	SetToken(token string)

	Login(ctx context.Context, username, password string) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)

	GetProducts(ctx context.Context, page, size int, sortBy, sortDir string) (*models.ProductPage, error)
	SearchProducts(ctx context.Context, filter models.SearchFilter) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, product models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, product models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	AddTrackingStage(ctx context.Context, productID string, stage models.StageRequest) (*models.Product, error)
	GetTrackingHistory(ctx context.Context, productID string) ([]models.TrackingStage, error)

	GetDashboardStats(ctx context.Context) (*models.DashboardStats, error)

	GetFarms(ctx context.Context) ([]models.Farm, error)
	CreateFarm(ctx context.Context, farm models.Farm) (*models.Farm, error)
	UpdateFarm(ctx context.Context, id string, farm models.Farm) (*models.Farm, error)
	DeleteFarm(ctx context.Context, id string) error

	// WatchProducts consumes the backend's product event stream, invoking fn
	// for every broadcast product until ctx is canceled or the stream ends.
	WatchProducts(ctx context.Context, fn func(models.Product)) error
}
