package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/agritrack/agritrack-cli/internal/client/models"
	"github.com/agritrack/agritrack-cli/internal/client/session"
	"github.com/agritrack/agritrack-cli/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeClient implements api.Client for service unit tests. Only the behavior
// the individual test configures is meaningful; everything else returns zero
// values.
type fakeClient struct {
	Token string

	LoginResp *models.AuthResponse
	LoginErr  error
	LastLogin models.LoginRequest

	RegisterResp *models.AuthResponse
	RegisterErr  error

	Pages    []models.ProductPage
	PagesErr error
	// ListCalls records the page numbers requested; ListDeadlines whether
	// each request context carried a deadline.
	ListCalls     []int
	ListDeadlines []bool

	SearchRet  []models.Product
	SearchErr  error
	LastFilter models.SearchFilter

	ProductRet      *models.Product
	ProductErr      error
	GetProductCalls []string

	AddStageRet   *models.Product
	AddStageErr   error
	AddStageCalls int
	LastStageID   string
	LastStage     models.StageRequest

	HistoryRet []models.TrackingStage
	HistoryErr error

	StatsRet *models.DashboardStats
	StatsErr error

	FarmsRet []models.Farm
	FarmsErr error

	CreatedFarm *models.Farm
	FarmErr     error

	DeletedIDs []string
	DeleteErr  error

	WatchErr error
	Watched  []models.Product
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) SetToken(token string) { f.Token = token }

func (f *fakeClient) Login(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	f.LastLogin = models.LoginRequest{Username: username, Password: password}
	return f.LoginResp, f.LoginErr
}

func (f *fakeClient) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	return f.RegisterResp, f.RegisterErr
}

func (f *fakeClient) GetProducts(ctx context.Context, page, size int, sortBy, sortDir string) (*models.ProductPage, error) {
	f.ListCalls = append(f.ListCalls, page)
	_, hasDeadline := ctx.Deadline()
	f.ListDeadlines = append(f.ListDeadlines, hasDeadline)
	if f.PagesErr != nil {
		return nil, f.PagesErr
	}
	if page < len(f.Pages) {
		return &f.Pages[page], nil
	}
	return &models.ProductPage{CurrentPage: page, TotalPages: len(f.Pages)}, nil
}

func (f *fakeClient) SearchProducts(ctx context.Context, filter models.SearchFilter) ([]models.Product, error) {
	f.LastFilter = filter
	return f.SearchRet, f.SearchErr
}

func (f *fakeClient) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	f.GetProductCalls = append(f.GetProductCalls, id)
	return f.ProductRet, f.ProductErr
}

func (f *fakeClient) CreateProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	return &product, nil
}

func (f *fakeClient) UpdateProduct(ctx context.Context, id string, product models.Product) (*models.Product, error) {
	return &product, nil
}

func (f *fakeClient) DeleteProduct(ctx context.Context, id string) error {
	f.DeletedIDs = append(f.DeletedIDs, id)
	return f.DeleteErr
}

func (f *fakeClient) AddTrackingStage(ctx context.Context, productID string, stage models.StageRequest) (*models.Product, error) {
	f.AddStageCalls++
	f.LastStageID = productID
	f.LastStage = stage
	return f.AddStageRet, f.AddStageErr
}

func (f *fakeClient) GetTrackingHistory(ctx context.Context, productID string) ([]models.TrackingStage, error) {
	return f.HistoryRet, f.HistoryErr
}

func (f *fakeClient) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	return f.StatsRet, f.StatsErr
}

func (f *fakeClient) GetFarms(ctx context.Context) ([]models.Farm, error) {
	return f.FarmsRet, f.FarmsErr
}

func (f *fakeClient) CreateFarm(ctx context.Context, farm models.Farm) (*models.Farm, error) {
	if f.FarmErr != nil {
		return nil, f.FarmErr
	}
	f.CreatedFarm = &farm
	return &farm, nil
}

func (f *fakeClient) UpdateFarm(ctx context.Context, id string, farm models.Farm) (*models.Farm, error) {
	if f.FarmErr != nil {
		return nil, f.FarmErr
	}
	return &farm, nil
}

func (f *fakeClient) DeleteFarm(ctx context.Context, id string) error {
	f.DeletedIDs = append(f.DeletedIDs, id)
	return f.DeleteErr
}

func (f *fakeClient) WatchProducts(ctx context.Context, fn func(models.Product)) error {
	for _, p := range f.Watched {
		fn(p)
	}
	return f.WatchErr
}

// fakeStore implements SessionStore in memory.
type fakeStore struct {
	Saved   *session.Session
	LoadRet *session.Session
	LoadErr error
	Cleared bool
}

func (f *fakeStore) Load(ctx context.Context) (*session.Session, error) {
	return f.LoadRet, f.LoadErr
}

func (f *fakeStore) Save(ctx context.Context, sess *session.Session) error {
	f.Saved = sess
	return nil
}

func (f *fakeStore) Clear(ctx context.Context) error {
	f.Cleared = true
	return nil
}
