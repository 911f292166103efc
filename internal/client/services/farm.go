package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/agritrack/agritrack-cli/internal/client/api"
	"github.com/agritrack/agritrack-cli/internal/client/models"
	"github.com/agritrack/agritrack-cli/internal/common"
	"github.com/agritrack/agritrack-cli/internal/logging"
)

// FarmService wraps farm CRUD. The backend enforces who may write; the client
// only checks the fields the backend would reject anyway.
type FarmService interface {
	List(ctx context.Context) ([]models.Farm, error)
	Create(ctx context.Context, farm models.Farm) (*models.Farm, error)
	Update(ctx context.Context, id string, farm models.Farm) (*models.Farm, error)
	Delete(ctx context.Context, id string) error
}

type farmService struct {
	client api.Client
	log    logging.Logger
}

func NewFarmService(client api.Client, log logging.Logger) FarmService {
	return &farmService{client: client, log: log}
}

func (s *farmService) List(ctx context.Context) ([]models.Farm, error) {
	return s.client.GetFarms(ctx)
}

func (s *farmService) Create(ctx context.Context, farm models.Farm) (*models.Farm, error) {
	if err := validateFarm(farm); err != nil {
		return nil, err
	}
	return s.client.CreateFarm(ctx, farm)
}

func (s *farmService) Update(ctx context.Context, id string, farm models.Farm) (*models.Farm, error) {
	if err := validateFarm(farm); err != nil {
		return nil, err
	}
	return s.client.UpdateFarm(ctx, id, farm)
}

func (s *farmService) Delete(ctx context.Context, id string) error {
	return s.client.DeleteFarm(ctx, id)
}

func validateFarm(farm models.Farm) error {
	if strings.TrimSpace(farm.Name) == "" {
		return fmt.Errorf("%w: farm name is required", common.ErrValidation)
	}
	if strings.TrimSpace(farm.Location) == "" {
		return fmt.Errorf("%w: location is required", common.ErrValidation)
	}
	if strings.TrimSpace(farm.Owner) == "" {
		return fmt.Errorf("%w: owner is required", common.ErrValidation)
	}
	return nil
}
