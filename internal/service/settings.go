package service

import (
	"context"
	"fmt"

	"github.com/kzl/storefront-api/internal/dto"
	"github.com/kzl/storefront-api/internal/model"
	"github.com/kzl/storefront-api/internal/repository"
)

// SettingsService exposes the shop branding singleton every client reads to
// theme its header.
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

func (s *SettingsService) Get(ctx context.Context) (*dto.SettingsResponse, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &dto.SettingsResponse{
		ShopName:  settings.ShopName,
		LogoURL:   settings.LogoURL,
		SplashURL: settings.SplashURL,
	}, nil
}

func (s *SettingsService) Update(ctx context.Context, req dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	settings := &model.Settings{
		ShopName:  req.ShopName,
		LogoURL:   req.LogoURL,
		SplashURL: req.SplashURL,
	}
	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}
	return &dto.SettingsResponse{
		ShopName:  settings.ShopName,
		LogoURL:   settings.LogoURL,
		SplashURL: settings.SplashURL,
	}, nil
}
