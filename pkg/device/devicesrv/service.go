package devicesrv

import (
	"context"

	"github.com/LuisIslasAcosta/apiVini/pkg/device"
	"github.com/LuisIslasAcosta/apiVini/pkg/identity"
	"github.com/LuisIslasAcosta/apiVini/pkg/kernel"
)

// Service implements the assistive-unit operations. It checks owner
// existence through the identity repository before assigning a unit.
type Service struct {
	repo       device.Repository
	identities identity.Repository
}

func NewService(repo device.Repository, identities identity.Repository) *Service {
	return &Service{repo: repo, identities: identities}
}

// Register assigns a unit to an existing identity and returns the new id.
// An unknown owner answers not-found before anything is written.
func (s *Service) Register(ctx context.Context, req device.CreateRequest) (int64, error) {
	if req.IdentityID == 0 || req.Modelo == "" {
		return 0, device.ErrMissingFields()
	}

	if _, err := s.identities.FindByID(ctx, kernel.NewIdentityID(req.IdentityID)); err != nil {
		return 0, err
	}

	return s.repo.Create(ctx, req)
}

// List returns every unit; an empty catalog answers not-found, keeping the
// original API contract.
func (s *Service) List(ctx context.Context) ([]device.Device, error) {
	devices, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, device.ErrNotFound()
	}
	return devices, nil
}

// Remove deletes a unit after confirming it exists.
func (s *Service) Remove(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
