package services

import (
	"context"
	"encoding/base64"
	"errors"

	"PerfumeStoreAPI/internal/model"
	"PerfumeStoreAPI/internal/repository"

	"go.uber.org/zap"
)

// PerfumeStore is the catalog persistence surface. The concrete
// implementation is repository.PerfumeRepository.
type PerfumeStore interface {
	List(ctx context.Context) ([]model.PerfumeListing, error)
	GetByID(ctx context.Context, id int64) (*model.Perfume, error)
	GetPhoto(ctx context.Context, id int64) ([]byte, error)
	Create(ctx context.Context, p *model.Perfume) (int64, error)
	Update(ctx context.Context, p *model.Perfume) error
	Delete(ctx context.Context, id int64) error
}

type PerfumeService struct {
	Repo   PerfumeStore
	Logger *zap.Logger
}

func NewPerfumeService(r PerfumeStore, logger *zap.Logger) *PerfumeService {
	return &PerfumeService{Repo: r, Logger: logger}
}

func (s *PerfumeService) List(ctx context.Context) ([]model.PerfumeListing, error) {
	return s.Repo.List(ctx)
}

func (s *PerfumeService) Get(ctx context.Context, id int64) (*model.Perfume, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPerfumeNotFound) {
			return nil, notFoundf("Perfume not found")
		}
		return nil, err
	}
	return p, nil
}

// PhotoDataURL returns the stored photo as a data URL string.
func (s *PerfumeService) PhotoDataURL(ctx context.Context, id int64) (string, error) {
	photo, err := s.Repo.GetPhoto(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPhotoNotFound) {
			return "", notFoundf("Photo not found")
		}
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(photo), nil
}

func (s *PerfumeService) Create(ctx context.Context, p *model.Perfume) (int64, error) {
	if p.Name == "" {
		return 0, badRequestf("Name is required")
	}
	if p.Price <= 0 {
		return 0, badRequestf("Price must be positive")
	}
	if p.Quantity < 0 {
		return 0, badRequestf("Quantity cannot be negative")
	}
	id, err := s.Repo.Create(ctx, p)
	if err != nil {
		return 0, err
	}
	s.Logger.Info("perfume created", zap.Int64("id", id), zap.String("name", p.Name))
	return id, nil
}

func (s *PerfumeService) Update(ctx context.Context, p *model.Perfume) error {
	if p.Name == "" {
		return badRequestf("Name is required")
	}
	if p.Price <= 0 {
		return badRequestf("Price must be positive")
	}
	if p.Quantity < 0 {
		return badRequestf("Quantity cannot be negative")
	}
	if err := s.Repo.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrPerfumeNotFound) {
			return notFoundf("Perfume not found")
		}
		return err
	}
	return nil
}

func (s *PerfumeService) Delete(ctx context.Context, id int64) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPerfumeNotFound) {
			return notFoundf("Perfume not found")
		}
		return err
	}
	return nil
}
