package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"PerfumeStoreAPI/internal/model"
	"PerfumeStoreAPI/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePerfumeStore struct {
	getErr   error
	photoErr error
	perfume  *model.Perfume
}

func (f *fakePerfumeStore) List(ctx context.Context) ([]model.PerfumeListing, error) {
	return nil, nil
}

func (f *fakePerfumeStore) GetByID(ctx context.Context, id int64) (*model.Perfume, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.perfume, nil
}

func (f *fakePerfumeStore) GetPhoto(ctx context.Context, id int64) ([]byte, error) {
	if f.photoErr != nil {
		return nil, f.photoErr
	}
	return []byte{0xFF, 0xD8}, nil
}

func (f *fakePerfumeStore) Create(ctx context.Context, p *model.Perfume) (int64, error) {
	return 1, nil
}

func (f *fakePerfumeStore) Update(ctx context.Context, p *model.Perfume) error {
	return f.getErr
}

func (f *fakePerfumeStore) Delete(ctx context.Context, id int64) error {
	return f.getErr
}

func TestGetMissingPerfumeIs404(t *testing.T) {
	svc := NewPerfumeService(&fakePerfumeStore{getErr: repository.ErrPerfumeNotFound}, zap.NewNop())

	_, err := svc.Get(context.Background(), 9)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
	assert.Equal(t, "Perfume not found", apiErr.Message)
}

func TestGetStoreFailureStaysInternal(t *testing.T) {
	storeErr := errors.New("dial tcp: connection refused")
	svc := NewPerfumeService(&fakePerfumeStore{getErr: storeErr}, zap.NewNop())

	_, err := svc.Get(context.Background(), 9)
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.ErrorIs(t, err, storeErr)
}

func TestPhotoMissingIs404(t *testing.T) {
	svc := NewPerfumeService(&fakePerfumeStore{photoErr: repository.ErrPhotoNotFound}, zap.NewNop())

	_, err := svc.PhotoDataURL(context.Background(), 9)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
	assert.Equal(t, "Photo not found", apiErr.Message)
}

func TestPhotoDataURLShape(t *testing.T) {
	svc := NewPerfumeService(&fakePerfumeStore{}, zap.NewNop())

	url, err := svc.PhotoDataURL(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/jpeg;base64,"))
}

func TestUpdateMissingPerfumeIs404(t *testing.T) {
	svc := NewPerfumeService(&fakePerfumeStore{getErr: repository.ErrPerfumeNotFound}, zap.NewNop())

	err := svc.Update(context.Background(), &model.Perfume{ID: 9, Name: "Oud Royale", Price: 75})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
	assert.Equal(t, "Perfume not found", apiErr.Message)
}
