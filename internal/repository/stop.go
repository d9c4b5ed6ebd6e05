package repository

import (
	"context"
	"errors"

	"waypoint/internal/models"

	"gorm.io/gorm"
)

// StopRepository defines persistence operations for itinerary stops.
type StopRepository interface {
	Create(ctx context.Context, stop *models.Stop) error
	GetByID(ctx context.Context, id uint) (*models.Stop, error)
	ListForGroup(ctx context.Context, groupID uint) ([]models.Stop, error)
	Update(ctx context.Context, stop *models.Stop) error
	Delete(ctx context.Context, id uint) error
	AddFile(ctx context.Context, file *models.StopFile) error
	DeleteFile(ctx context.Context, id uint) error
}

type stopRepository struct {
	db *gorm.DB
}

// NewStopRepository returns a new StopRepository implementation.
func NewStopRepository(db *gorm.DB) StopRepository {
	return &stopRepository{db: db}
}

func (r *stopRepository) Create(ctx context.Context, stop *models.Stop) error {
	if err := r.db.WithContext(ctx).Create(stop).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *stopRepository) GetByID(ctx context.Context, id uint) (*models.Stop, error) {
	var stop models.Stop
	if err := r.db.WithContext(ctx).
		Preload("Files").
		First(&stop, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Stop", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &stop, nil
}

func (r *stopRepository) ListForGroup(ctx context.Context, groupID uint) ([]models.Stop, error) {
	var stops []models.Stop
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Preload("Files").
		Order("start_time ASC, id ASC").
		Find(&stops).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return stops, nil
}

func (r *stopRepository) Update(ctx context.Context, stop *models.Stop) error {
	if err := r.db.WithContext(ctx).Save(stop).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *stopRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("stop_id = ?", id).Delete(&models.StopFile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Stop{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *stopRepository) AddFile(ctx context.Context, file *models.StopFile) error {
	if err := r.db.WithContext(ctx).Create(file).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *stopRepository) DeleteFile(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.StopFile{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
