package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devlogai/devlog-backend/internal/logger"
	"github.com/devlogai/devlog-backend/internal/types"
)

var ErrRoadmapNotFound = errors.New("roadmap not found")

type RoadmapRepo interface {
	Create(ctx context.Context, tx *gorm.DB, roadmap *types.Roadmap) (*types.Roadmap, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Roadmap, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Roadmap, error)
	Update(ctx context.Context, tx *gorm.DB, roadmap *types.Roadmap) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type roadmapRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoadmapRepo(db *gorm.DB, baseLog *logger.Logger) RoadmapRepo {
	return &roadmapRepo{db: db, log: baseLog.With("repo", "RoadmapRepo")}
}

func (rr *roadmapRepo) Create(ctx context.Context, tx *gorm.DB, roadmap *types.Roadmap) (*types.Roadmap, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if roadmap.ID == uuid.Nil {
		roadmap.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(roadmap).Error; err != nil {
		return nil, err
	}
	return roadmap, nil
}

func (rr *roadmapRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Roadmap, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var roadmap types.Roadmap
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&roadmap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoadmapNotFound
	}
	if err != nil {
		return nil, err
	}
	return &roadmap, nil
}

// List returns roadmaps newest first, matching the dashboard ordering where a
// freshly created roadmap is prepended to the collection.
func (rr *roadmapRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Roadmap, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.Roadmap
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *roadmapRepo) Update(ctx context.Context, tx *gorm.DB, roadmap *types.Roadmap) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	res := transaction.WithContext(ctx).Save(roadmap)
	if res.Error != nil {
		return res.Error
	}
	return nil
}

func (rr *roadmapRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	res := transaction.WithContext(ctx).Where("id = ?", id).Delete(&types.Roadmap{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRoadmapNotFound
	}
	return nil
}
