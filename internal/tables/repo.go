package tables

import (
	"context"
	"time"

	"github.com/mesaqr/mesaqr-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for table tokens.
type Repository interface {
	Create(ctx context.Context, token *models.TableToken) (*models.TableToken, error)
	List(ctx context.Context) ([]models.TableToken, error)
	FindByID(ctx context.Context, id uint) (*models.TableToken, error)
	FindByToken(ctx context.Context, token string) (*models.TableToken, error)
	Update(ctx context.Context, id uint, updates map[string]any) error
	Touch(ctx context.Context, id uint, usedAt time.Time) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a table token repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, token *models.TableToken) (*models.TableToken, error) {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return nil, err
	}
	return token, nil
}

func (r *repository) List(ctx context.Context) ([]models.TableToken, error) {
	var tokens []models.TableToken
	err := r.db.WithContext(ctx).
		Order("table_number ASC, created_at ASC").
		Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.TableToken, error) {
	var token models.TableToken
	if err := r.db.WithContext(ctx).First(&token, id).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *repository) FindByToken(ctx context.Context, token string) (*models.TableToken, error) {
	var record models.TableToken
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) Update(ctx context.Context, id uint, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.TableToken{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Touch(ctx context.Context, id uint, usedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.TableToken{}).
		Where("id = ?", id).
		Update("last_used", usedAt).Error
}
