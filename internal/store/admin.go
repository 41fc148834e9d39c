package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/SergeyParamoshkin/sportsnews/internal/model"
	"gorm.io/gorm"
)

type AdminStore struct {
	db *gorm.DB
}

func NewAdminStore(db *gorm.DB) *AdminStore {
	return &AdminStore{db: db}
}

func (s *AdminStore) Create(ctx context.Context, admin *model.Admin) error {
	err := s.db.WithContext(ctx).Create(admin).Error

	return duplicate(err, "username", admin.Username)
}

func (s *AdminStore) GetByID(ctx context.Context, id string) (*model.Admin, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	return s.first(ctx, "id = ?", id)
}

func (s *AdminStore) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	return s.first(ctx, "username = ?", username)
}

func (s *AdminStore) List(ctx context.Context) ([]model.Admin, error) {
	var admins []model.Admin
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&admins).Error; err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}

	return admins, nil
}

func (s *AdminStore) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Admin{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}

	return total, nil
}

func (s *AdminStore) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	res := s.db.WithContext(ctx).Delete(&model.Admin{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete admin: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAdminNotFound
	}

	return nil
}

func (s *AdminStore) first(ctx context.Context, cond string, arg interface{}) (*model.Admin, error) {
	var admin model.Admin
	err := s.db.WithContext(ctx).Where(cond, arg).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get admin: %w", err)
	}

	return &admin, nil
}
