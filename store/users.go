package store

import (
	"context"

	"food-delivery-orders/models"

	"gorm.io/gorm"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	return classify("create user", s.db.WithContext(ctx).Create(u).Error)
}

func (s *UserStore) Get(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound("user", id, err)
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, notFound("user", email, err)
	}
	return &u, nil
}

func (s *UserStore) List(ctx context.Context, role models.UserRole) ([]models.User, error) {
	var out []models.User
	q := s.db.WithContext(ctx)
	if role != "" {
		q = q.Where("role = ?", role)
	}
	err := q.Order("created_at ASC").Find(&out).Error
	return out, classify("list users", err)
}
