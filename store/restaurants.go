package store

import (
	"context"

	"food-delivery-orders/models"

	"gorm.io/gorm"
)

type RestaurantStore struct {
	db *gorm.DB
}

func NewRestaurantStore(db *gorm.DB) *RestaurantStore {
	return &RestaurantStore{db: db}
}

type RestaurantFilter struct {
	Cuisine  string
	Search   string
	OpenOnly bool
}

type MenuFilter struct {
	Category      string
	AvailableOnly bool
}

func (s *RestaurantStore) Create(ctx context.Context, r *models.Restaurant) error {
	return classify("create restaurant", s.db.WithContext(ctx).Create(r).Error)
}

func (s *RestaurantStore) Get(ctx context.Context, id string) (*models.Restaurant, error) {
	var r models.Restaurant
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, notFound("restaurant", id, err)
	}
	return &r, nil
}

func (s *RestaurantStore) List(ctx context.Context, filter RestaurantFilter) ([]models.Restaurant, error) {
	var out []models.Restaurant
	q := s.db.WithContext(ctx)
	if filter.Cuisine != "" {
		q = q.Where("cuisine LIKE ?", "%"+filter.Cuisine+"%")
	}
	if filter.Search != "" {
		q = q.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	if filter.OpenOnly {
		q = q.Where("is_open = ?", true)
	}
	err := q.Order("name ASC").Find(&out).Error
	return out, classify("list restaurants", err)
}

// Update applies column updates; callers restrict the column set.
func (s *RestaurantStore) Update(ctx context.Context, id string, columns map[string]any) (*models.Restaurant, error) {
	if len(columns) > 0 {
		err := s.db.WithContext(ctx).Model(&models.Restaurant{}).Where("id = ?", id).Updates(columns).Error
		if err != nil {
			return nil, classify("update restaurant", err)
		}
	}
	return s.Get(ctx, id)
}

func (s *RestaurantStore) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	return classify("create menu item", s.db.WithContext(ctx).Create(item).Error)
}

func (s *RestaurantStore) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, notFound("menu item", id, err)
	}
	return &item, nil
}

func (s *RestaurantStore) ListMenu(ctx context.Context, restaurantID string, filter MenuFilter) ([]models.MenuItem, error) {
	var out []models.MenuItem
	q := s.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID)
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.AvailableOnly {
		q = q.Where("is_available = ?", true)
	}
	err := q.Order("name ASC").Find(&out).Error
	return out, classify("list menu", err)
}

func (s *RestaurantStore) UpdateMenuItem(ctx context.Context, id string, columns map[string]any) (*models.MenuItem, error) {
	if len(columns) > 0 {
		err := s.db.WithContext(ctx).Model(&models.MenuItem{}).Where("id = ?", id).Updates(columns).Error
		if err != nil {
			return nil, classify("update menu item", err)
		}
	}
	return s.GetMenuItem(ctx, id)
}

// DeleteMenuItem hard-deletes the item. Placed orders keep their snapshot.
func (s *RestaurantStore) DeleteMenuItem(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.MenuItem{}, "id = ?", id)
	if res.Error != nil {
		return classify("delete menu item", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("menu item", id, gorm.ErrRecordNotFound)
	}
	return nil
}
