package service

import (
	"context"
	"strings"

	"food-delivery-orders/apperrors"
	"food-delivery-orders/authz"
	"food-delivery-orders/models"
	"food-delivery-orders/store"

	"github.com/shopspring/decimal"
)

type RestaurantService struct {
	restaurants RestaurantRepository
}

func NewRestaurantService(restaurants RestaurantRepository) *RestaurantService {
	return &RestaurantService{restaurants: restaurants}
}

type RestaurantInput struct {
	Name        string
	Cuisine     string
	Address     string
	Description string
}

// RestaurantUpdate carries the fields an owner may change. Nil fields are
// left as they are.
type RestaurantUpdate struct {
	Name        *string
	Cuisine     *string
	Address     *string
	Description *string
	IsOpen      *bool
}

type MenuItemInput struct {
	Name        string
	Description string
	ImageURL    string
	Category    string
	Price       decimal.Decimal
	IsAvailable *bool
}

type MenuItemUpdate struct {
	Name        *string
	Description *string
	ImageURL    *string
	Category    *string
	Price       *decimal.Decimal
	IsAvailable *bool
}

func (s *RestaurantService) List(ctx context.Context, filter store.RestaurantFilter) ([]models.Restaurant, error) {
	return s.restaurants.List(ctx, filter)
}

func (s *RestaurantService) Get(ctx context.Context, id string) (*models.Restaurant, error) {
	return s.restaurants.Get(ctx, id)
}

func (s *RestaurantService) Menu(ctx context.Context, restaurantID string, filter store.MenuFilter) ([]models.MenuItem, error) {
	if _, err := s.restaurants.Get(ctx, restaurantID); err != nil {
		return nil, err
	}
	return s.restaurants.ListMenu(ctx, restaurantID, filter)
}

// Create registers a restaurant owned by the calling restaurant user. New
// restaurants start open.
func (s *RestaurantService) Create(ctx context.Context, actor authz.Actor, in RestaurantInput) (*models.Restaurant, error) {
	if err := authz.Can(actor, authz.ActionManageRestaurant, authz.Resource{RestaurantOwnerID: actor.ID}); err != nil {
		return nil, err
	}
	var details []apperrors.ValidationDetail
	if strings.TrimSpace(in.Name) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "is required"})
	}
	if strings.TrimSpace(in.Address) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "address", Message: "is required"})
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid restaurant", details...)
	}

	r := &models.Restaurant{
		OwnerID:     actor.ID,
		Name:        in.Name,
		Cuisine:     in.Cuisine,
		Address:     in.Address,
		Description: in.Description,
		IsOpen:      true,
	}
	if err := s.restaurants.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RestaurantService) Update(ctx context.Context, actor authz.Actor, id string, in RestaurantUpdate) (*models.Restaurant, error) {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return nil, err
	}

	columns := map[string]any{}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, apperrors.NewValidationError("invalid restaurant", apperrors.ValidationDetail{Field: "name", Message: "must not be empty"})
		}
		columns["name"] = *in.Name
	}
	if in.Cuisine != nil {
		columns["cuisine"] = *in.Cuisine
	}
	if in.Address != nil {
		columns["address"] = *in.Address
	}
	if in.Description != nil {
		columns["description"] = *in.Description
	}
	if in.IsOpen != nil {
		columns["is_open"] = *in.IsOpen
	}
	return s.restaurants.Update(ctx, id, columns)
}

func (s *RestaurantService) AddMenuItem(ctx context.Context, actor authz.Actor, restaurantID string, in MenuItemInput) (*models.MenuItem, error) {
	if _, err := s.owned(ctx, actor, restaurantID); err != nil {
		return nil, err
	}
	var details []apperrors.ValidationDetail
	if strings.TrimSpace(in.Name) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "is required"})
	}
	if !in.Price.IsPositive() {
		details = append(details, apperrors.ValidationDetail{Field: "price", Message: "must be greater than 0"})
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid menu item", details...)
	}

	item := &models.MenuItem{
		RestaurantID: restaurantID,
		Name:         in.Name,
		Description:  in.Description,
		ImageURL:     in.ImageURL,
		Category:     in.Category,
		Price:        in.Price.Round(2),
		IsAvailable:  in.IsAvailable == nil || *in.IsAvailable,
	}
	if err := s.restaurants.CreateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateMenuItem changes a menu item. Orders already placed keep the name and
// price they were placed with.
func (s *RestaurantService) UpdateMenuItem(ctx context.Context, actor authz.Actor, itemID string, in MenuItemUpdate) (*models.MenuItem, error) {
	item, err := s.restaurants.GetMenuItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, actor, item.RestaurantID); err != nil {
		return nil, err
	}

	columns := map[string]any{}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, apperrors.NewValidationError("invalid menu item", apperrors.ValidationDetail{Field: "name", Message: "must not be empty"})
		}
		columns["name"] = *in.Name
	}
	if in.Description != nil {
		columns["description"] = *in.Description
	}
	if in.ImageURL != nil {
		columns["image_url"] = *in.ImageURL
	}
	if in.Category != nil {
		columns["category"] = *in.Category
	}
	if in.Price != nil {
		if !in.Price.IsPositive() {
			return nil, apperrors.NewValidationError("invalid menu item", apperrors.ValidationDetail{Field: "price", Message: "must be greater than 0"})
		}
		columns["price"] = in.Price.Round(2)
	}
	if in.IsAvailable != nil {
		columns["is_available"] = *in.IsAvailable
	}
	return s.restaurants.UpdateMenuItem(ctx, itemID, columns)
}

func (s *RestaurantService) DeleteMenuItem(ctx context.Context, actor authz.Actor, itemID string) error {
	item, err := s.restaurants.GetMenuItem(ctx, itemID)
	if err != nil {
		return err
	}
	if _, err := s.owned(ctx, actor, item.RestaurantID); err != nil {
		return err
	}
	return s.restaurants.DeleteMenuItem(ctx, itemID)
}

func (s *RestaurantService) owned(ctx context.Context, actor authz.Actor, restaurantID string) (*models.Restaurant, error) {
	r, err := s.restaurants.Get(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if err := authz.Can(actor, authz.ActionManageRestaurant, authz.Resource{RestaurantOwnerID: r.OwnerID}); err != nil {
		return nil, err
	}
	return r, nil
}
