// Package authz holds the single capability check used by every endpoint:
// may actor X with role R perform action A on resource Y.
package authz

import (
	"fmt"

	"food-delivery-orders/apperrors"
	"food-delivery-orders/models"
)

type Actor struct {
	ID   string
	Role models.UserRole
}

type Action string

const (
	ActionPlaceOrder          Action = "order.place"
	ActionViewOrder           Action = "order.view"
	ActionViewCustomerHistory Action = "order.view_customer_history"
	ActionViewRestaurantQueue Action = "order.view_restaurant_queue"
	ActionViewDeliveryPool    Action = "order.view_delivery_pool"
	ActionViewDriverOrders    Action = "order.view_driver_orders"
	ActionTransitionOrder     Action = "order.transition"
	ActionClaimOrder          Action = "order.claim"
	ActionReadNotifications   Action = "notification.read"
	ActionManageRestaurant    Action = "restaurant.manage"
	ActionAdminView           Action = "admin.view"
)

// Resource carries the ownership facts a rule may need. Fields that do not
// apply to an action are left empty.
type Resource struct {
	CustomerID        string
	RestaurantOwnerID string
	DeliveryPersonID  string
	RecipientID       string
}

type rule func(Actor, Resource) bool

var rules = map[Action]rule{
	ActionPlaceOrder: func(a Actor, r Resource) bool {
		return a.Role == models.RoleCustomer && a.ID == r.CustomerID
	},
	ActionViewOrder: func(a Actor, r Resource) bool {
		return isAdmin(a) || isCustomer(a, r) || isRestaurantOwner(a, r) || isAssignedDriver(a, r)
	},
	ActionViewCustomerHistory: func(a Actor, r Resource) bool {
		return isAdmin(a) || isCustomer(a, r)
	},
	ActionViewRestaurantQueue: func(a Actor, r Resource) bool {
		return isAdmin(a) || isRestaurantOwner(a, r)
	},
	ActionViewDeliveryPool: func(a Actor, _ Resource) bool {
		return isAdmin(a) || a.Role == models.RoleDriver
	},
	ActionViewDriverOrders: func(a Actor, r Resource) bool {
		return isAdmin(a) || isAssignedDriver(a, r)
	},
	ActionTransitionOrder: func(a Actor, r Resource) bool {
		switch a.Role {
		case models.RoleCustomer:
			return isCustomer(a, r)
		case models.RoleRestaurant:
			return isRestaurantOwner(a, r)
		case models.RoleDriver:
			return isAssignedDriver(a, r)
		}
		return false
	},
	// Any driver may try to claim; losing the race is an AssignmentConflict,
	// not a permission problem.
	ActionClaimOrder: func(a Actor, _ Resource) bool {
		return a.Role == models.RoleDriver
	},
	ActionReadNotifications: func(a Actor, r Resource) bool {
		return isAdmin(a) || (a.ID != "" && a.ID == r.RecipientID)
	},
	ActionManageRestaurant: func(a Actor, r Resource) bool {
		return isRestaurantOwner(a, r)
	},
	ActionAdminView: func(a Actor, _ Resource) bool {
		return isAdmin(a)
	},
}

// Can returns nil when the actor is allowed, or a Forbidden error.
func Can(actor Actor, action Action, resource Resource) error {
	allow, ok := rules[action]
	if !ok || !allow(actor, resource) {
		return apperrors.NewForbiddenError(fmt.Sprintf("%s %q may not perform %s", actor.Role, actor.ID, action))
	}
	return nil
}

func isAdmin(a Actor) bool {
	return a.Role == models.RoleAdmin
}

func isCustomer(a Actor, r Resource) bool {
	return a.Role == models.RoleCustomer && a.ID != "" && a.ID == r.CustomerID
}

func isRestaurantOwner(a Actor, r Resource) bool {
	return a.Role == models.RoleRestaurant && a.ID != "" && a.ID == r.RestaurantOwnerID
}

func isAssignedDriver(a Actor, r Resource) bool {
	return a.Role == models.RoleDriver && a.ID != "" && a.ID == r.DeliveryPersonID
}
