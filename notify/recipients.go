package notify

import (
	"fmt"

	"food-delivery-orders/models"
)

// Parties are the users involved in one order. Restaurants are addressed
// through their owner's user id.
type Parties struct {
	CustomerID        string
	RestaurantOwnerID string
	DeliveryPersonID  string
}

type Recipient struct {
	ID   string
	Role models.UserRole
}

// Recipients returns who hears about an order entering status. Empty party
// ids are skipped.
func Recipients(status models.OrderStatus, p Parties) []Recipient {
	customer := Recipient{ID: p.CustomerID, Role: models.RoleCustomer}
	restaurant := Recipient{ID: p.RestaurantOwnerID, Role: models.RoleRestaurant}
	driver := Recipient{ID: p.DeliveryPersonID, Role: models.RoleDriver}

	var out []Recipient
	switch status {
	case models.StatusPending:
		out = []Recipient{restaurant}
	case models.StatusAcceptedByRestaurant, models.StatusRejectedByRestaurant, models.StatusReadyForDelivery:
		out = []Recipient{customer}
	case models.StatusAcceptedByDelivery, models.StatusInDelivery, models.StatusDelivered:
		out = []Recipient{customer, restaurant}
	case models.StatusCancelled:
		out = []Recipient{restaurant, driver}
	}

	kept := out[:0]
	for _, r := range out {
		if r.ID != "" {
			kept = append(kept, r)
		}
	}
	return kept
}

var statusPhrases = map[models.OrderStatus]string{
	models.StatusPending:              "was placed and is waiting for the restaurant",
	models.StatusAcceptedByRestaurant: "was accepted by the restaurant",
	models.StatusRejectedByRestaurant: "was rejected by the restaurant",
	models.StatusReadyForDelivery:     "is ready for delivery",
	models.StatusAcceptedByDelivery:   "was accepted by a driver",
	models.StatusInDelivery:           "is on its way",
	models.StatusDelivered:            "was delivered",
	models.StatusCancelled:            "was cancelled by the customer",
}

// Message renders the notification text for the order's current status.
func Message(order *models.Order) string {
	phrase, ok := statusPhrases[order.Status]
	if !ok {
		phrase = "changed status to " + string(order.Status)
	}
	if order.RestaurantName != "" {
		return fmt.Sprintf("Order %s from %s %s", shortID(order.ID), order.RestaurantName, phrase)
	}
	return fmt.Sprintf("Order %s %s", shortID(order.ID), phrase)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
