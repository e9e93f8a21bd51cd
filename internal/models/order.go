package models

// Order is the submission payload sent to the spreadsheet backend.
// Field names match the backend's column mapping and must not change.
type Order struct {
	RestaurantName  string      `json:"restaurantName"`
	StudentName     string      `json:"studentName"`
	MealID          string      `json:"mealId"`
	MealName        string      `json:"mealName"`
	MealPrice       int         `json:"mealPrice"`
	MealQuantity    int         `json:"mealQuantity"`
	MealSubtotal    int         `json:"mealSubtotal"`
	SelectedOptions []string    `json:"selectedOptions"`
	SelectedAddons  []AddonItem `json:"selectedAddons"`
	AddonsTotal     int         `json:"addonsTotal"`
	TotalAmount     int         `json:"totalAmount"`
	Timestamp       string      `json:"timestamp"`
}

// NotificationType is the kind of transient message shown to the user
type NotificationType string

const (
	NotificationNone    NotificationType = ""
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

// Notification is a transient message for the ordering form
type Notification struct {
	Type    NotificationType `json:"type,omitempty"`
	Message string           `json:"message"`
}
