package models

type DeliveryMethod string

const (
	DeliveryPickup  DeliveryMethod = "pickup"
	DeliveryCourier DeliveryMethod = "courier"
	DeliveryCDEK    DeliveryMethod = "cdek"
)

var deliveryLabels = map[DeliveryMethod]string{
	DeliveryPickup:  "Самовывоз",
	DeliveryCourier: "Курьер",
	DeliveryCDEK:    "СДЭК",
}

func DeliveryMethods() []DeliveryMethod {
	return []DeliveryMethod{DeliveryPickup, DeliveryCourier, DeliveryCDEK}
}

// Label is the display name shown on the confirmation screen.
func (d DeliveryMethod) Label() string {
	if label, ok := deliveryLabels[d]; ok {
		return label
	}

	return string(d)
}

func (d DeliveryMethod) Valid() bool {
	_, ok := deliveryLabels[d]

	return ok
}

func (d DeliveryMethod) RequiresAddress() bool {
	return d != DeliveryPickup
}

type OrderRequest struct {
	CustomerName   string         `json:"customerName"`
	Phone          string         `json:"phone"`
	DeliveryMethod DeliveryMethod `json:"deliveryMethod"`
	Address        string         `json:"address,omitempty"`
	Comment        string         `json:"comment,omitempty"`
	ExpectedTotal  int64          `json:"expectedTotal"`
}

type OrderSummary struct {
	OrderID        string `json:"orderId"`
	CustomerName   string `json:"customerName"`
	DeliveryMethod string `json:"deliveryMethod"`
	Total          int64  `json:"total"`
}
