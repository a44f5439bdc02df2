package http

import "time"

// CreateOrderRequest is the order creation payload.
type CreateOrderRequest struct {
	CustomerID string                   `json:"customerId"`
	Items      []CreateOrderItemRequest `json:"items"`
}

// CreateOrderItemRequest is one order line in the creation payload.
type CreateOrderItemRequest struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// CreateOrderResponse carries the identifier of the created order.
type CreateOrderResponse struct {
	OrderID string `json:"orderId"`
}

// TransitionStageRequest is the transition payload. The flat shape carries
// targetStage directly; event-bus callers wrap it in a detail envelope.
type TransitionStageRequest struct {
	TargetStage string                 `json:"targetStage"`
	Detail      *TransitionStageDetail `json:"detail"`
}

// TransitionStageDetail is the nested event envelope payload.
type TransitionStageDetail struct {
	OrderID     string `json:"orderId"`
	TargetStage string `json:"targetStage"`
}

// TransitionStageResponse reports the outcome of a transition request.
// AlreadyCompleted marks an absorbed duplicate.
type TransitionStageResponse struct {
	OrderID          string `json:"orderId"`
	Stage            string `json:"stage"`
	AlreadyCompleted bool   `json:"alreadyCompleted"`
}

// CreateCustomerRequest is the customer registration payload.
type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CreateCustomerResponse carries the identifier of the registered customer.
type CreateCustomerResponse struct {
	CustomerID string `json:"customerId"`
}

// CustomerResponse is the customer read model on the wire.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// OrderItemResponse is one order line on the wire. Prices are floats here
// only; storage and domain keep them fixed-point.
type OrderItemResponse struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// OrderResponse is the order read model on the wire.
type OrderResponse struct {
	ID           string              `json:"id"`
	CurrentStage string              `json:"currentStage"`
	Status       string              `json:"status"`
	Total        float64             `json:"total"`
	CreatedAt    time.Time           `json:"createdAt"`
	Items        []OrderItemResponse `json:"items"`
}

// StepRecordResponse is one ledger row on the wire.
type StepRecordResponse struct {
	Stage      string     `json:"stage"`
	State      string     `json:"state"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// OrderHistoryResponse is the step ledger of one order on the wire.
type OrderHistoryResponse struct {
	OrderID      string               `json:"orderId"`
	CurrentStage string               `json:"currentStage"`
	Records      []StepRecordResponse `json:"records"`
}

// ErrorResponse is the error body for every failed request.
type ErrorResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}
