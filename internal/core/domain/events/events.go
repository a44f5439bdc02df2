// Package events defines the typed domain events published to the event sink.
// Every event carries the order identifier and a discriminator so downstream
// consumers (notifications, dashboards, workflow rules) can route without
// inspecting payloads.
//
// Delivery is at-least-once with no ordering guarantee; consumers must
// tolerate duplicates and out-of-order arrival. Monetary amounts are
// fixed-point inside the domain and converted to floating point exactly once,
// in the constructors here — never anywhere else.
package events

import (
	"time"

	"fulfillment/internal/core/domain/model/order"
)

// Event type discriminators, carried as the DetailType of every published event.
const (
	TypeOrderCreated   = "OrderCreated"
	TypeStageStarted   = "StageStarted"
	TypeStageCompleted = "StageCompleted"
	TypeOrderDelivered = "OrderDelivered"
)

// DomainEvent is implemented by every event published to the sink.
type DomainEvent interface {
	// EventType returns the discriminator for routing.
	EventType() string

	// AggregateID returns the order identifier; used as the partition key so
	// events for one order land on one partition.
	AggregateID() string
}

// EventItem is the wire form of an order line. UnitPrice is floating point:
// acceptable for display consumers, never written back to storage.
type EventItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// OrderCreated announces a newly persisted order. Published by order creation
// only after the durable commit, so consumers never see phantom orders.
type OrderCreated struct {
	OrderID    string      `json:"orderId"`
	TenantID   string      `json:"tenant"`
	CustomerID string      `json:"customerId"`
	Total      float64     `json:"total"`
	Items      []EventItem `json:"items"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// NewOrderCreated builds the creation event from the persisted aggregate.
// This is one of the two places fixed-point amounts become floats.
func NewOrderCreated(o *order.Order) OrderCreated {
	items := make([]EventItem, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, EventItem{
			ProductID: item.ProductID(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().Float64(),
		})
	}

	return OrderCreated{
		OrderID:    o.ID().String(),
		TenantID:   o.TenantID(),
		CustomerID: o.CustomerID().String(),
		Total:      o.Total().Float64(),
		Items:      items,
		CreatedAt:  o.CreatedAt(),
	}
}

func (e OrderCreated) EventType() string   { return TypeOrderCreated }
func (e OrderCreated) AggregateID() string { return e.OrderID }

// StageStarted announces that stage work began for an order.
type StageStarted struct {
	OrderID string `json:"orderId"`
	Stage   string `json:"stage"`
}

// NewStageStarted builds the stage-start event.
func NewStageStarted(orderID string, stage order.Stage) StageStarted {
	return StageStarted{OrderID: orderID, Stage: stage.String()}
}

func (e StageStarted) EventType() string   { return TypeStageStarted }
func (e StageStarted) AggregateID() string { return e.OrderID }

// StageCompleted announces that stage work finished for an order.
type StageCompleted struct {
	OrderID    string    `json:"orderId"`
	Stage      string    `json:"stage"`
	FinishedAt time.Time `json:"finishedAt"`
}

// NewStageCompleted builds the stage-completion event.
func NewStageCompleted(orderID string, stage order.Stage, finishedAt time.Time) StageCompleted {
	return StageCompleted{OrderID: orderID, Stage: stage.String(), FinishedAt: finishedAt}
}

func (e StageCompleted) EventType() string   { return TypeStageCompleted }
func (e StageCompleted) AggregateID() string { return e.OrderID }

// OrderDelivered announces the terminal transition. Emitted in addition to
// the DELIVERED StageCompleted event.
type OrderDelivered struct {
	OrderID     string    `json:"orderId"`
	DeliveredAt time.Time `json:"deliveredAt"`
}

// NewOrderDelivered builds the delivery event.
func NewOrderDelivered(orderID string, deliveredAt time.Time) OrderDelivered {
	return OrderDelivered{OrderID: orderID, DeliveredAt: deliveredAt}
}

func (e OrderDelivered) EventType() string   { return TypeOrderDelivered }
func (e OrderDelivered) AggregateID() string { return e.OrderID }
