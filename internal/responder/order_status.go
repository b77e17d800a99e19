package responder

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"storefront-chat/internal/model"
)

// OrderLookup finds an order by id. A missing order is nil, nil.
type OrderLookup interface {
	GetOrderByID(ctx context.Context, id string) (*model.Order, error)
}

const (
	orderLookupFailed = "I'm sorry, I encountered an error while looking up your order. Please try again later or contact our support team."
	orderDateLayout   = "1/2/2006"
)

var orderStatusNotes = map[string]string{
	model.OrderStatusPending:   "Your order has been received and is waiting to be confirmed.",
	model.OrderStatusConfirmed: "Your order has been confirmed and is being prepared for shipment.",
	model.OrderStatusShipped:   "Good news! Your order has shipped and is on its way to you.",
	model.OrderStatusDelivered: "Your order has been delivered. We hope you love your jewelry!",
	model.OrderStatusCancelled: "This order has been cancelled. If this is unexpected, please contact our support team.",
}

// OrderStatusResponder turns an order id into a status report.
type OrderStatusResponder struct {
	lookup  OrderLookup
	timeout time.Duration
	logger  *zap.Logger
}

func NewOrderStatusResponder(lookup OrderLookup, timeout time.Duration, logger *zap.Logger) *OrderStatusResponder {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderStatusResponder{lookup: lookup, timeout: timeout, logger: logger}
}

// Respond never fails: lookup errors become an apology.
func (r *OrderStatusResponder) Respond(ctx context.Context, orderID string) Reply {
	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	order, err := r.lookup.GetOrderByID(lookupCtx, orderID)
	if err != nil {
		r.logger.Warn("order lookup failed", zap.String("order_id", orderID), zap.Error(err))
		return NewReply(orderLookupFailed)
	}
	if order == nil {
		return NewReply(fmt.Sprintf("I couldn't find an order with ID %q. Please check your order number and try again.", orderID))
	}
	return FormatOrderStatus(order)
}

// FormatOrderStatus renders the status report for a found order.
func FormatOrderStatus(order *model.Order) Reply {
	note, ok := orderStatusNotes[order.Status]
	if !ok {
		note = "Current status: " + order.Status
	}
	return NewReply(
		"Here are the details for your order:",
		"Order ID: "+order.ID,
		"Status: "+order.Status,
		"Payment Status: "+order.PaymentStatus,
		"Total: PKR "+order.Total.String(),
		"Order Date: "+order.CreatedAt.Format(orderDateLayout),
		"",
		note,
	)
}
