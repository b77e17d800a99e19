package responder

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-chat/internal/model"
)

type fakeOrderLookup struct {
	orders map[string]*model.Order
	err    error
	block  bool
}

func (f *fakeOrderLookup) GetOrderByID(ctx context.Context, id string) (*model.Order, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.orders[id], nil
}

func shippedOrder() *model.Order {
	return &model.Order{
		ID:            "ord-12345",
		Status:        model.OrderStatusShipped,
		PaymentStatus: "paid",
		Total:         decimal.RequireFromString("2500.50"),
		CreatedAt:     time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
	}
}

func TestOrderStatusResponder_Found(t *testing.T) {
	lookup := &fakeOrderLookup{orders: map[string]*model.Order{"ord-12345": shippedOrder()}}
	r := NewOrderStatusResponder(lookup, time.Second, nil)

	reply := r.Respond(context.Background(), "ord-12345")
	text := reply.Text()

	assert.Contains(t, text, "shipped")
	assert.Contains(t, reply.Lines, "Total: PKR 2500.5")
	assert.Contains(t, reply.Lines, "Order Date: 3/5/2024")
	assert.Contains(t, reply.Lines, "Payment Status: paid")
	assert.Equal(t, orderStatusNotes[model.OrderStatusShipped], reply.Lines[len(reply.Lines)-1])
}

func TestOrderStatusResponder_NotFound(t *testing.T) {
	r := NewOrderStatusResponder(&fakeOrderLookup{}, time.Second, nil)

	reply := r.Respond(context.Background(), "ord-99999")

	assert.Equal(t, `I couldn't find an order with ID "ord-99999". Please check your order number and try again.`, reply.Text())
}

func TestOrderStatusResponder_LookupErrorBecomesApology(t *testing.T) {
	r := NewOrderStatusResponder(&fakeOrderLookup{err: errors.New("db down")}, time.Second, nil)

	reply := r.Respond(context.Background(), "ord-12345")

	assert.Equal(t, orderLookupFailed, reply.Text())
}

func TestOrderStatusResponder_TimeoutBecomesApology(t *testing.T) {
	r := NewOrderStatusResponder(&fakeOrderLookup{block: true}, 20*time.Millisecond, nil)

	start := time.Now()
	reply := r.Respond(context.Background(), "ord-12345")

	assert.Equal(t, orderLookupFailed, reply.Text())
	assert.Less(t, time.Since(start), time.Second)
}

func TestFormatOrderStatus_UnknownStatus(t *testing.T) {
	order := shippedOrder()
	order.Status = "on_hold"

	reply := FormatOrderStatus(order)

	require.NotEmpty(t, reply.Lines)
	assert.Equal(t, "Current status: on_hold", reply.Lines[len(reply.Lines)-1])
	assert.True(t, strings.HasPrefix(reply.Text(), "Here are the details"))
}
