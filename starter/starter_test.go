package main

import (
	"os"
	"path/filepath"
	"testing"

	"laundry-order-system/models"
	"laundry-order-system/pricing"
	"laundry-order-system/workflows"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSignal(t *testing.T) {
	tests := []struct {
		name    string
		signal  string
		payload string
		want    any
		wantErr bool
	}{
		{
			name:    "advance status",
			signal:  workflows.SignalAdvanceStatus,
			payload: `{"nextStatus":"pendingPickup"}`,
			want:    models.StatusChange{NextStatus: models.OrderStatusPendingPickup},
		},
		{
			name:    "cancel with plain text reason",
			signal:  workflows.SignalCancel,
			payload: "Клиентът се отказа",
			want:    "Клиентът се отказа",
		},
		{
			name:    "cancel with JSON string reason",
			signal:  workflows.SignalCancel,
			payload: `"duplicate"`,
			want:    "duplicate",
		},
		{
			name:   "refresh without payload",
			signal: workflows.SignalRefresh,
			want:   "",
		},
		{
			name:    "item washing",
			signal:  workflows.SignalCompleteItemWashing,
			payload: `{"item_id":"it-1"}`,
			want:    models.ItemWashing{ItemID: "it-1"},
		},
		{
			name:    "delivery confirmation",
			signal:  workflows.SignalConfirmDelivery,
			payload: `{"paid_amount":23.7,"delivered_items":["it-1"]}`,
			want:    models.DeliveryConfirmation{PaidAmount: 23.7, DeliveredItems: []string{"it-1"}},
		},
		{
			name:    "unknown signal",
			signal:  "expedite",
			payload: "{}",
			wantErr: true,
		},
		{
			name:    "missing payload",
			signal:  workflows.SignalUpsertItem,
			wantErr: true,
		},
		{
			name:    "unknown field",
			signal:  workflows.SignalDeliveryData,
			payload: `{"deliveryAddressId":"a-1","colour":"red"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSignal(tt.signal, tt.payload)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStatuses(t *testing.T) {
	got, err := parseStatuses("pendingPickup, pendingDelivery@2026-10-18,")
	require.NoError(t, err)
	assert.Equal(t, []models.OrderStatusFilter{
		{Status: models.OrderStatusPendingPickup},
		{Status: models.OrderStatusPendingDelivery, Date: "2026-10-18"},
	}, got)

	_, err = parseStatuses("shipped")
	assert.Error(t, err)

	_, err = parseStatuses("pendingPickup@tomorrow")
	assert.Error(t, err)

	got, err = parseStatuses("")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWorkflowInput(t *testing.T) {
	t.Run("attach", func(t *testing.T) {
		in, err := workflowInput("", "o-1")
		require.NoError(t, err)
		assert.Equal(t, models.OrderWorkflowInput{OrderID: "o-1"}, in)
		assert.Equal(t, "order-o-1", workflowIDFor(in))
	})

	t.Run("create from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "order.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"pickupAddressId":"a-1","isExpress":true,"orderItems":[{"productId":"machine","width":2,"height":1.5}]}`), 0o600))

		in, err := workflowInput(path, "")
		require.NoError(t, err)
		require.NotNil(t, in.Create)
		assert.Equal(t, "a-1", in.Create.PickupAddressID)
		assert.True(t, in.Create.IsExpress)
		require.Len(t, in.Create.OrderItems, 1)
		assert.Contains(t, workflowIDFor(in), "order-new-")
	})

	t.Run("both", func(t *testing.T) {
		_, err := workflowInput("order.json", "o-1")
		assert.Error(t, err)
	})

	t.Run("neither", func(t *testing.T) {
		_, err := workflowInput("", "")
		assert.Error(t, err)
	})
}

func TestDescribeQuote(t *testing.T) {
	products := []models.Product{{ID: "machine", Name: "Машинно пране", Price: 7.90}}
	w, h := 2.0, 1.5

	item, err := pricing.Quote(products, models.OrderItemDraft{ProductID: "machine", Width: &w, Height: &h}, false)
	require.NoError(t, err)
	assert.Equal(t, "Машинно пране, 2.00 x 1.50 м: 3.00 x 7.90 лв. = 23.70 лв.", describeQuote(products, item))
}
