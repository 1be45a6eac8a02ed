package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"laundry-order-system/models"
	"laundry-order-system/workflows"
)

// signalPayloads maps each order workflow signal to a constructor for its argument type
var signalPayloads = map[string]func() any{
	workflows.SignalAdvanceStatus:       func() any { return &models.StatusChange{} },
	workflows.SignalRevertStatus:        func() any { return &models.StatusChange{} },
	workflows.SignalCancel:              func() any { return new(string) },
	workflows.SignalUpsertItem:          func() any { return &models.OrderItemDraft{} },
	workflows.SignalCompleteItemWashing: func() any { return &models.ItemWashing{} },
	workflows.SignalCompleteWashing:     func() any { return new(string) },
	workflows.SignalDeliveryData:        func() any { return &models.OrderDeliveryData{} },
	workflows.SignalConfirmDelivery:     func() any { return &models.DeliveryConfirmation{} },
	workflows.SignalRefresh:             func() any { return new(string) },
}

func signalNames() string {
	names := make([]string, 0, len(signalPayloads))
	for name := range signalPayloads {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// parseSignal decodes a JSON payload into the argument type the workflow expects.
// Plain-text payloads are accepted for string signals.
func parseSignal(name, payload string) (any, error) {
	newArg, ok := signalPayloads[name]
	if !ok {
		return nil, fmt.Errorf("unknown signal %q, valid signals: %s", name, signalNames())
	}
	arg := newArg()

	if s, isString := arg.(*string); isString {
		if payload == "" || json.Unmarshal([]byte(payload), s) != nil {
			*s = payload
		}
		return *s, nil
	}

	if strings.TrimSpace(payload) == "" {
		return nil, fmt.Errorf("signal %q requires a JSON payload", name)
	}
	dec := json.NewDecoder(strings.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(arg); err != nil {
		return nil, fmt.Errorf("invalid payload for %q: %w", name, err)
	}

	switch v := arg.(type) {
	case *models.StatusChange:
		return *v, nil
	case *models.OrderItemDraft:
		return *v, nil
	case *models.ItemWashing:
		return *v, nil
	case *models.OrderDeliveryData:
		return *v, nil
	case *models.DeliveryConfirmation:
		return *v, nil
	}
	return arg, nil
}

// parseStatuses turns "pendingPickup,washingInProgress@2026-10-18" into status filters
func parseStatuses(raw string) ([]models.OrderStatusFilter, error) {
	var out []models.OrderStatusFilter
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		status, date, _ := strings.Cut(part, "@")
		s := models.OrderStatus(status)
		if !s.Valid() {
			return nil, fmt.Errorf("unknown order status %q", status)
		}
		if date != "" {
			if _, err := models.ParseDate(date); err != nil {
				return nil, err
			}
		}
		out = append(out, models.OrderStatusFilter{Status: s, Date: date})
	}
	return out, nil
}
