package models_test

import (
	"testing"

	"laundry-order-system/models"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhoneNumber(t *testing.T) {
	tests := []struct {
		phone    string
		optional bool
		want     bool
	}{
		{"0888123456", false, true},
		{"+359888123456", false, true},
		{" 0988123456 ", false, true},
		{"0788123456", false, false},
		{"088812345", false, false},
		{"08881234567", false, false},
		{"", false, false},
		{"", true, true},
		{"abc", true, false},
	}
	for _, tt := range tests {
		got := models.ValidatePhoneNumber(tt.phone, tt.optional)
		if got != tt.want {
			t.Errorf("ValidatePhoneNumber(%q, %v) = %v, want %v", tt.phone, tt.optional, got, tt.want)
		}
	}
}

func TestUpdateAddressValidate(t *testing.T) {
	assert.NoError(t, models.UpdateAddress{UserFullName: "Иван Петров", PhoneNumber: "0888123456"}.Validate())
	assert.ErrorContains(t, models.UpdateAddress{PhoneNumber: "0888123456"}.Validate(), "name")
	assert.ErrorContains(t, models.UpdateAddress{UserFullName: "Иван", PhoneNumber: "123"}.Validate(), "phone")
}

func TestNormalizeExpectedCount(t *testing.T) {
	c := models.CreateOrder{}
	c.NormalizeExpectedCount()
	assert.Equal(t, 1, c.ExpectedCount)

	c = models.CreateOrder{ExpectedCount: 1, OrderItems: make([]models.OrderItem, 3)}
	c.NormalizeExpectedCount()
	assert.Equal(t, 3, c.ExpectedCount)

	c = models.CreateOrder{ExpectedCount: 4, OrderItems: make([]models.OrderItem, 2)}
	c.NormalizeExpectedCount()
	assert.Equal(t, 4, c.ExpectedCount)
}
