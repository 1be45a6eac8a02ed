package models

import (
	"errors"
	"regexp"
	"strings"
)

// Address is a customer's pickup/delivery address record
type Address struct {
	ID             string `json:"id"`
	UserID         string `json:"userId"`
	UserFullName   string `json:"userFullName"`
	PhoneNumber    string `json:"phoneNumber"`
	DisplayAddress string `json:"displayAddress"`
}

// UpdateAddress is the payload used to register a customer address
type UpdateAddress struct {
	UserID         string `json:"userId,omitempty"`
	UserFullName   string `json:"userFullName"`
	PhoneNumber    string `json:"phoneNumber"`
	DisplayAddress string `json:"displayAddress,omitempty"`
}

// Bulgarian mobile numbers: +359 or a leading 0, then 8 or 9 and eight more digits.
var phoneRegex = regexp.MustCompile(`^(\+359|0)[89]\d{8}$`)

// ValidatePhoneNumber checks a phone number; an empty value passes only when optional.
func ValidatePhoneNumber(phone string, optional bool) bool {
	trimmed := strings.TrimSpace(phone)
	if trimmed == "" {
		return optional
	}
	return phoneRegex.MatchString(trimmed)
}

// Validate checks the fields staff must fill in before registering a customer
func (a UpdateAddress) Validate() error {
	if strings.TrimSpace(a.UserFullName) == "" {
		return errors.New("customer name is required")
	}
	if !ValidatePhoneNumber(a.PhoneNumber, false) {
		return errors.New("phone number is invalid")
	}
	return nil
}
