package models

import "time"

// APIResponse is the envelope every JSON endpoint returns
type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Code      string      `json:"code,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// StatsPayload pairs the normalized model with its rendered slots
type StatsPayload struct {
	Username string       `json:"username"`
	Model    DisplayModel `json:"model"`
	Slots    Slots        `json:"slots"`
}
