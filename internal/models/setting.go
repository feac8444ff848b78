package models

import "time"

// Setting is a key/value row for store-level configuration editable from
// the admin back-office (hero text, delivery fee, social links).
type Setting struct {
	Key       string    `json:"key" gorm:"primary_key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
