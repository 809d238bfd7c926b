package models

import (
	"time"
)

type SignInRequest struct {
	UUID      string    `json:"uuid"`
	URL       string    `json:"url"`
	QRCode    string    `json:"qr_code"`
	CreatedAt time.Time `json:"created_at"`
}

type SignInStatus struct {
	Resolved bool   `json:"resolved"`
	Signed   bool   `json:"signed"`
	Expired  bool   `json:"expired"`
	Account  string `json:"account"`
}
