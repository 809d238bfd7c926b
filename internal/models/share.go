package models

import (
	"time"
)

type ShareRecord struct {
	Date      string    `json:"date"`
	Platform  string    `json:"platform"`
	Timestamp time.Time `json:"timestamp"`
}

type ShareResult struct {
	Accepted bool   `json:"accepted"`
	Reward   int64  `json:"reward"`
	Message  string `json:"message"`
}
