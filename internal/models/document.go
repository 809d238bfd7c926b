package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Document struct {
	bun.BaseModel `bun:"table:document"`
	Key           string    `bun:"key,pk" json:"key"`
	Value         string    `bun:"value,notnull" json:"value"`
	UpdatedAt     time.Time `bun:"updated_at" json:"updated_at"`
}
