package domain

import "time"

type Restaurant struct {
	ID                   string    `json:"id"`
	Key                  string    `json:"key"`
	Name                 string    `json:"name"`
	ServiceChargePercent float64   `json:"serviceChargePercent"`
	CreatedAt            time.Time `json:"createdAt"`
}
