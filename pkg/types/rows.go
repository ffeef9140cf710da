package types

import "time"

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Product struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	PriceCents int64  `json:"priceCents"`
}

type Order struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"totalCents"`
	CreatedAt  time.Time `json:"createdAt"`
}

type RestrictedRecord struct {
	ID     int64  `json:"id"`
	Secret string `json:"secret"`
}
