package models

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID       int64
	Login    string
	Password string
	Balance  pgtype.Float8
	IsAdmin  bool
}

type Service struct {
	ID          int64
	ExternalID  int64
	Name        string
	Category    string
	CostRate    float64
	Rate        float64
	MinQuantity int
	MaxQuantity int
	Active      bool
}

type Order struct {
	ID              int64
	UserID          int64
	ServiceID       int64
	ExternalID      pgtype.Int8
	Quantity        int
	Link            string
	Rate            float64
	CostRate        float64
	Charge          float64
	WalletDeduction float64
	Status          string
	CreatedAt       pgtype.Timestamptz
	CompletedAt     pgtype.Timestamptz
}

type WalletTransaction struct {
	ID               int64
	UserID           int64
	Type             string
	Amount           float64
	OriginalAmount   pgtype.Float8
	OriginalCurrency pgtype.Text
	ActorID          pgtype.Int8
	Note             string
	CreatedAt        pgtype.Timestamptz
}

type Receipt struct {
	ID         uuid.UUID
	UserID     int64
	FileURL    string
	Amount     float64
	Currency   string
	Note       string
	Status     string
	ReviewedBy pgtype.Int8
	CreatedAt  pgtype.Timestamptz
	ReviewedAt pgtype.Timestamptz
}
