package models

import "github.com/shopspring/decimal"

type Tag struct {
	ID     int64
	Name   string
	UserID int64
}

func (t Tag) String() string {
	return t.Name
}

// Product belongs to a user. Tags holds tag ids; TagObjects is filled only for
// detailed reads.
type Product struct {
	ID         int64
	UserID     int64
	Title      string
	Price      decimal.Decimal
	Link       string
	Tags       []int64
	TagObjects []Tag
}

func (p Product) String() string {
	return p.Title
}
