package models

import "time"

type Category struct {
	ID   int64
	Name string
}

type Dish struct {
	ID         int64
	Name       string
	CategoryID int64
	// Price is the numeric(5,2) column as canonical text ("8.50"), which
	// keeps the fixed-point value exact end to end.
	Price       string
	Description string
	InStock     bool
}

// SelectionEvent records a user opening a dish's detail view.
type SelectionEvent struct {
	ID       int64
	Username string
	DishID   int64
	At       time.Time
}

// DishCommand is the parsed /add_dish command. Fields are filled
// positionally from the command tokens.
type DishCommand struct {
	Category    string
	Dish        string
	Price       string
	Description string
}

const (
	MaxNameLen        = 60
	MaxDescriptionLen = 255
)
