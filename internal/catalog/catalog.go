package catalog

import (
	"errors"
)

// ErrNotFound is returned when a book is not found upstream.
var ErrNotFound = errors.New("book not found")

// Category is the closed set of shelf categories a book can carry.
// All is valid only as a filter selector, never as a book's own category.
type Category string

const (
	Fiction    Category = "Fiction"
	NonFiction Category = "Non-Fiction"
	SciFi      Category = "Sci-Fi"
	Mystery    Category = "Mystery"
	Classics   Category = "Classics"
	Biography  Category = "Biography"

	All Category = "All"
)

// Categories returns the book categories, without the All selector.
func Categories() []Category {
	return []Category{Fiction, NonFiction, SciFi, Mystery, Classics, Biography}
}

// Valid reports whether c is a category a book may carry.
func (c Category) Valid() bool {
	switch c {
	case Fiction, NonFiction, SciFi, Mystery, Classics, Biography:
		return true
	}
	return false
}

// ValidSelector reports whether c may be used as a filter selector.
func (c Category) ValidSelector() bool {
	return c == All || c.Valid()
}

// Book is a read-only catalog record owned by the upstream API.
type Book struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Author       string   `json:"author"`
	Price        float64  `json:"price"`
	Rating       float64  `json:"rating"`
	Description  string   `json:"description"`
	Category     Category `json:"category"`
	CoverImage   string   `json:"coverImage"`
	IsBestseller bool     `json:"isBestseller"`
	Review       int      `json:"review"`
}
