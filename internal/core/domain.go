package core

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyTitle      = errors.New("empty title")
	ErrEmptyCurrency   = errors.New("empty currency")
	ErrEmptyCategoryID = errors.New("empty category id")
	ErrEmptyName       = errors.New("empty name")
)

type (
	// User is the identity record returned by the login and who-am-i
	// endpoints and persisted alongside the session token.
	User struct {
		ID        string    `json:"id"`
		Username  string    `json:"username"`
		Email     string    `json:"email"`
		Password  string    `json:"password,omitempty"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}

	// Category is a user-owned expense category. The remote system owns
	// the record; clients only hold transient copies.
	Category struct {
		ID          string    `json:"id"`
		UserID      string    `json:"userId"`
		Name        string    `json:"name"`
		Description string    `json:"description"`
		CreatedAt   time.Time `json:"createdAt"`
		UpdatedAt   time.Time `json:"updatedAt"`
	}

	// Cost is a single expense record. IncurredAt is optional: records
	// without it are excluded from day grouping but still listed.
	Cost struct {
		ID         string     `json:"id"`
		Amount     float64    `json:"amount"`
		Title      string     `json:"title"`
		CategoryID string     `json:"categoryId"`
		Category   Category   `json:"category"`
		Currency   string     `json:"currency"`
		IncurredAt *time.Time `json:"incurredAt,omitempty"`
	}
)

// CategoryName returns the joined category name, or empty when the
// referenced category was not resolved. Callers render the empty value
// as "no category" instead of failing.
func (c Cost) CategoryName() string {
	return c.Category.Name
}

// Validate enforces the submission rules the entry form applies before
// a cost reaches the data layer. The resource client itself does not
// re-validate.
func (c Cost) Validate() error {
	if c.Amount <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(c.Title) == "" {
		return ErrEmptyTitle
	}
	if len(c.Title) > 100 {
		return errors.New("title too long (max 100 characters)")
	}
	if strings.TrimSpace(c.Currency) == "" {
		return ErrEmptyCurrency
	}
	if strings.TrimSpace(c.CategoryID) == "" {
		return ErrEmptyCategoryID
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// MonthRange returns the first and last calendar day of the month
// containing t, formatted as YYYY-MM-DD for the startDate/endDate
// list filters.
func MonthRange(t time.Time) (start, end string) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1)
	return first.Format("2006-01-02"), last.Format("2006-01-02")
}
