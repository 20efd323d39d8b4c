package models

import "time"

const (
	ContactCategoryFamily   = "family"
	ContactCategoryFriends  = "friends"
	ContactCategoryWork     = "work"
	ContactCategoryBusiness = "business"
	ContactCategoryOther    = "other"

	// ContactCategoryAll is the filter value that disables category matching.
	ContactCategoryAll = "all"
)

var ContactCategories = []string{
	ContactCategoryFamily,
	ContactCategoryFriends,
	ContactCategoryWork,
	ContactCategoryBusiness,
	ContactCategoryOther,
}

type Contact struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Phone         string     `json:"phone"`
	Category      string     `json:"category"`
	Notes         string     `json:"notes"`
	AddedDate     time.Time  `json:"addedDate"`
	LastContacted *time.Time `json:"lastContacted,omitempty"`
	CallCount     int        `json:"callCount"`
}

func (c Contact) RecordID() string { return c.ID }

type ContactCreateInput struct {
	Name     string
	Phone    string
	Category string
	Notes    string
}
