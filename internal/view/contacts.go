package view

import (
	"strconv"
	"strings"
	"time"

	"github.com/BearBump/trackbook/internal/models"
	"github.com/BearBump/trackbook/internal/platform"
	"github.com/BearBump/trackbook/internal/services/contacts"
)

const LastContactedLayout = "Jan 2, 2006 3:04 PM"

const (
	EmptyNoContacts = "No contacts yet. Add your first contact above."
	EmptyNoMatches  = "No contacts match your search."
)

type ContactCard struct {
	ID            string
	Name          string
	Initial       string
	Phone         string
	TelURI        string
	Category      string
	CategoryLabel string
	Notes         string
	LastContacted string
	CallCount     int
	Calls         string
}

type CategoryOption struct {
	Value    string
	Label    string
	Selected bool
}

type ContactQuery struct {
	Term     string
	Category string
}

type ContactList struct {
	// Count: всего контактов, Shown: после фильтра.
	Count        int
	Shown        int
	Empty        bool
	EmptyMessage string
	Query        ContactQuery
	Categories   []CategoryOption
	Cards        []ContactCard
}

// Contacts builds the list view for an already filtered slice. total is the size of the
// whole collection, used for the badge and to tell "no contacts" from "no matches".
func Contacts(found []models.Contact, total int, q ContactQuery, categories []string, loc *time.Location) ContactList {
	if loc == nil {
		loc = time.Local
	}
	if q.Category == "" {
		q.Category = models.ContactCategoryAll
	}

	out := ContactList{
		Count: total,
		Shown: len(found),
		Empty: len(found) == 0,
		Query: q,
		Cards: make([]ContactCard, 0, len(found)),
	}
	if out.Empty {
		out.EmptyMessage = EmptyNoContacts
		if total > 0 {
			out.EmptyMessage = EmptyNoMatches
		}
	}
	for _, c := range categories {
		out.Categories = append(out.Categories, CategoryOption{
			Value:    c,
			Label:    CategoryLabel(c),
			Selected: c == q.Category,
		})
	}
	for _, c := range found {
		out.Cards = append(out.Cards, contactCard(c, loc))
	}
	return out
}

func contactCard(c models.Contact, loc *time.Location) ContactCard {
	card := ContactCard{
		ID:            c.ID,
		Name:          c.Name,
		Initial:       initial(c.Name),
		Phone:         c.Phone,
		TelURI:        platform.TelURI(contacts.DigitsOnly(c.Phone)),
		Category:      c.Category,
		CategoryLabel: CategoryLabel(c.Category),
		Notes:         c.Notes,
		LastContacted: "Never",
		CallCount:     c.CallCount,
		Calls:         calls(c.CallCount),
	}
	if c.LastContacted != nil {
		card.LastContacted = c.LastContacted.In(loc).Format(LastContactedLayout)
	}
	return card
}

func CategoryLabel(category string) string {
	if category == models.ContactCategoryAll {
		return "All Categories"
	}
	if category == "" {
		return ""
	}
	r := []rune(category)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

func initial(name string) string {
	for _, r := range name {
		return strings.ToUpper(string(r))
	}
	return "?"
}

func calls(n int) string {
	if n == 1 {
		return "1 call"
	}
	return strconv.Itoa(n) + " calls"
}
