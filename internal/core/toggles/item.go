package toggles

import (
	"fmt"
	"strings"
)

// ItemType selects the remote collection a toggle applies to.
type ItemType string

const (
	ItemTypeLog     ItemType = "log"
	ItemTypeComment ItemType = "comment"
)

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	return t == ItemTypeLog || t == ItemTypeComment
}

// ParseItemType converts user input to an ItemType.
func ParseItemType(s string) (ItemType, error) {
	t := ItemType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidItemType, s)
	}
	return t, nil
}

// Item identifies something a viewer can upvote.
// AuthorID is passed through to the remote mutation for reputation bookkeeping.
type Item struct {
	ID       string   `json:"id"`
	Type     ItemType `json:"type"`
	AuthorID string   `json:"authorId"`
}

// Validate checks the fields required to issue a mutation.
func (i Item) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return ErrItemIDRequired
	}
	if !i.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidItemType, i.Type)
	}
	if strings.TrimSpace(i.AuthorID) == "" {
		return ErrAuthorIDRequired
	}
	return nil
}
