package domain

import (
	"errors"
	"regexp"
	"unicode/utf8"
)

// Tag-specific validation errors
var (
	// ErrTagNameEmpty is returned when a tag's name is empty.
	ErrTagNameEmpty = errors.New("tag name cannot be empty")

	// ErrTagNameTooLong is returned when a tag's name exceeds 50 characters.
	ErrTagNameTooLong = errors.New("tag name cannot exceed 50 characters")

	// ErrTagColorInvalid is returned when a tag's color is not a hex color code.
	ErrTagColorInvalid = errors.New("tag color must be a hex color code like #3B82F6")
)

// MaxTagNameLength is the maximum length of a tag name.
const MaxTagNameLength = 50

// DefaultTagColor is used when no display color is supplied.
const DefaultTagColor = "#3B82F6"

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Tag is a named label with a display color. Tags relate to tasks
// many-to-many through a link table with no independent identity; links are
// removed when either side goes away.
type Tag struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// NewTag creates a new Tag with the given name and color. An empty color
// falls back to the default. Returns an error if validation fails.
func NewTag(name, color string) (*Tag, error) {
	if color == "" {
		color = DefaultTagColor
	}

	tag := &Tag{
		Name:  name,
		Color: color,
	}

	if err := tag.Validate(); err != nil {
		return nil, err
	}

	return tag, nil
}

// Validate checks if the Tag has valid data.
func (t *Tag) Validate() error {
	if t.Name == "" {
		return ErrTagNameEmpty
	}

	if utf8.RuneCountInString(t.Name) > MaxTagNameLength {
		return ErrTagNameTooLong
	}

	if !hexColorRegex.MatchString(t.Color) {
		return ErrTagColorInvalid
	}

	return nil
}
