package plugin

import (
    "strings"

    "github.com/google/uuid"
)

// CreateAnchorName derives an anchor from display text: lowercased, spaces
// become hyphens and periods are dropped.
func CreateAnchorName(text string) string {
    text = strings.ToLower(text)
    text = strings.ReplaceAll(text, " ", "-")
    return strings.ReplaceAll(text, ".", "")
}

// NewPlaceholderID returns a random key that will not occur in document text.
func NewPlaceholderID() string {
    return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}
