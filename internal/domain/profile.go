package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Profile is a community member's record: identity, skills and owned videos.
type Profile struct {
	ID        string
	Name      string
	Skills    []string
	Email     string
	Phone     string
	Videos    []Video // Newest first
	CreatedAt time.Time
}

// Initials returns the uppercased first letters of the first two words of
// the profile name.
func (p Profile) Initials() string {
	var sb strings.Builder
	for i, word := range strings.Fields(p.Name) {
		if i == 2 {
			break
		}
		r, _ := utf8.DecodeRuneInString(word)
		sb.WriteString(strings.ToUpper(string(r)))
	}
	return sb.String()
}

// Video is a teaching clip attached to exactly one profile.
type Video struct {
	ID   string
	Name string // Original upload filename
	Data DataURI
}

// GalleryVideo is a video together with the profile that owns it.
type GalleryVideo struct {
	Video
	OwnerID   string
	OwnerName string
}

// ProfileInput holds the raw form values for a new profile.
type ProfileInput struct {
	Name   string
	Skills string // Comma-separated
	Email  string
	Phone  string
}
