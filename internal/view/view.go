package view

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/msomdec/skill-connect/internal/domain"
)

// Cards show a bounded number of skills and clip previews; the rest are
// summarized.
const (
	maxCardSkills   = 4
	maxCardPreviews = 2
)

// HomeData is everything the home page renders.
type HomeData struct {
	Query    string
	Profiles []domain.Profile // Filtered by Query
	Total    int
	Videos   []domain.GalleryVideo
	Form     FormData
}

// FormData carries submitted values and field errors back into the form.
type FormData struct {
	Name   string
	Skills string
	Email  string
	Phone  string
	Errors map[string]string
}

// VideoURL is the streaming path for a stored clip.
func VideoURL(profileID, videoID string) string {
	return "/videos/" + url.PathEscape(profileID) + "/" + url.PathEscape(videoID)
}

func addVideoURL(profileID string) string {
	return "/profiles/" + url.PathEscape(profileID) + "/videos"
}

// searchSignals is the datastar signal object seeding live search.
func searchSignals(query string) (string, error) {
	b, err := json.Marshal(struct {
		Query string `json:"query"`
	}{Query: query})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func visibleSkills(skills []string) []string {
	return skills[:min(len(skills), maxCardSkills)]
}

func previewVideos(videos []domain.Video) []domain.Video {
	return videos[:min(len(videos), maxCardPreviews)]
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Untitled clip"
	}
	return name
}
