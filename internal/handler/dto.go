package handler

import (
	"time"

	"github.com/msomdec/skill-connect/internal/domain"
	"github.com/msomdec/skill-connect/internal/view"
)

// ProfileDTO is the JSON representation of a profile. Video payloads are
// served separately via their URL.
type ProfileDTO struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Initials  string     `json:"initials"`
	Skills    []string   `json:"skills"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Videos    []VideoDTO `json:"videos"`
	CreatedAt string     `json:"createdAt"`
}

// VideoDTO is the JSON representation of a video. Owner fields are set in
// gallery listings.
type VideoDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MIMEType  string `json:"mimeType"`
	URL       string `json:"url"`
	OwnerID   string `json:"ownerId,omitempty"`
	OwnerName string `json:"ownerName,omitempty"`
}

// ProfileListDTO is the response of GET /api/profiles.
type ProfileListDTO struct {
	Profiles []ProfileDTO `json:"profiles"`
	Total    int          `json:"total"`
}

// GalleryDTO is the response of GET /api/videos.
type GalleryDTO struct {
	Videos []VideoDTO `json:"videos"`
}

func toProfileDTO(p domain.Profile) ProfileDTO {
	videos := make([]VideoDTO, 0, len(p.Videos))
	for _, v := range p.Videos {
		videos = append(videos, toVideoDTO(p.ID, v))
	}
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	return ProfileDTO{
		ID:        p.ID,
		Name:      p.Name,
		Initials:  p.Initials(),
		Skills:    skills,
		Email:     p.Email,
		Phone:     p.Phone,
		Videos:    videos,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toVideoDTO(ownerID string, v domain.Video) VideoDTO {
	return VideoDTO{
		ID:       v.ID,
		Name:     v.Name,
		MIMEType: v.Data.MIMEType,
		URL:      view.VideoURL(ownerID, v.ID),
	}
}

func toGalleryDTO(videos []domain.GalleryVideo) GalleryDTO {
	out := make([]VideoDTO, 0, len(videos))
	for _, v := range videos {
		dto := toVideoDTO(v.OwnerID, v.Video)
		dto.OwnerID = v.OwnerID
		dto.OwnerName = v.OwnerName
		out = append(out, dto)
	}
	return GalleryDTO{Videos: out}
}
