package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/msomdec/skill-connect/internal/domain"
)

// snapshotProfile is the persisted form of a profile.
type snapshotProfile struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Skills    []string        `json:"skills"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	Videos    []snapshotVideo `json:"videos"`
	CreatedAt int64           `json:"createdAt"` // Epoch milliseconds
}

type snapshotVideo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	DataURI string `json:"dataUri"`
}

func encodeSnapshot(profiles []domain.Profile) ([]byte, error) {
	out := make([]snapshotProfile, 0, len(profiles))
	for _, p := range profiles {
		videos := make([]snapshotVideo, 0, len(p.Videos))
		for _, v := range p.Videos {
			videos = append(videos, snapshotVideo{ID: v.ID, Name: v.Name, DataURI: v.Data.String()})
		}
		skills := p.Skills
		if skills == nil {
			skills = []string{}
		}
		out = append(out, snapshotProfile{
			ID:        p.ID,
			Name:      p.Name,
			Skills:    skills,
			Email:     p.Email,
			Phone:     p.Phone,
			Videos:    videos,
			CreatedAt: p.CreatedAt.UnixMilli(),
		})
	}
	return json.Marshal(out)
}

// decodeSnapshot parses and validates a persisted collection. Unknown
// fields, trailing data, missing or duplicate IDs and malformed data URIs
// are all rejected with ErrCorruptSnapshot.
func decodeSnapshot(raw []byte) ([]domain.Profile, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var in []snapshotProfile
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCorruptSnapshot, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after collection", domain.ErrCorruptSnapshot)
	}
	if in == nil {
		return nil, fmt.Errorf("%w: collection is not an array", domain.ErrCorruptSnapshot)
	}

	profiles := make([]domain.Profile, 0, len(in))
	seen := make(map[string]bool, len(in))
	for i, sp := range in {
		if sp.ID == "" {
			return nil, fmt.Errorf("%w: profile %d has no id", domain.ErrCorruptSnapshot, i)
		}
		if seen[sp.ID] {
			return nil, fmt.Errorf("%w: duplicate profile id %q", domain.ErrCorruptSnapshot, sp.ID)
		}
		seen[sp.ID] = true

		videos, err := decodeVideos(sp)
		if err != nil {
			return nil, err
		}
		skills := sp.Skills
		if skills == nil {
			skills = []string{}
		}

		profiles = append(profiles, domain.Profile{
			ID:        sp.ID,
			Name:      sp.Name,
			Skills:    skills,
			Email:     sp.Email,
			Phone:     sp.Phone,
			Videos:    videos,
			CreatedAt: time.UnixMilli(sp.CreatedAt),
		})
	}
	return profiles, nil
}

func decodeVideos(sp snapshotProfile) ([]domain.Video, error) {
	videos := make([]domain.Video, 0, len(sp.Videos))
	seen := make(map[string]bool, len(sp.Videos))
	for _, sv := range sp.Videos {
		if sv.ID == "" {
			return nil, fmt.Errorf("%w: video without id in profile %q", domain.ErrCorruptSnapshot, sp.ID)
		}
		if seen[sv.ID] {
			return nil, fmt.Errorf("%w: duplicate video id %q in profile %q", domain.ErrCorruptSnapshot, sv.ID, sp.ID)
		}
		seen[sv.ID] = true

		data, err := domain.ParseDataURI(sv.DataURI)
		if err != nil {
			return nil, fmt.Errorf("%w: video %q: %w", domain.ErrCorruptSnapshot, sv.ID, err)
		}
		videos = append(videos, domain.Video{ID: sv.ID, Name: sv.Name, Data: data})
	}
	return videos, nil
}
