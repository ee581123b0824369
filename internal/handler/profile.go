package handler

import (
	"bytes"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/msomdec/skill-connect/internal/domain"
	"github.com/msomdec/skill-connect/internal/service"
	"github.com/msomdec/skill-connect/internal/view"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling to temporary files.
const multipartMemory = 32 << 20

// ProfileHandler serves the directory pages, uploads and the JSON API.
type ProfileHandler struct {
	store          *service.ProfileStore
	maxUploadBytes int64
}

// NewProfileHandler creates a new ProfileHandler. Request bodies on upload
// routes are capped at maxUploadBytes.
func NewProfileHandler(store *service.ProfileStore, maxUploadBytes int64) *ProfileHandler {
	return &ProfileHandler{store: store, maxUploadBytes: maxUploadBytes}
}

// HandleHome renders the directory page, optionally pre-filtered by ?q=.
// GET /
func (h *ProfileHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	h.renderHome(w, r, http.StatusOK, query, view.FormData{})
}

func (h *ProfileHandler) renderHome(w http.ResponseWriter, r *http.Request, status int, query string, form view.FormData) {
	data := view.HomeData{
		Query:    query,
		Profiles: h.store.FilteredProfiles(query),
		Total:    len(h.store.Profiles()),
		Videos:   h.store.AllVideos(),
		Form:     form,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := view.HomePage(data).Render(r.Context(), w); err != nil {
		slog.Error("render home page", "error", err)
	}
}

type searchSignals struct {
	Query string `json:"query"`
}

// HandleSearch re-renders the profile list for the query signal via SSE.
// GET /profiles/search
func (h *ProfileHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var signals searchSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	total := len(h.store.Profiles())
	profiles := h.store.FilteredProfiles(signals.Query)

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(
		view.ProfileList(profiles, total),
		datastar.WithSelectorID("profile-list"),
		datastar.WithModeInner(),
	); err != nil {
		slog.Error("patch profile list", "error", err)
	}
}

// HandleCreate processes the create-profile form with an optional video.
// POST /profiles
func (h *ProfileHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if !h.parseUpload(w, r) {
		return
	}

	in := domain.ProfileInput{
		Name:   r.FormValue("name"),
		Skills: r.FormValue("skills"),
		Email:  r.FormValue("email"),
		Phone:  r.FormValue("phone"),
	}
	if errs := service.ValidateProfileInput(in); errs.HasErrors() {
		h.renderHome(w, r, http.StatusUnprocessableEntity, "", view.FormData{
			Name:   in.Name,
			Skills: in.Skills,
			Email:  in.Email,
			Phone:  in.Phone,
			Errors: errs,
		})
		return
	}

	upload, closeFile, err := formUpload(r, "video")
	if err != nil {
		slog.Error("open uploaded video", "error", err)
		http.Error(w, "Bad Request: unreadable video", http.StatusBadRequest)
		return
	}
	defer closeFile()

	if _, err := h.store.CreateProfile(r.Context(), in, upload); err != nil {
		h.writeStoreError(w, "create profile", err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleAddVideo attaches an uploaded video to a profile. Submitting the
// form without a file is a no-op.
// POST /profiles/{id}/videos
func (h *ProfileHandler) HandleAddVideo(w http.ResponseWriter, r *http.Request) {
	if !h.parseUpload(w, r) {
		return
	}

	upload, closeFile, err := formUpload(r, "video")
	if err != nil {
		slog.Error("open uploaded video", "error", err)
		http.Error(w, "Bad Request: unreadable video", http.StatusBadRequest)
		return
	}
	defer closeFile()

	if err := h.store.AddVideo(r.Context(), r.PathValue("id"), upload); err != nil {
		h.writeStoreError(w, "add video", err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleServeVideo streams a stored clip with its recorded MIME type.
// Range requests are honoured so players can seek.
// GET /videos/{profileID}/{videoID}
func (h *ProfileHandler) HandleServeVideo(w http.ResponseWriter, r *http.Request) {
	video, err := h.store.Video(r.PathValue("profileID"), r.PathValue("videoID"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		slog.Error("get video", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data, err := video.Data.Decode()
	if err != nil {
		slog.Error("decode video", "profile_id", video.OwnerID, "video_id", video.ID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", video.Data.MIMEType)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	http.ServeContent(w, r, video.Name, time.Time{}, bytes.NewReader(data))
}

// HandleListProfiles returns the filtered profiles as JSON.
// GET /api/profiles?q=
func (h *ProfileHandler) HandleListProfiles(w http.ResponseWriter, r *http.Request) {
	total := len(h.store.Profiles())
	profiles := h.store.FilteredProfiles(r.URL.Query().Get("q"))

	out := ProfileListDTO{Profiles: make([]ProfileDTO, 0, len(profiles)), Total: total}
	for _, p := range profiles {
		out.Profiles = append(out.Profiles, toProfileDTO(p))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleListVideos returns the gallery as JSON.
// GET /api/videos
func (h *ProfileHandler) HandleListVideos(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toGalleryDTO(h.store.AllVideos()))
}

// parseUpload caps the body and parses the multipart form, writing the
// error response itself when it fails.
func (h *ProfileHandler) parseUpload(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "File too large", http.StatusRequestEntityTooLarge)
			return false
		}
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

func (h *ProfileHandler) writeStoreError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, domain.ErrFileRead) {
		slog.Warn(op, "error", err)
		http.Error(w, "Bad Request: could not read video", http.StatusBadRequest)
		return
	}
	slog.Error(op, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// formUpload returns the named file field as an Upload, or nil if the form
// carried no file. The returned func closes the file.
func formUpload(r *http.Request, field string) (*domain.Upload, func(), error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}
	return &domain.Upload{Name: header.Filename, Content: file}, closer(file), nil
}

func closer(f multipart.File) func() {
	return func() {
		if err := f.Close(); err != nil {
			slog.Warn("close uploaded file", "error", err)
		}
	}
}
