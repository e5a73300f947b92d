package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/jayanta8509/storage-audio/pkg/log"
	"github.com/jayanta8509/storage-audio/pkg/media"
	"github.com/jayanta8509/storage-audio/pkg/registry"
)

// UploadResponse is the success payload returned by both upload endpoints.
// ExpiresInHours is set for audio uploads, ExpiresInMinutes for images.
type UploadResponse struct {
	Success          bool    `json:"success"`
	Message          string  `json:"message"`
	Token            string  `json:"token"`
	SecureLink       string  `json:"secure_link"`
	BaseURLDetected  string  `json:"base_url_detected"`
	ExpiresAt        string  `json:"expires_at"`
	FileSize         int64   `json:"file_size"`
	OriginalFilename string  `json:"original_filename"`
	ExpiresInHours   float64 `json:"expires_in_hours,omitempty"`
	ExpiresInMinutes float64 `json:"expires_in_minutes,omitempty"`
}

func (m *MediaServer) uploadAudio(ctx echo.Context) error {
	return m.uploadMedia(ctx, media.Audio)
}

func (m *MediaServer) uploadImage(ctx echo.Context) error {
	return m.uploadMedia(ctx, media.Image)
}

// uploadMedia validates, stores and registers one uploaded file for the given
// category. If anything fails after the blob is written but before the record
// is registered, the blob is deleted again so a partial failure never leaks
// files.
func (m *MediaServer) uploadMedia(ctx echo.Context, category media.Category) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		log.Error().Err(err).Msg("File parameter is required")
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "file parameter is required",
		})
	}

	classification, err := media.Classify(file.Filename)
	if err != nil || classification.Category != category {
		log.Warn().Str("filename", file.Filename).Str("category", string(category)).
			Msg("Unsupported media type")
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "only " + string(category) + " files are allowed (" +
				strings.Join(category.AllowedExtensions(), ", ") + ")",
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to open uploaded file",
		})
	}
	defer func() {
		if err := src.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close uploaded file")
		}
	}()

	storedName, size, err := m.blobs.Save(category, classification.Ext, src)
	if err != nil {
		log.Error().Err(err).Str("filename", file.Filename).Msg("Failed to store file")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to store file",
		})
	}

	now := time.Now()
	retention := m.cfg.Retention(category)
	record := registry.FileRecord{
		Token:            uuid.NewString(),
		Category:         category,
		StoredName:       storedName,
		OriginalFilename: file.Filename,
		FilePath:         m.blobs.Path(category, storedName),
		SizeBytes:        size,
		CreatedAt:        now,
		ExpiresAt:        now.Add(retention),
	}

	if err := m.registry.Insert(record); err != nil {
		// Remove the orphaned blob before surfacing the error.
		if deleteErr := m.blobs.Delete(record.FilePath); deleteErr != nil {
			log.Error().Err(deleteErr).Str("file_path", record.FilePath).
				Msg("Failed to remove blob after registry failure")
		}
		log.Error().Err(err).Str("token", record.Token).Msg("Failed to register file")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to register file",
		})
	}

	baseURL := requestBaseURL(ctx)
	message := string(category) + " file uploaded successfully (" + humanize.Bytes(uint64(size)) + ")"

	response := UploadResponse{
		Success:          true,
		Message:          message,
		Token:            record.Token,
		SecureLink:       baseURL + "/" + category.PublicPrefix() + "/" + storedName,
		BaseURLDetected:  baseURL,
		ExpiresAt:        record.ExpiresAt.Format(time.RFC3339),
		FileSize:         size,
		OriginalFilename: file.Filename,
	}
	if category == media.Image {
		response.ExpiresInMinutes = retention.Minutes()
	} else {
		response.ExpiresInHours = retention.Hours()
	}

	log.Info().Str("token", record.Token).Str("stored_name", storedName).
		Str("category", string(category)).Int64("size", size).
		Time("expires_at", record.ExpiresAt).Msg("File uploaded")

	return ctx.JSON(http.StatusOK, response)
}
