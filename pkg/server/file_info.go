package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jayanta8509/storage-audio/pkg/log"
	"github.com/jayanta8509/storage-audio/pkg/registry"
)

func (m *MediaServer) getFileInfo(ctx echo.Context) error {
	token := ctx.Param("token")
	log.Debug().Str("token", token).Msg("File info request")

	record, err := m.registry.Get(token)
	if err != nil {
		var notFoundErr registry.NotFoundError
		if errors.As(err, &notFoundErr) {
			return ctx.JSON(http.StatusNotFound, map[string]string{
				"error": "file not found",
			})
		}
		log.Error().Err(err).Str("token", token).Msg("Failed to get file info")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to get file info",
		})
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"token":             record.Token,
		"category":          record.Category,
		"stored_name":       record.StoredName,
		"original_filename": record.OriginalFilename,
		"file_size":         record.SizeBytes,
		"created_at":        record.CreatedAt.Format(time.RFC3339),
		"expires_at":        record.ExpiresAt.Format(time.RFC3339),
	})
}
