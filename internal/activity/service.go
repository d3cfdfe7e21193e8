package activity

import (
	"context"
	"encoding/json"

	"github.com/Kyz7/backoffice/internal/database"
	"github.com/Kyz7/backoffice/internal/metrics"
	"github.com/Kyz7/backoffice/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

const ListLimit = 100

type Details map[string]interface{}

// Record appends an entry to the admin activity log. It never fails the
// caller: write errors are logged and counted, then dropped.
func Record(ctx context.Context, adminID uuid.UUID, action string, section models.ActivitySection, details Details) {
	if adminID == uuid.Nil {
		log.Debug().Str("action", action).Msg("activity skipped: no admin record for caller")
		return
	}

	entry := models.AdminActivityLog{
		AdminID: adminID,
		Action:  action,
		Section: section,
	}
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			log.Warn().Err(err).Str("action", action).Msg("activity details not serializable")
		} else {
			entry.Details = datatypes.JSON(raw)
		}
	}

	if err := database.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		metrics.RecordAuditFailure()
		log.Warn().
			Err(err).
			Str("admin_id", adminID.String()).
			Str("action", action).
			Msg("failed to record admin activity")
	}
}

func ListForAdmin(ctx context.Context, adminID uuid.UUID) ([]models.AdminActivityLog, error) {
	var logs []models.AdminActivityLog
	err := database.DB.WithContext(ctx).
		Where("admin_id = ?", adminID).
		Order("created_at DESC").
		Limit(ListLimit).
		Find(&logs).Error
	return logs, err
}
