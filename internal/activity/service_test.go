package activity_test

import (
	"encoding/json"
	"testing"

	"github.com/Kyz7/backoffice/internal/activity"
	"github.com/Kyz7/backoffice/internal/models"
	"github.com/Kyz7/backoffice/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord(t *testing.T) {
	db := testutils.TestDB(t)
	_, admin := testutils.CreateTestAdmin(t, db, "lead@example.com", "ADM-001")

	t.Run("Success - Stores action, section and details", func(t *testing.T) {
		listingID := uuid.New()
		activity.Record(t.Context(), admin.ID, models.ActionListingPassed, models.ActivityNR, activity.Details{
			"listing_id": listingID,
			"new_status": models.StatusPR,
		})

		logs, err := activity.ListForAdmin(t.Context(), admin.ID)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, models.ActionListingPassed, logs[0].Action)
		assert.Equal(t, models.ActivityNR, logs[0].Section)

		var details map[string]interface{}
		require.NoError(t, json.Unmarshal(logs[0].Details, &details))
		assert.Equal(t, listingID.String(), details["listing_id"])
		assert.Equal(t, "pr", details["new_status"])
	})

	t.Run("Success - Callers without an admin record are skipped", func(t *testing.T) {
		activity.Record(t.Context(), uuid.Nil, models.ActionListingCreated, models.ActivityCreateListing, nil)

		var count int64
		db.Model(&models.AdminActivityLog{}).Where("action = ?", models.ActionListingCreated).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("Success - Write failures do not panic or propagate", func(t *testing.T) {
		require.NoError(t, db.Migrator().DropTable(&models.AdminActivityLog{}))
		assert.NotPanics(t, func() {
			activity.Record(t.Context(), admin.ID, models.ActionListingAssigned, models.ActivityAssign, nil)
		})
	})
}

func TestListForAdminLimit(t *testing.T) {
	db := testutils.TestDB(t)
	_, admin := testutils.CreateTestAdmin(t, db, "lead@example.com", "ADM-001")

	for i := 0; i < activity.ListLimit+5; i++ {
		activity.Record(t.Context(), admin.ID, models.ActionListingCreated, models.ActivityCreateListing, nil)
	}

	logs, err := activity.ListForAdmin(t.Context(), admin.ID)
	require.NoError(t, err)
	assert.Len(t, logs, activity.ListLimit)
}
