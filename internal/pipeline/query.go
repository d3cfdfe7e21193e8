package pipeline

import (
	"context"
	"strings"

	"github.com/Kyz7/backoffice/internal/database"
	"github.com/Kyz7/backoffice/internal/models"

	"github.com/google/uuid"
)

type StageQuery struct {
	Search     string
	AssignedTo uuid.UUID
	Limit      int
	Offset     int
}

// ListStage returns the live listings in one pipeline stage, newest first.
func ListStage(ctx context.Context, status models.ListingStatus, q StageQuery) ([]models.Listing, int64, error) {
	query := database.DB.WithContext(ctx).Model(&models.Listing{}).Where("status = ?", status)

	if s := strings.TrimSpace(q.Search); s != "" {
		query = query.Where("LOWER(product_name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if q.AssignedTo != uuid.Nil {
		query = query.Where("assigned_to = ?", q.AssignedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var listings []models.Listing
	find := query.Preload("Category").Preload("Brand").Preload("Assignee").Order("created_at DESC")
	if q.Limit > 0 {
		find = find.Limit(q.Limit).Offset(q.Offset)
	}
	if err := find.Find(&listings).Error; err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}

type AdminWorkload struct {
	AdminID   uuid.UUID          `json:"admin_id"`
	AdminCode string             `json:"admin_code"`
	Name      string             `json:"name"`
	Status    models.AdminStatus `json:"status"`
	Worklist  int64              `json:"worklist"`
}

type Stats struct {
	ByStatus   map[models.ListingStatus]int64 `json:"by_status"`
	Total      int64                          `json:"total"`
	Deleted    int64                          `json:"deleted"`
	Categories int64                          `json:"categories"`
	Brands     int64                          `json:"brands"`
	Workloads  []AdminWorkload                `json:"workloads"`
}

func GetPipelineStats(ctx context.Context) (*Stats, error) {
	db := database.DB.WithContext(ctx)
	stats := &Stats{ByStatus: make(map[models.ListingStatus]int64, len(models.ListingStatuses))}
	for _, s := range models.ListingStatuses {
		stats.ByStatus[s] = 0
	}

	var rows []struct {
		Status models.ListingStatus
		Count  int64
	}
	if err := db.Model(&models.Listing{}).Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		stats.ByStatus[r.Status] = r.Count
		stats.Total += r.Count
	}

	if err := db.Unscoped().Model(&models.Listing{}).Where("deleted_at IS NOT NULL").Count(&stats.Deleted).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Category{}).Count(&stats.Categories).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Brand{}).Count(&stats.Brands).Error; err != nil {
		return nil, err
	}

	workloads, err := AdminWorkloads(ctx)
	if err != nil {
		return nil, err
	}
	stats.Workloads = workloads

	return stats, nil
}

// AdminWorkloads counts live worklist listings per admin, including admins
// with nothing assigned.
func AdminWorkloads(ctx context.Context) ([]AdminWorkload, error) {
	workloads := []AdminWorkload{}
	err := database.DB.WithContext(ctx).
		Table("admins").
		Select("admins.id AS admin_id, admins.admin_code, admins.name, admins.status, COUNT(listings.id) AS worklist").
		Joins("LEFT JOIN listings ON listings.assigned_to = admins.id AND listings.status = ? AND listings.deleted_at IS NULL", models.StatusWorklist).
		Group("admins.id, admins.admin_code, admins.name, admins.status").
		Order("admins.admin_code").
		Scan(&workloads).Error
	return workloads, err
}
