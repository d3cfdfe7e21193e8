package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AdminStatus string

const (
	AdminActive AdminStatus = "active"
	AdminFrozen AdminStatus = "frozen"
)

type Admin struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID   `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	AdminCode string      `gorm:"size:50;not null;uniqueIndex" json:"admin_code"`
	Name      string      `gorm:"size:100;not null" json:"name"`
	Email     string      `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Phone     string      `gorm:"size:30" json:"phone,omitempty"`
	Status    AdminStatus `gorm:"size:20;not null;default:'active'" json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (a *Admin) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = AdminActive
	}
	return nil
}

// AdminPermission overrides access to one section for one admin.
// A missing row means the section is allowed.
type AdminPermission struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AdminID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_admin_section" json:"admin_id"`
	Section   Section   `gorm:"size:50;not null;uniqueIndex:idx_admin_section" json:"section"`
	CanAccess bool      `gorm:"not null" json:"can_access"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *AdminPermission) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type AdminActivityLog struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	AdminID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"admin_id"`
	Action    string          `gorm:"size:50;not null;index" json:"action"`
	Section   ActivitySection `gorm:"size:30" json:"section,omitempty"`
	Details   datatypes.JSON  `json:"details,omitempty"`
	CreatedAt time.Time       `gorm:"index" json:"created_at"`
}

func (l *AdminActivityLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Section names a gated area of the back office.
type Section string

const (
	SectionDashboard       Section = "Dashboard"
	SectionCreateNew       Section = "Create New"
	SectionWorklist        Section = "Worklist"
	SectionAssign          Section = "Assign"
	SectionCPV             Section = "CPV"
	SectionNR              Section = "NR"
	SectionNP              Section = "NP"
	SectionPR              Section = "PR"
	SectionDraft           Section = "Draft"
	SectionDeletedListings Section = "Deleted Listings"
	SectionDataBlock       Section = "Data Block"
	SectionTrendAnalysis   Section = "Trend Analysis"
	SectionAdminPrivileges Section = "Admin Privileges"
)

var Sections = []Section{
	SectionDashboard,
	SectionCreateNew,
	SectionWorklist,
	SectionAssign,
	SectionCPV,
	SectionNR,
	SectionNP,
	SectionPR,
	SectionDraft,
	SectionDeletedListings,
	SectionDataBlock,
	SectionTrendAnalysis,
	SectionAdminPrivileges,
}

func (s Section) Valid() bool {
	for _, known := range Sections {
		if known == s {
			return true
		}
	}
	return false
}

type ActivitySection string

const (
	ActivityCreateListing ActivitySection = "create_listing"
	ActivityAssign        ActivitySection = "assign"
	ActivityPR            ActivitySection = "pr"
	ActivityNR            ActivitySection = "nr"
	ActivityNP            ActivitySection = "np"
)

const (
	ActionListingCreated     = "LISTING_CREATED"
	ActionListingAssigned    = "LISTING_ASSIGNED"
	ActionListingPassed      = "LISTING_PASSED"
	ActionListingRejected    = "LISTING_REJECTED"
	ActionListingResubmitted = "LISTING_RESUBMITTED"
	ActionListingsPublished  = "LISTINGS_PUBLISHED"
	ActionListingDeleted     = "LISTING_DELETED"
	ActionListingRestored    = "LISTING_RESTORED"
	ActionListingPurged      = "LISTING_PURGED"
	ActionCategoryDeleted    = "CATEGORY_DELETED"
	ActionBrandDeleted       = "BRAND_DELETED"
	ActionAdminCreated       = "ADMIN_CREATED"
	ActionAdminStatusChanged = "ADMIN_STATUS_CHANGED"
	ActionAdminDeleted       = "ADMIN_DELETED"
	ActionPermissionsUpdated = "PERMISSIONS_UPDATED"
)
