package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleNonAdmin Role = "NonAdmin"
)

type StudentStatus string

const (
	StudentStatusPhD    StudentStatus = "PhD"
	StudentStatusMTech  StudentStatus = "MTech"
	StudentStatusBTech  StudentStatus = "BTech"
	StudentStatusIntern StudentStatus = "Intern"
)

type MeetingType string

const (
	MeetingTypePaperPresentation MeetingType = "PaperPresentation"
	MeetingTypeWorkPresentation  MeetingType = "WorkPresentation"
	MeetingTypeTutorial          MeetingType = "Tutorial"
)

type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
)

type EntityType string

const (
	EntityTypeMember       EntityType = "MEMBER"
	EntityTypeMeeting      EntityType = "MEETING"
	EntityTypeRotation     EntityType = "ROTATION"
	EntityTypeAnnouncement EntityType = "ANNOUNCEMENT"
)

type Member struct {
	ID                   uuid.UUID     `json:"id"`
	Name                 string        `json:"name"`
	Email                string        `json:"email"`
	Role                 Role          `json:"role"`
	StudentStatus        StudentStatus `json:"studentStatus"`
	IsActive             bool          `json:"isActive"`
	InternExpirationDate *time.Time    `json:"internExpirationDate,omitempty"`
	CreatedAt            time.Time     `json:"createdAt"`
	UpdatedAt            time.Time     `json:"updatedAt"`
	DeletedAt            *time.Time    `json:"deletedAt,omitempty"`
}

// Date is YYYY-MM-DD, StartTime and EndTime are HH:MM local time on that date.
// Meetings are assumed to start and end on the same day.
type Meeting struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	PresenterID uuid.UUID   `json:"presenterId"`
	Type        MeetingType `json:"type"`
	Date        string      `json:"date"`
	StartTime   string      `json:"startTime"`
	EndTime     string      `json:"endTime"`
	Description string      `json:"description,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	DeletedAt   *time.Time  `json:"deletedAt,omitempty"`
}

// Rotation is an entry in the presentation queue. Entries are hard-deleted
// when their member goes away; OrderIndex values stay contiguous from 0.
type Rotation struct {
	ID              uuid.UUID  `json:"id"`
	MemberID        uuid.UUID  `json:"memberId"`
	OrderIndex      int        `json:"orderIndex"`
	Active          bool       `json:"active"`
	LastPresentedAt *time.Time `json:"lastPresentedAt,omitempty"`
}

type Announcement struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// Expired reports whether the announcement's expiry has passed at the given time.
func (a Announcement) Expired(now time.Time) bool {
	return a.ExpiresAt != nil && !a.ExpiresAt.After(now)
}

type AuditLog struct {
	ID         uuid.UUID       `json:"id"`
	Action     AuditAction     `json:"action"`
	EntityType EntityType      `json:"entityType"`
	EntityID   uuid.UUID       `json:"entityId"`
	Timestamp  time.Time       `json:"timestamp"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
}

// Snapshot is the full contents of every collection, including soft-deleted
// rows and audit logs. It is the export/import document.
type Snapshot struct {
	Members       []Member       `json:"members"`
	Meetings      []Meeting      `json:"meetings"`
	Rotation      []Rotation     `json:"rotation"`
	Announcements []Announcement `json:"announcements"`
	AuditLogs     []AuditLog     `json:"auditLogs"`
}
