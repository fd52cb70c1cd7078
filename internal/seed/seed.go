// Package seed populates an empty store with a small illustrative dataset.
package seed

import (
	"context"
	"fmt"
	"time"

	"labdesk/internal/announcement"
	"labdesk/internal/meeting"
	"labdesk/internal/member"
	"labdesk/internal/model"
	"labdesk/internal/rotation"

	"github.com/google/uuid"
)

// Load creates a handful of members, meetings and announcements through the
// managers, so auto-enrollment and auditing apply exactly as they would for
// real input.
func Load(ctx context.Context, members *member.Manager, meetings *meeting.Manager, rotations *rotation.Manager, announcements *announcement.Manager) error {
	admin, err := members.Create(ctx, member.CreateParams{
		Name:          "Dr. Sharma G",
		Email:         "sharma.g@lab.edu",
		Role:          model.RoleAdmin,
		StudentStatus: model.StudentStatusPhD,
		IsActive:      true,
	})
	if err != nil {
		return fmt.Errorf("failed to seed members: %w", err)
	}

	priya, err := members.Create(ctx, member.CreateParams{
		Name:          "Priya Patel",
		Email:         "priya.patel@lab.edu",
		Role:          model.RoleNonAdmin,
		StudentStatus: model.StudentStatusPhD,
		IsActive:      true,
	})
	if err != nil {
		return fmt.Errorf("failed to seed members: %w", err)
	}

	amit, err := members.Create(ctx, member.CreateParams{
		Name:          "Amit Kumar",
		Email:         "amit.kumar@lab.edu",
		Role:          model.RoleNonAdmin,
		StudentStatus: model.StudentStatusMTech,
		IsActive:      true,
	})
	if err != nil {
		return fmt.Errorf("failed to seed members: %w", err)
	}

	sarah, err := members.Create(ctx, member.CreateParams{
		Name:          "Sarah Chen",
		Email:         "sarah.chen@lab.edu",
		Role:          model.RoleNonAdmin,
		StudentStatus: model.StudentStatusBTech,
		IsActive:      true,
	})
	if err != nil {
		return fmt.Errorf("failed to seed members: %w", err)
	}

	internUntil := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	vikram, err := members.Create(ctx, member.CreateParams{
		Name:                 "Vikram Singh",
		Email:                "vikram.singh@lab.edu",
		Role:                 model.RoleNonAdmin,
		StudentStatus:        model.StudentStatusIntern,
		IsActive:             true,
		InternExpirationDate: &internUntil,
	})
	if err != nil {
		return fmt.Errorf("failed to seed members: %w", err)
	}

	// Everyone is auto-enrolled in creation order; put the queue in the
	// demonstration order instead.
	order := make([]uuid.UUID, 0, 5)
	byMember := make(map[uuid.UUID]uuid.UUID)
	for _, entry := range rotations.Entries(ctx) {
		byMember[entry.MemberID] = entry.ID
	}
	for _, id := range []uuid.UUID{sarah.ID, vikram.ID, priya.ID, admin.ID, amit.ID} {
		order = append(order, byMember[id])
	}
	if _, err := rotations.Reorder(ctx, order); err != nil {
		return fmt.Errorf("failed to seed rotation order: %w", err)
	}

	seedMeetings := []meeting.CreateParams{
		{
			Title:       "Machine Learning in Genomics",
			PresenterID: priya.ID,
			Type:        model.MeetingTypePaperPresentation,
			Date:        "2024-12-15",
			StartTime:   "14:00",
			EndTime:     "15:00",
			Description: "Review of recent ML applications in genomic analysis",
		},
		{
			Title:       "CRISPR Progress Update",
			PresenterID: priya.ID,
			Type:        model.MeetingTypeWorkPresentation,
			Date:        "2024-12-17",
			StartTime:   "10:30",
			EndTime:     "11:30",
			Description: "Current progress on CRISPR research project",
		},
		{
			Title:       "RNA-seq Analysis Tutorial",
			PresenterID: amit.ID,
			Type:        model.MeetingTypeTutorial,
			Date:        "2024-12-20",
			StartTime:   "15:00",
			EndTime:     "16:00",
			Description: "Step-by-step guide to RNA-seq data analysis",
		},
	}
	for _, params := range seedMeetings {
		if _, err := meetings.Create(ctx, params); err != nil {
			return fmt.Errorf("failed to seed meetings: %w", err)
		}
	}

	scheduleChangeUntil := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	maintenanceUntil := time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC)
	seedAnnouncements := []announcement.CreateParams{
		{
			Title:     "Lab Meeting Schedule Change",
			Body:      "Weekly lab meetings will be moved to Fridays starting next week.",
			ExpiresAt: &scheduleChangeUntil,
		},
		{
			Title:     "Equipment Maintenance",
			Body:      "The PCR machine will be under maintenance from Dec 18-20.",
			ExpiresAt: &maintenanceUntil,
		},
	}
	for _, params := range seedAnnouncements {
		if _, err := announcements.Create(ctx, params); err != nil {
			return fmt.Errorf("failed to seed announcements: %w", err)
		}
	}

	return nil
}
