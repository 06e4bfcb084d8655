package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"webstarter-backend/internal/mailer"
	"webstarter-backend/internal/models"
	"webstarter-backend/internal/notify"
	"webstarter-backend/internal/supabase"
)

// StatusService moves projects through the status lifecycle and
// notifies the client. The row update and the notification are
// independent failure domains: the update failing aborts everything,
// the notification failing changes nothing about the update.
type StatusService struct {
	db         *supabase.DatabaseClient
	dispatcher *notify.Dispatcher
}

func NewStatusService(db *supabase.DatabaseClient, dispatcher *notify.Dispatcher) *StatusService {
	return &StatusService{
		db:         db,
		dispatcher: dispatcher,
	}
}

// ChangeResult pairs the persisted project with the outcome of the
// notification side effect, so callers can react to each on its own.
type ChangeResult struct {
	Project      *models.Project
	Notification notify.Result
}

// Change sets the project's status and dispatches the status-change
// notification. Any status in the closed set may follow any other:
// re-selecting the current status or leaving a terminal one is not
// an error here.
func (s *StatusService) Change(ctx context.Context, projectID uuid.UUID, newStatus string) (*ChangeResult, error) {
	if !models.IsValidStatus(newStatus) {
		return nil, fmt.Errorf("invalid status: %q", newStatus)
	}

	project, err := s.db.UpdateProjectStatus(projectID, newStatus)
	if err != nil {
		// Update failed: no notification is attempted
		return nil, err
	}

	result := s.dispatcher.Dispatch(ctx, notify.Event{
		Kind:       mailer.EventStatusChange,
		To:         project.ClientEmail,
		ClientName: project.ClientName,
		Status:     newStatus,
		ProjectID:  project.ID.String(),
	})

	return &ChangeResult{Project: project, Notification: result}, nil
}
