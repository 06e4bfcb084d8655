package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"webstarter-backend/internal/intake"
	"webstarter-backend/internal/logger"
	"webstarter-backend/internal/mailer"
	"webstarter-backend/internal/models"
	"webstarter-backend/internal/notify"
	"webstarter-backend/internal/supabase"
)

// FileStorage is the slice of object storage the intake pipeline
// uses: upload one blob, get back its key and public URL.
type FileStorage interface {
	UploadProjectFile(projectID uuid.UUID, fileName, contentType string, data []byte) (string, string, error)
}

// IntakeService runs the submission pipeline: project row first, then
// file attachments one at a time, then the confirmation notification,
// then draft cleanup. Each later stage is softer than the one before
// it: a file failure skips that file, a notification failure only
// yields a warning.
type IntakeService struct {
	db         *supabase.DatabaseClient
	storage    FileStorage
	dispatcher *notify.Dispatcher
	drafts     intake.DraftStore
}

func NewIntakeService(db *supabase.DatabaseClient, storage FileStorage, dispatcher *notify.Dispatcher, drafts intake.DraftStore) *IntakeService {
	return &IntakeService{
		db:         db,
		storage:    storage,
		dispatcher: dispatcher,
		drafts:     drafts,
	}
}

// Submit persists one intake request. The created project's status is
// always nouvelle, whatever the submission carried.
func (s *IntakeService) Submit(ctx context.Context, sub intake.Submission) (*intake.Receipt, error) {
	phone := sub.ClientPhone
	if formatted, ok := intake.ValidatePhone(phone, sub.Locale); ok && formatted != "" {
		phone = formatted
	}

	project, err := s.db.CreateProject(supabase.CreateProjectParams{
		ClientName:   sub.ClientName,
		ClientEmail:  sub.ClientEmail,
		ClientPhone:  phone,
		ProjectType:  sub.ProjectType,
		Description:  sub.Description,
		Colors:       sub.MergedColors(),
		Budget:       sub.MergedBudget(),
		Deadline:     sub.Deadline,
		Inspirations: sub.Inspirations,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	receipt := &intake.Receipt{ProjectID: project.ID.String()}
	receipt.Files = s.uploadFiles(project.ID, sub.Files)

	receipt.Notification = s.dispatcher.Dispatch(ctx, notify.Event{
		Kind:       mailer.EventConfirmation,
		To:         project.ClientEmail,
		ClientName: project.ClientName,
		ProjectID:  project.ID.String(),
	})

	s.dispatcher.NotifyAdmins(ctx, "Nouvelle demande de projet",
		fmt.Sprintf("%s - %s", project.ClientName, project.ProjectType),
		map[string]string{"project_id": project.ID.String()})

	if sub.DraftKey != "" {
		if err := s.drafts.Clear(ctx, sub.DraftKey); err != nil {
			logger.Error(err, "failed to clear draft after submission")
		}
	}

	return receipt, nil
}

// uploadFiles attempts each attachment in order. A failed upload or a
// failed metadata insert skips that file and moves on; the submission
// never aborts over an attachment.
func (s *IntakeService) uploadFiles(projectID uuid.UUID, files []intake.FileUpload) []intake.FileResult {
	results := make([]intake.FileResult, 0, len(files))

	for _, file := range files {
		result := intake.FileResult{Name: file.Name}

		_, publicURL, err := s.storage.UploadProjectFile(projectID, file.Name, file.ContentType, file.Data)
		if err != nil {
			logger.Log.WithFields(logrus.Fields{
				"project_id": projectID.String(),
				"file_name":  file.Name,
				"error":      err.Error(),
			}).Warn("file upload failed, skipping")
			result.Err = err.Error()
			results = append(results, result)
			continue
		}

		err = s.db.CreateProjectFile(&models.ProjectFile{
			ProjectID:  projectID,
			FileName:   file.Name,
			FileURL:    publicURL,
			FileType:   file.ContentType,
			FileSize:   sql.NullInt64{Int64: file.Size, Valid: file.Size > 0},
			UploadedBy: models.SenderClient,
		})
		if err != nil {
			// The blob is already stored; the orphan is accepted
			logger.Log.WithFields(logrus.Fields{
				"project_id": projectID.String(),
				"file_name":  file.Name,
				"error":      err.Error(),
			}).Warn("file metadata insert failed, skipping")
			result.Err = err.Error()
			results = append(results, result)
			continue
		}

		result.Uploaded = true
		result.URL = publicURL
		results = append(results, result)
	}

	return results
}
