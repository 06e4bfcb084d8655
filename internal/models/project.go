package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Project statuses form a closed set. Transitions between them are
// deliberately unrestricted: the workflow permits any-to-any moves and
// the UI alone decides which buttons to offer.
const (
	StatusNouvelle      = "nouvelle"
	StatusEnAnalyse     = "en_analyse"
	StatusAcceptee      = "acceptee"
	StatusRefusee       = "refusee"
	StatusEnCours       = "en_cours"
	StatusTermine       = "termine"
	StatusEnAttenteInfo = "en_attente_info"
)

var Statuses = []string{
	StatusNouvelle,
	StatusEnAnalyse,
	StatusAcceptee,
	StatusRefusee,
	StatusEnCours,
	StatusTermine,
	StatusEnAttenteInfo,
}

func IsValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

type Project struct {
	ID           uuid.UUID
	ClientName   string
	ClientEmail  string
	ClientPhone  sql.NullString
	ProjectType  string
	Description  string
	Colors       sql.NullString
	Budget       sql.NullString
	Deadline     sql.NullString
	Inspirations sql.NullString
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p *Project) ToResponse() ProjectResponse {
	resp := ProjectResponse{
		ID:          p.ID.String(),
		ClientName:  p.ClientName,
		ClientEmail: p.ClientEmail,
		ProjectType: p.ProjectType,
		Description: p.Description,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.ClientPhone.Valid {
		resp.ClientPhone = p.ClientPhone.String
	}
	if p.Colors.Valid {
		resp.Colors = p.Colors.String
	}
	if p.Budget.Valid {
		resp.Budget = p.Budget.String
	}
	if p.Deadline.Valid {
		resp.Deadline = p.Deadline.String
	}
	if p.Inspirations.Valid {
		resp.Inspirations = p.Inspirations.String
	}
	return resp
}

const (
	SenderAdmin  = "admin"
	SenderClient = "client"
)

type Message struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	SenderType  string
	SenderEmail string
	Message     string
	CreatedAt   time.Time
}

type ProjectFile struct {
	ID         uuid.UUID
	ProjectID  uuid.UUID
	FileName   string
	FileURL    string
	FileType   string
	FileSize   sql.NullInt64
	UploadedBy string
	CreatedAt  time.Time
}

type AdminUser struct {
	ID          uuid.UUID
	Email       string
	DisplayName sql.NullString
	IsActive    bool
	CreatedAt   time.Time
}

type DeviceToken struct {
	ID         uuid.UUID
	Token      string
	AdminEmail string
	CreatedAt  time.Time
}
