package models

import "time"

type ProjectResponse struct {
	ID           string    `json:"id"`
	ClientName   string    `json:"client_name"`
	ClientEmail  string    `json:"client_email"`
	ClientPhone  string    `json:"client_phone,omitempty"`
	ProjectType  string    `json:"project_type"`
	Description  string    `json:"description"`
	Colors       string    `json:"colors,omitempty"`
	Budget       string    `json:"budget,omitempty"`
	Deadline     string    `json:"deadline,omitempty"`
	Inspirations string    `json:"inspirations,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ProjectListResponse struct {
	Projects []ProjectSummary `json:"projects"`
}

type ProjectSummary struct {
	ID          string    `json:"id"`
	ClientName  string    `json:"client_name"`
	ProjectType string    `json:"project_type"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type MessageResponse struct {
	ID          string    `json:"id"`
	SenderType  string    `json:"sender_type"`
	SenderEmail string    `json:"sender_email"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

type MessageListResponse struct {
	Messages []MessageResponse `json:"messages"`
}

type FileResponse struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	FileURL    string    `json:"file_url"`
	FileType   string    `json:"file_type"`
	FileSize   int64     `json:"file_size,omitempty"`
	UploadedBy string    `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

type FileListResponse struct {
	Files []FileResponse `json:"files"`
}

// NotificationStatus reports the best-effort side effect beside the
// primary result, so clients can tell "saved but not emailed" apart
// from a hard failure.
type NotificationStatus struct {
	Attempted bool   `json:"attempted"`
	Sent      bool   `json:"sent"`
	Warning   string `json:"warning,omitempty"`
}

type SubmissionResponse struct {
	ProjectID    string             `json:"project_id"`
	Status       string             `json:"status"`
	Files        []FileOutcome      `json:"files,omitempty"`
	Notification NotificationStatus `json:"notification"`
}

type FileOutcome struct {
	FileName string `json:"file_name"`
	Uploaded bool   `json:"uploaded"`
	FileURL  string `json:"file_url,omitempty"`
}

type StatusUpdateResponse struct {
	Project      ProjectResponse    `json:"project"`
	Notification NotificationStatus `json:"notification"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Email       string `json:"email"`
	IsAdmin     bool   `json:"is_admin"`
}

type SessionResponse struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}
