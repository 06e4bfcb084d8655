package supabase

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"webstarter-backend/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

// NewDatabaseClientFromDB wraps an existing connection. Used by tests
// to inject a sqlmock connection.
func NewDatabaseClientFromDB(db *sql.DB) *DatabaseClient {
	return &DatabaseClient{db: db}
}

// IsDuplicateKey reports whether err is a Postgres unique violation.
func IsDuplicateKey(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

type CreateProjectParams struct {
	ClientName   string
	ClientEmail  string
	ClientPhone  string
	ProjectType  string
	Description  string
	Colors       string
	Budget       string
	Deadline     string
	Inspirations string
}

const projectColumns = `id, client_name, client_email, client_phone, project_type, description,
		colors, budget, deadline, inspirations, status, created_at, updated_at`

func scanProject(row interface{ Scan(...interface{}) error }) (*models.Project, error) {
	var p models.Project
	err := row.Scan(
		&p.ID, &p.ClientName, &p.ClientEmail, &p.ClientPhone, &p.ProjectType,
		&p.Description, &p.Colors, &p.Budget, &p.Deadline, &p.Inspirations,
		&p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject inserts a new intake request. Status is always
// 'nouvelle' at creation; callers cannot supply one.
func (d *DatabaseClient) CreateProject(params CreateProjectParams) (*models.Project, error) {
	project, err := scanProject(d.db.QueryRow(`
		INSERT INTO projects (client_name, client_email, client_phone, project_type, description,
			colors, budget, deadline, inspirations, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'nouvelle')
		RETURNING `+projectColumns,
		params.ClientName, params.ClientEmail, nullable(params.ClientPhone),
		params.ProjectType, params.Description, nullable(params.Colors),
		nullable(params.Budget), nullable(params.Deadline), nullable(params.Inspirations),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

func (d *DatabaseClient) GetProject(projectID uuid.UUID) (*models.Project, error) {
	project, err := scanProject(d.db.QueryRow(`
		SELECT `+projectColumns+`
		FROM projects
		WHERE id = $1
	`, projectID))
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// ListProjects returns projects newest first, optionally filtered by status.
func (d *DatabaseClient) ListProjects(status string) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *p)
	}

	return projects, nil
}

// UpdateProjectStatus moves a project to the given status. No
// transition table is consulted: any status can follow any other.
// Concurrent updates are last-write-wins.
func (d *DatabaseClient) UpdateProjectStatus(projectID uuid.UUID, status string) (*models.Project, error) {
	project, err := scanProject(d.db.QueryRow(`
		UPDATE projects
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+projectColumns,
		status, projectID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to update project status: %w", err)
	}
	return project, nil
}

func (d *DatabaseClient) CreateMessage(projectID uuid.UUID, senderType, senderEmail, message string) (*models.Message, error) {
	var m models.Message
	err := d.db.QueryRow(`
		INSERT INTO messages (project_id, sender_type, sender_email, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, project_id, sender_type, sender_email, message, created_at
	`, projectID, senderType, senderEmail, message).Scan(
		&m.ID, &m.ProjectID, &m.SenderType, &m.SenderEmail, &m.Message, &m.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return &m, nil
}

// ListMessages returns the thread oldest first. Messages are
// append-only; there is no update or delete path.
func (d *DatabaseClient) ListMessages(projectID uuid.UUID) ([]models.Message, error) {
	rows, err := d.db.Query(`
		SELECT id, project_id, sender_type, sender_email, message, created_at
		FROM messages
		WHERE project_id = $1
		ORDER BY created_at ASC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		err := rows.Scan(&m.ID, &m.ProjectID, &m.SenderType, &m.SenderEmail, &m.Message, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, nil
}

func (d *DatabaseClient) CreateProjectFile(file *models.ProjectFile) error {
	_, err := d.db.Exec(`
		INSERT INTO project_files (project_id, file_name, file_url, file_type, file_size, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, file.ProjectID, file.FileName, file.FileURL, file.FileType, file.FileSize, file.UploadedBy)
	if err != nil {
		return fmt.Errorf("failed to create project file: %w", err)
	}
	return nil
}

func (d *DatabaseClient) ListProjectFiles(projectID uuid.UUID) ([]models.ProjectFile, error) {
	rows, err := d.db.Query(`
		SELECT id, project_id, file_name, file_url, file_type, file_size, uploaded_by, created_at
		FROM project_files
		WHERE project_id = $1
		ORDER BY created_at DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project files: %w", err)
	}
	defer rows.Close()

	var files []models.ProjectFile
	for rows.Next() {
		var f models.ProjectFile
		err := rows.Scan(&f.ID, &f.ProjectID, &f.FileName, &f.FileURL, &f.FileType, &f.FileSize, &f.UploadedBy, &f.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project file: %w", err)
		}
		files = append(files, f)
	}

	return files, nil
}

// IsAdmin checks the admin_users projection: a matching active row
// grants admin capability on top of base authentication.
func (d *DatabaseClient) IsAdmin(email string) (bool, error) {
	var count int
	err := d.db.QueryRow(`
		SELECT COUNT(*) FROM admin_users
		WHERE email = $1 AND is_active = TRUE
	`, email).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check admin: %w", err)
	}
	return count > 0, nil
}

// CreateAdmin inserts an admin row. A duplicate email is recovered by
// reactivating and renaming the existing row instead of failing.
func (d *DatabaseClient) CreateAdmin(email, displayName string) (*models.AdminUser, error) {
	admin, err := d.scanAdmin(d.db.QueryRow(`
		INSERT INTO admin_users (email, display_name, is_active)
		VALUES ($1, $2, TRUE)
		RETURNING id, email, display_name, is_active, created_at
	`, email, nullable(displayName)))
	if err == nil {
		return admin, nil
	}
	if !IsDuplicateKey(err) {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	admin, err = d.scanAdmin(d.db.QueryRow(`
		UPDATE admin_users
		SET display_name = COALESCE($2, display_name), is_active = TRUE
		WHERE email = $1
		RETURNING id, email, display_name, is_active, created_at
	`, email, nullable(displayName)))
	if err != nil {
		return nil, fmt.Errorf("failed to reactivate admin: %w", err)
	}
	return admin, nil
}

// DeactivateAdmin revokes admin capability without deleting the row,
// so the identity mirror stays intact.
func (d *DatabaseClient) DeactivateAdmin(email string) error {
	result, err := d.db.Exec(`
		UPDATE admin_users
		SET is_active = FALSE
		WHERE email = $1
	`, email)
	if err != nil {
		return fmt.Errorf("failed to deactivate admin: %w", err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (d *DatabaseClient) scanAdmin(row interface{ Scan(...interface{}) error }) (*models.AdminUser, error) {
	var a models.AdminUser
	err := row.Scan(&a.ID, &a.Email, &a.DisplayName, &a.IsActive, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// SaveDeviceToken registers an FCM token for push delivery. The same
// token re-registered by another session just changes owner.
func (d *DatabaseClient) SaveDeviceToken(token, adminEmail string) error {
	_, err := d.db.Exec(`
		INSERT INTO device_tokens (token, admin_email)
		VALUES ($1, $2)
		ON CONFLICT (token) DO UPDATE SET admin_email = EXCLUDED.admin_email
	`, token, adminEmail)
	if err != nil {
		return fmt.Errorf("failed to save device token: %w", err)
	}
	return nil
}

func (d *DatabaseClient) ListDeviceTokens() ([]string, error) {
	rows, err := d.db.Query(`SELECT token FROM device_tokens`)
	if err != nil {
		return nil, fmt.Errorf("failed to list device tokens: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		tokens = append(tokens, token)
	}

	return tokens, nil
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
