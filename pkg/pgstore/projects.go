package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"gestionale/pkg/models"
)

func (s *Store) GetProjects(ctx context.Context) (projects []models.Project, err error) {
	start := time.Now()
	defer func() { s.observe("GetProjects", start, err) }()
	if err = s.db.SelectContext(ctx, &projects, `SELECT * FROM projects ORDER BY id`); err != nil {
		return nil, fmt.Errorf("err getting projects: %w", err)
	}
	return projects, nil
}

func (s *Store) CreateProject(ctx context.Context, project models.ProjectRequest) (created models.Project, err error) {
	start := time.Now()
	defer func() { s.observe("CreateProject", start, err) }()
	query := `
INSERT INTO projects (name, client_id, area, status, notes)
VALUES ($1, $2, $3, COALESCE(NULLIF($4, ''), 'In Corso'), $5)
RETURNING *;`
	err = s.db.GetContext(ctx, &created, query,
		orEmpty(project.Name), project.ClientID, orEmpty(project.Area),
		orEmpty(project.Status), orEmpty(project.Notes))
	if err != nil {
		return models.Project{}, fmt.Errorf("err creating project: %w", err)
	}
	return created, nil
}

func (s *Store) GetProject(ctx context.Context, id int) (project models.Project, err error) {
	start := time.Now()
	defer func() { s.observe("GetProject", start, err) }()
	err = s.db.GetContext(ctx, &project, `SELECT * FROM projects WHERE id = $1;`, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Project{}, ErrProjectNotFound
	case err != nil:
		return models.Project{}, fmt.Errorf("err getting project %d: %w", id, err)
	}
	return project, nil
}

// UpdateProject mirrors UpdateClient: version check folded into the WHERE
// clause, zero rows = conflict, legacy unconditional path when
// ExpectedVersion is nil.
func (s *Store) UpdateProject(ctx context.Context, id int, project models.ProjectRequest) (updated models.Project, err error) {
	start := time.Now()
	defer func() { s.observe("UpdateProject", start, err) }()
	query := `
UPDATE projects
SET name       = COALESCE($2, name),
    client_id  = COALESCE($3, client_id),
    area       = COALESCE($4, area),
    status     = COALESCE($5, status),
    notes      = COALESCE($6, notes),
    version    = version + 1,
    updated_at = now()
WHERE id = $1 AND ($7::int IS NULL OR version = $7)
RETURNING *;`
	err = s.db.GetContext(ctx, &updated, query, id,
		project.Name, project.ClientID, project.Area, project.Status,
		project.Notes, project.ExpectedVersion)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		current, errCur := s.GetProject(ctx, id)
		if errCur != nil {
			err = errCur
			return models.Project{}, err
		}
		err = &models.VersionConflictError{
			Expected: *project.ExpectedVersion,
			Current:  current.Version,
			Server:   current,
		}
		return models.Project{}, err
	case err != nil:
		return models.Project{}, fmt.Errorf("err updating project %d: %w", id, err)
	}
	return updated, nil
}

func (s *Store) DeleteProject(ctx context.Context, id int) (deleted models.Project, err error) {
	start := time.Now()
	defer func() { s.observe("DeleteProject", start, err) }()
	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, errTx := tx.ExecContext(ctx, `DELETE FROM project_teams WHERE project_id = $1`, id); errTx != nil {
			return fmt.Errorf("err deleting project team: %w", errTx)
		}
		if _, errTx := tx.ExecContext(ctx, `UPDATE contracts SET project_id = NULL WHERE project_id = $1`, id); errTx != nil {
			return fmt.Errorf("err unlinking contracts: %w", errTx)
		}
		if _, errTx := tx.ExecContext(ctx, `UPDATE tasks SET project_id = NULL WHERE project_id = $1`, id); errTx != nil {
			return fmt.Errorf("err unlinking tasks: %w", errTx)
		}
		errTx := tx.GetContext(ctx, &deleted, `DELETE FROM projects WHERE id = $1 RETURNING *;`, id)
		switch {
		case errors.Is(errTx, sql.ErrNoRows):
			return ErrProjectNotFound
		case errTx != nil:
			return fmt.Errorf("err deleting project %d: %w", id, errTx)
		}
		return nil
	})
	if err != nil {
		return models.Project{}, err
	}
	return deleted, nil
}

func (s *Store) ProjectTeam(ctx context.Context, projectID int) (team []models.TeamMember, err error) {
	start := time.Now()
	defer func() { s.observe("ProjectTeam", start, err) }()
	err = s.db.SelectContext(ctx, &team,
		`SELECT project_id, user_id FROM project_teams WHERE project_id = $1 ORDER BY user_id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("err getting project team %d: %w", projectID, err)
	}
	return team, nil
}

func (s *Store) AssignToProject(ctx context.Context, projectID, userID int) (err error) {
	start := time.Now()
	defer func() { s.observe("AssignToProject", start, err) }()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO project_teams (project_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, projectID, userID)
	if err != nil {
		return fmt.Errorf("err assigning user %d to project %d: %w", userID, projectID, err)
	}
	return nil
}
