package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/scopemate/scopemate/pkg/models"
)

// Revision is one saved version of a plan.
type Revision struct {
	ID        int64
	SavedAt   time.Time
	PlanFile  string
	RootTitle string
	Provider  string
	TaskCount int
	Tasks     []models.Task
}

// RecordRevision stores a snapshot of the plan and returns its revision id.
// A nil receiver is a no-op so history stays optional for callers.
func (db *DB) RecordRevision(tasks []models.Task, provider, planFile string) (int64, error) {
	if db == nil {
		return 0, nil
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	payload, err := json.Marshal(tasks)
	if err != nil {
		return 0, fmt.Errorf("marshal revision payload: %w", err)
	}

	result, err := db.Exec(`
		INSERT INTO revisions (saved_at, plan_file, root_title, provider, task_count, payload)
		VALUES (?, ?, ?, ?, ?, ?)
	`, formatTime(time.Now()), planFile, rootTitle(tasks), provider, len(tasks), string(payload))
	if err != nil {
		return 0, fmt.Errorf("insert revision: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get revision id: %w", err)
	}
	return id, nil
}

// ListRevisions returns revision summaries newest first, without task
// payloads. A limit of 0 or less returns all revisions. A nil receiver
// returns no revisions.
func (db *DB) ListRevisions(limit int) ([]Revision, error) {
	if db == nil {
		return nil, nil
	}

	query := `
		SELECT id, saved_at, plan_file, root_title, provider, task_count
		FROM revisions
		ORDER BY saved_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	var revisions []Revision
	for rows.Next() {
		rev, err := scanRevisionSummary(rows)
		if err != nil {
			return nil, err
		}
		revisions = append(revisions, rev)
	}
	return revisions, rows.Err()
}

// GetRevision returns a revision including its task snapshot, or nil if
// no revision has that id.
func (db *DB) GetRevision(id int64) (*Revision, error) {
	if db == nil {
		return nil, nil
	}

	row := db.QueryRow(`
		SELECT id, saved_at, plan_file, root_title, provider, task_count, payload
		FROM revisions
		WHERE id = ?
	`, id)

	var rev Revision
	var savedAt, payload string
	err := row.Scan(&rev.ID, &savedAt, &rev.PlanFile, &rev.RootTitle, &rev.Provider, &rev.TaskCount, &payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get revision: %w", err)
	}

	rev.SavedAt, err = parseTime(savedAt)
	if err != nil {
		return nil, fmt.Errorf("parse revision time: %w", err)
	}
	if err := json.Unmarshal([]byte(payload), &rev.Tasks); err != nil {
		return nil, fmt.Errorf("unmarshal revision payload: %w", err)
	}
	return &rev, nil
}

// LatestRevision returns the most recent revision including its task
// snapshot, or nil if the history is empty.
func (db *DB) LatestRevision() (*Revision, error) {
	if db == nil {
		return nil, nil
	}

	row := db.QueryRow(`SELECT id FROM revisions ORDER BY saved_at DESC, id DESC LIMIT 1`)

	var id int64
	err := row.Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest revision: %w", err)
	}
	return db.GetRevision(id)
}

// rootTitle picks the title of the first root task, falling back to the
// first task when no task is parentless.
func rootTitle(tasks []models.Task) string {
	for _, t := range tasks {
		if t.ParentID == "" {
			return t.Title
		}
	}
	if len(tasks) > 0 {
		return tasks[0].Title
	}
	return ""
}

func scanRevisionSummary(rows *sql.Rows) (Revision, error) {
	var rev Revision
	var savedAt string
	if err := rows.Scan(&rev.ID, &savedAt, &rev.PlanFile, &rev.RootTitle, &rev.Provider, &rev.TaskCount); err != nil {
		return Revision{}, fmt.Errorf("scan revision: %w", err)
	}

	parsed, err := parseTime(savedAt)
	if err != nil {
		return Revision{}, fmt.Errorf("parse revision time: %w", err)
	}
	rev.SavedAt = parsed
	return rev, nil
}
