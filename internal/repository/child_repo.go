package repository

import (
	"database/sql"
	"fmt"
	"time"

	"gamepal/internal/database"
	"gamepal/internal/models"
)

// ChildRepository handles database operations for child profiles and
// their attribute sets
type ChildRepository struct {
	db *database.DB
}

// NewChildRepository creates a new child repository
func NewChildRepository(db *database.DB) *ChildRepository {
	return &ChildRepository{db: db}
}

// CreateChild inserts a new child profile together with its attribute
// selections, in one transaction
func (r *ChildRepository) CreateChild(child *models.Child) (*models.Child, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO children (guardian_id, name, age, bio, avatar)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := tx.ExecReturningID(query, child.GuardianID, child.Name, child.Age, child.Bio, child.Avatar)
	if err != nil {
		return nil, fmt.Errorf("failed to create child: %w", err)
	}

	if err := insertAttributes(tx, id, child.Attributes); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit child creation: %w", err)
	}

	created := *child
	created.ID = id
	created.CreatedAt = time.Now()
	created.UpdatedAt = time.Now()
	return &created, nil
}

// GetChildByID retrieves a child with its attribute sets
func (r *ChildRepository) GetChildByID(childID int64) (*models.Child, error) {
	query := `
		SELECT id, guardian_id, name, age, bio, avatar, created_at, updated_at
		FROM children
		WHERE id = ?
	`
	child := &models.Child{}
	err := r.db.QueryRow(query, childID).Scan(
		&child.ID,
		&child.GuardianID,
		&child.Name,
		&child.Age,
		&child.Bio,
		&child.Avatar,
		&child.CreatedAt,
		&child.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get child: %w", err)
	}

	attrs, err := r.loadAttributes([]int64{child.ID})
	if err != nil {
		return nil, err
	}
	child.Attributes = attrs[child.ID]
	if child.Attributes == nil {
		child.Attributes = models.AttributeSets{}
	}

	return child, nil
}

// GetGuardianChildren retrieves all children belonging to a guardian
func (r *ChildRepository) GetGuardianChildren(guardianID int64) ([]models.Child, error) {
	return r.listChildren("guardian_id = ?", "created_at ASC", guardianID)
}

// ListChildrenExcluding retrieves the candidate pool for matching: every
// child that belongs to a different guardian
func (r *ChildRepository) ListChildrenExcluding(guardianID int64) ([]models.Child, error) {
	return r.listChildren("guardian_id != ?", "id ASC", guardianID)
}

func (r *ChildRepository) listChildren(where, order string, args ...interface{}) ([]models.Child, error) {
	query := `
		SELECT id, guardian_id, name, age, bio, avatar, created_at, updated_at
		FROM children
		WHERE ` + where + `
		ORDER BY ` + order
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query children: %w", err)
	}
	defer rows.Close()

	var children []models.Child
	var ids []int64
	for rows.Next() {
		var child models.Child
		if err := rows.Scan(
			&child.ID,
			&child.GuardianID,
			&child.Name,
			&child.Age,
			&child.Bio,
			&child.Avatar,
			&child.CreatedAt,
			&child.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan child: %w", err)
		}
		children = append(children, child)
		ids = append(ids, child.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read child rows: %w", err)
	}

	attrs, err := r.loadAttributes(ids)
	if err != nil {
		return nil, err
	}
	for i := range children {
		children[i].Attributes = attrs[children[i].ID]
		if children[i].Attributes == nil {
			children[i].Attributes = models.AttributeSets{}
		}
	}

	return children, nil
}

// UpdateChild replaces a child's profile fields and attribute sets, in one
// transaction. Attribute replacement is a full delete-and-reinsert of the
// child's selections.
func (r *ChildRepository) UpdateChild(child *models.Child) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE children
		SET name = ?, age = ?, bio = ?, avatar = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	if _, err := tx.Exec(query, child.Name, child.Age, child.Bio, child.Avatar, child.ID); err != nil {
		return fmt.Errorf("failed to update child: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM child_attributes WHERE child_id = ?", child.ID); err != nil {
		return fmt.Errorf("failed to clear child attributes: %w", err)
	}
	if err := insertAttributes(tx, child.ID, child.Attributes); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit child update: %w", err)
	}
	return nil
}

// DeleteChild removes a child profile. Its attribute rows and any likes
// referencing it cascade at the database level.
func (r *ChildRepository) DeleteChild(childID int64) error {
	if _, err := r.db.Exec("DELETE FROM children WHERE id = ?", childID); err != nil {
		return fmt.Errorf("failed to delete child: %w", err)
	}
	return nil
}

// insertAttributes writes a child's attribute selections inside tx
func insertAttributes(tx *database.Tx, childID int64, attrs models.AttributeSets) error {
	for _, ids := range attrs {
		for _, valueID := range ids {
			query := "INSERT INTO child_attributes (child_id, value_id) VALUES (?, ?)"
			if _, err := tx.Exec(query, childID, valueID); err != nil {
				return fmt.Errorf("failed to insert child attribute %d: %w", valueID, err)
			}
		}
	}
	return nil
}

// loadAttributes fetches the attribute sets for the given children, keyed
// by child id. Values are joined against the taxonomy so a dangling
// reference can never surface.
func (r *ChildRepository) loadAttributes(childIDs []int64) (map[int64]models.AttributeSets, error) {
	result := make(map[int64]models.AttributeSets, len(childIDs))
	if len(childIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT ca.child_id, tv.category, tv.id
		FROM child_attributes ca
		JOIN taxonomy_values tv ON tv.id = ca.value_id
		WHERE ca.child_id IN (` + placeholders(len(childIDs)) + `)
		ORDER BY ca.child_id, tv.id
	`
	args := make([]interface{}, len(childIDs))
	for i, id := range childIDs {
		args[i] = id
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query child attributes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var childID, valueID int64
		var category models.Category
		if err := rows.Scan(&childID, &category, &valueID); err != nil {
			return nil, fmt.Errorf("failed to scan child attribute: %w", err)
		}
		if result[childID] == nil {
			result[childID] = models.AttributeSets{}
		}
		result[childID][category] = append(result[childID][category], valueID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attribute rows: %w", err)
	}

	return result, nil
}

// placeholders builds a "?, ?, ?" list of the given length
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	s := "?"
	for i := 1; i < n; i++ {
		s += ", ?"
	}
	return s
}
