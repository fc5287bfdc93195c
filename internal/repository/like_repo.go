package repository

import (
	"database/sql"
	"fmt"
	"time"

	"gamepal/internal/database"
	"gamepal/internal/models"
)

// LikeRepository handles database operations for likes between children.
// There is at most one row per ordered (from_child, to_child) pair.
type LikeRepository struct {
	db *database.DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *database.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// GetLikeByPair retrieves the like row for an ordered child pair, if any
func (r *LikeRepository) GetLikeByPair(fromChildID, toChildID int64) (*models.Like, error) {
	query := `
		SELECT id, from_child, to_child, status, created_at, approved_at
		FROM child_likes
		WHERE from_child = ? AND to_child = ?
	`
	like := &models.Like{}
	err := r.db.QueryRow(query, fromChildID, toChildID).Scan(
		&like.ID,
		&like.FromChildID,
		&like.ToChildID,
		&like.Status,
		&like.CreatedAt,
		&like.ApprovedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get like: %w", err)
	}
	return like, nil
}

// GetLikeByID retrieves a like by its id
func (r *LikeRepository) GetLikeByID(likeID int64) (*models.Like, error) {
	query := `
		SELECT id, from_child, to_child, status, created_at, approved_at
		FROM child_likes
		WHERE id = ?
	`
	like := &models.Like{}
	err := r.db.QueryRow(query, likeID).Scan(
		&like.ID,
		&like.FromChildID,
		&like.ToChildID,
		&like.Status,
		&like.CreatedAt,
		&like.ApprovedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get like: %w", err)
	}
	return like, nil
}

// CreateLike inserts a fresh pending like for the pair
func (r *LikeRepository) CreateLike(fromChildID, toChildID int64) (*models.Like, error) {
	query := `
		INSERT INTO child_likes (from_child, to_child, status)
		VALUES (?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, fromChildID, toChildID, models.LikeStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to create like: %w", err)
	}

	return &models.Like{
		ID:          id,
		FromChildID: fromChildID,
		ToChildID:   toChildID,
		Status:      models.LikeStatusPending,
		CreatedAt:   time.Now(),
	}, nil
}

// RecycleRejectedLike resets a rejected like back to a fresh pending
// request. Returns false if the row was not in rejected state.
func (r *LikeRepository) RecycleRejectedLike(likeID int64) (bool, error) {
	query := `
		UPDATE child_likes
		SET status = ?, created_at = CURRENT_TIMESTAMP, approved_at = NULL
		WHERE id = ? AND status = ?
	`
	result, err := r.db.Exec(query, models.LikeStatusPending, likeID, models.LikeStatusRejected)
	if err != nil {
		return false, fmt.Errorf("failed to recycle like: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check recycled rows: %w", err)
	}
	return rows == 1, nil
}

// ResolveLikeIfPending moves a pending like to approved or rejected.
// The status check lives in the UPDATE itself so two concurrent decisions
// can never both succeed. Returns false if the row was no longer pending.
func (r *LikeRepository) ResolveLikeIfPending(likeID int64, status models.LikeStatus) (bool, error) {
	var approvedAt interface{}
	if status == models.LikeStatusApproved {
		approvedAt = time.Now().UTC()
	}

	query := `
		UPDATE child_likes
		SET status = ?, approved_at = ?
		WHERE id = ? AND status = ?
	`
	result, err := r.db.Exec(query, status, approvedAt, likeID, models.LikeStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to resolve like: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check resolved rows: %w", err)
	}
	return rows == 1, nil
}

// DeleteLikeIfPending withdraws a pending like by deleting its row.
// Returns false if the row was no longer pending.
func (r *LikeRepository) DeleteLikeIfPending(likeID int64) (bool, error) {
	query := "DELETE FROM child_likes WHERE id = ? AND status = ?"
	result, err := r.db.Exec(query, likeID, models.LikeStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to withdraw like: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check withdrawn rows: %w", err)
	}
	return rows == 1, nil
}

// likeViewColumns is the projection shared by the pending views. It never
// touches guardian contact columns.
const likeViewColumns = `
	l.id, l.status, l.created_at, l.approved_at,
	mc.id, mc.guardian_id, mc.name, mc.age, mc.bio, mc.avatar, mc.created_at, mc.updated_at,
	oc.id, oc.guardian_id, oc.name, oc.age, oc.bio, oc.avatar, oc.created_at, oc.updated_at
`

// GetOutgoingPending lists pending likes sent by a guardian's children
func (r *LikeRepository) GetOutgoingPending(guardianID int64) ([]models.LikeView, error) {
	query := `
		SELECT ` + likeViewColumns + `
		FROM child_likes l
		JOIN children mc ON mc.id = l.from_child
		JOIN children oc ON oc.id = l.to_child
		WHERE mc.guardian_id = ? AND l.status = ?
		ORDER BY l.created_at DESC, l.id DESC
	`
	return r.queryLikeViews(query, models.DirectionOutgoing, guardianID, models.LikeStatusPending)
}

// GetIncomingPending lists pending likes awaiting a guardian's decision
func (r *LikeRepository) GetIncomingPending(guardianID int64) ([]models.LikeView, error) {
	query := `
		SELECT ` + likeViewColumns + `
		FROM child_likes l
		JOIN children mc ON mc.id = l.to_child
		JOIN children oc ON oc.id = l.from_child
		WHERE mc.guardian_id = ? AND l.status = ?
		ORDER BY l.created_at DESC, l.id DESC
	`
	return r.queryLikeViews(query, models.DirectionIncoming, guardianID, models.LikeStatusPending)
}

// GetApprovedMatches lists a guardian's approved matches, in either
// direction. This is the only query in the codebase that selects the other
// guardian's name and email: contact details exist nowhere outside an
// approved match.
func (r *LikeRepository) GetApprovedMatches(guardianID int64) ([]models.LikeView, error) {
	query := `
		SELECT ` + likeViewColumns + `,
			g.name, g.email
		FROM child_likes l
		JOIN children mc ON (mc.id = l.from_child OR mc.id = l.to_child) AND mc.guardian_id = ?
		JOIN children oc ON oc.id = CASE WHEN mc.id = l.from_child THEN l.to_child ELSE l.from_child END
		JOIN guardians g ON g.id = oc.guardian_id
		WHERE l.status = ?
		ORDER BY l.approved_at DESC, l.id DESC
	`
	rows, err := r.db.Query(query, guardianID, models.LikeStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to query approved matches: %w", err)
	}
	defer rows.Close()

	var views []models.LikeView
	for rows.Next() {
		var v models.LikeView
		if err := rows.Scan(
			&v.LikeID, &v.Status, &v.CreatedAt, &v.ApprovedAt,
			&v.MyChild.ID, &v.MyChild.GuardianID, &v.MyChild.Name, &v.MyChild.Age,
			&v.MyChild.Bio, &v.MyChild.Avatar, &v.MyChild.CreatedAt, &v.MyChild.UpdatedAt,
			&v.OtherChild.ID, &v.OtherChild.GuardianID, &v.OtherChild.Name, &v.OtherChild.Age,
			&v.OtherChild.Bio, &v.OtherChild.Avatar, &v.OtherChild.CreatedAt, &v.OtherChild.UpdatedAt,
			&v.GuardianName, &v.GuardianEmail,
		); err != nil {
			return nil, fmt.Errorf("failed to scan approved match: %w", err)
		}
		if v.MyChild.ID == v.OtherChild.ID {
			// Both children of a match belong to the same guardian is
			// impossible; the CASE join guards against a self-pair anyway.
			continue
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read approved matches: %w", err)
	}

	return views, nil
}

func (r *LikeRepository) queryLikeViews(query string, direction models.LikeDirection, args ...interface{}) ([]models.LikeView, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query likes: %w", err)
	}
	defer rows.Close()

	var views []models.LikeView
	for rows.Next() {
		var v models.LikeView
		if err := rows.Scan(
			&v.LikeID, &v.Status, &v.CreatedAt, &v.ApprovedAt,
			&v.MyChild.ID, &v.MyChild.GuardianID, &v.MyChild.Name, &v.MyChild.Age,
			&v.MyChild.Bio, &v.MyChild.Avatar, &v.MyChild.CreatedAt, &v.MyChild.UpdatedAt,
			&v.OtherChild.ID, &v.OtherChild.GuardianID, &v.OtherChild.Name, &v.OtherChild.Age,
			&v.OtherChild.Bio, &v.OtherChild.Avatar, &v.OtherChild.CreatedAt, &v.OtherChild.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan like view: %w", err)
		}
		v.Direction = direction
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read like rows: %w", err)
	}

	return views, nil
}

// GetOutgoingStatuses returns the active like status, keyed by target
// child id, for every like sent by the given child. Used to decorate the
// matchmaking list.
func (r *LikeRepository) GetOutgoingStatuses(fromChildID int64) (map[int64]models.LikeStatus, error) {
	query := `
		SELECT to_child, status
		FROM child_likes
		WHERE from_child = ?
	`
	rows, err := r.db.Query(query, fromChildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query like statuses: %w", err)
	}
	defer rows.Close()

	statuses := make(map[int64]models.LikeStatus)
	for rows.Next() {
		var toChildID int64
		var status models.LikeStatus
		if err := rows.Scan(&toChildID, &status); err != nil {
			return nil, fmt.Errorf("failed to scan like status: %w", err)
		}
		statuses[toChildID] = status
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read like statuses: %w", err)
	}

	return statuses, nil
}
