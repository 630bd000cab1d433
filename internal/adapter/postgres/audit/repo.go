// Package audit implements the audit_logs accessor using PostgreSQL.
// The table is append-only: no update or delete statement exists here.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/emslab/labadmin/internal/adapter/postgres"
	"github.com/emslab/labadmin/internal/domain"
)

// Repo provides audit trail persistence backed by PostgreSQL.
type Repo struct {
	db *postgres.Gateway
}

// New creates a new audit repository.
func New(db *postgres.Gateway) *Repo {
	return &Repo{db: db}
}

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Log appends one audit record and returns the affected-row count. The store
// assigns the id and timestamp; Before/After snapshots and Origin bind as
// SQL NULL when absent.
func (r *Repo) Log(ctx context.Context, rec domain.AuditRecord) (int64, error) {
	beforeJSON, err := marshalSnapshot(rec.Before)
	if err != nil {
		return 0, fmt.Errorf("audit_log marshal before: %w", err)
	}
	afterJSON, err := marshalSnapshot(rec.After)
	if err != nil {
		return 0, fmt.Errorf("audit_log marshal after: %w", err)
	}

	n, err := r.db.Exec(ctx,
		`INSERT INTO audit_logs (actor_id, action, object_type, object_id,
		                         before_json, after_json, ip)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ActorID, rec.Action, rec.ObjectType, rec.ObjectID,
		beforeJSON, afterJSON, rec.Origin,
	)
	if err != nil {
		return 0, postgres.MapError(err, "audit_log", rec.Action)
	}
	return n, nil
}

// ObjectFilter narrows an object history query.
type ObjectFilter struct {
	// Action restricts to one action tag; nil means all actions.
	Action *string
	Limit  int
}

// ByObject returns the change history for one object, newest first.
func (r *Repo) ByObject(ctx context.Context, objectType, objectID string, f ObjectFilter) ([]domain.AuditRecord, error) {
	q := builder.
		Select(recordColumns...).
		From("audit_logs").
		Where(sq.Eq{"object_type": objectType, "object_id": objectID}).
		OrderBy("created_at DESC")

	if f.Action != nil {
		q = q.Where(sq.Eq{"action": *f.Action})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}

	return r.query(ctx, q, objectType)
}

// ByActor returns audit records written for one actor, newest first.
func (r *Repo) ByActor(ctx context.Context, actorID uuid.UUID, limit, offset int) ([]domain.AuditRecord, error) {
	q := builder.
		Select(recordColumns...).
		From("audit_logs").
		Where(sq.Eq{"actor_id": actorID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	return r.query(ctx, q, actorID.String())
}

var recordColumns = []string{
	"id", "actor_id", "action", "object_type", "object_id",
	"before_json", "after_json", "ip", "created_at",
}

// record mirrors an audit_logs row; jsonb columns scan as raw bytes.
type record struct {
	ID         uuid.UUID
	ActorID    uuid.UUID
	Action     string
	ObjectType string
	ObjectID   string
	BeforeJSON []byte  `db:"before_json"`
	AfterJSON  []byte  `db:"after_json"`
	IP         *string `db:"ip"`
	CreatedAt  time.Time
}

func (r *Repo) query(ctx context.Context, q sq.SelectBuilder, ref string) ([]domain.AuditRecord, error) {
	stmt, args, err := q.ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "audit_log", ref)
	}

	var rows []record
	if err := pgxscan.Select(ctx, r.db, &rows, stmt, args...); err != nil {
		return nil, postgres.MapError(err, "audit_log", ref)
	}

	records := make([]domain.AuditRecord, len(rows))
	for i, row := range rows {
		rec := domain.AuditRecord{
			ID:         row.ID,
			ActorID:    row.ActorID,
			Action:     row.Action,
			ObjectType: row.ObjectType,
			ObjectID:   row.ObjectID,
			Origin:     row.IP,
			CreatedAt:  row.CreatedAt,
		}
		if rec.Before, err = unmarshalSnapshot(row.BeforeJSON); err != nil {
			return nil, fmt.Errorf("audit_log %s unmarshal before: %w", row.ID, err)
		}
		if rec.After, err = unmarshalSnapshot(row.AfterJSON); err != nil {
			return nil, fmt.Errorf("audit_log %s unmarshal after: %w", row.ID, err)
		}
		records[i] = rec
	}
	return records, nil
}

// marshalSnapshot keeps absent snapshots as SQL NULL instead of '{}'.
func marshalSnapshot(m map[string]any) ([]byte, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}

func unmarshalSnapshot(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	m := make(map[string]any)
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
