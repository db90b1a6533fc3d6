// dao/relation_dao.go
package dao

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/dev-rajatverma/doorward/audit"
	doorward_errors "github.com/dev-rajatverma/doorward/errors"
	logger "github.com/dev-rajatverma/doorward/logging"
	"github.com/dev-rajatverma/doorward/model"
)

// RelationDAO mutates the vendor's subject-terminal-authmethod table
// directly. It is used only when the control-plane path has failed; the
// datastore has no automatic device propagation, so every write marks the
// row pending synchronization.
type RelationDAO struct {
	DB           *sql.DB
	AuditService audit.Service
}

func NewRelationDAO(db *sql.DB, auditService audit.Service) *RelationDAO {
	return &RelationDAO{DB: db, AuditService: auditService}
}

// FindRelation reports whether a row exists for the relation key.
func (dao *RelationDAO) FindRelation(ctx context.Context, subjectKey, terminal int64, method model.AuthMethod) (bool, error) {
	var count int
	err := dao.DB.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM t_terminal_auth WHERE user_id = ? AND terminal_id = ? AND auth_mode = ?",
		subjectKey, terminal, int(method),
	).Scan(&count)
	if err != nil {
		logger.Error("Relation existence check failed",
			zap.Int64("subjectKey", subjectKey),
			zap.Int64("terminal", terminal),
			zap.Error(err))
		return false, doorward_errors.ErrDatabaseOperation
	}
	return count > 0, nil
}

// UpsertRelation updates the row for the relation's key if present and
// inserts it otherwise. Idempotent: repeating the same grant updates the
// existing row rather than duplicating it.
func (dao *RelationDAO) UpsertRelation(ctx context.Context, rel model.Relation) error {
	start := time.Now()

	exists, err := dao.FindRelation(ctx, rel.SubjectKey, rel.Terminal, rel.AuthMethod)
	if err != nil {
		return err
	}

	var nullableEnd any
	if !rel.End.IsZero() {
		nullableEnd = rel.End
	}
	var nullableStart any
	if !rel.Start.IsZero() {
		nullableStart = rel.Start
	}

	if exists {
		_, err = dao.DB.ExecContext(ctx,
			`UPDATE t_terminal_auth
			 SET schedule_id = ?, start_at = ?, end_at = ?, status = ?, pending_sync = 1, updated_at = NOW()
			 WHERE user_id = ? AND terminal_id = ? AND auth_mode = ?`,
			rel.ScheduleID, nullableStart, nullableEnd, string(rel.Status),
			rel.SubjectKey, rel.Terminal, int(rel.AuthMethod))
	} else {
		_, err = dao.DB.ExecContext(ctx,
			`INSERT INTO t_terminal_auth
			 (user_id, terminal_id, auth_mode, schedule_id, start_at, end_at, status, pending_sync, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, 1, NOW())`,
			rel.SubjectKey, rel.Terminal, int(rel.AuthMethod),
			rel.ScheduleID, nullableStart, nullableEnd, string(rel.Status))
	}
	if err != nil {
		logger.Error("Relation upsert failed",
			zap.Int64("subjectKey", rel.SubjectKey),
			zap.Int64("terminal", rel.Terminal),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return doorward_errors.ErrDatabaseOperation
	}

	dao.logFallbackWrite(ctx, rel, exists)
	return nil
}

// DeleteRelation removes the row for the relation key if present.
func (dao *RelationDAO) DeleteRelation(ctx context.Context, subjectKey, terminal int64, method model.AuthMethod) error {
	_, err := dao.DB.ExecContext(ctx,
		"DELETE FROM t_terminal_auth WHERE user_id = ? AND terminal_id = ? AND auth_mode = ?",
		subjectKey, terminal, int(method))
	if err != nil {
		logger.Error("Relation delete failed",
			zap.Int64("subjectKey", subjectKey),
			zap.Int64("terminal", terminal),
			zap.Error(err))
		return doorward_errors.ErrDatabaseOperation
	}

	dao.logFallbackWrite(ctx, model.Relation{SubjectKey: subjectKey, Terminal: terminal, AuthMethod: method}, true)
	return nil
}

// PendingSyncTerminals lists terminals with fallback-written rows that the
// device has not yet picked up, for operator inspection.
func (dao *RelationDAO) PendingSyncTerminals(ctx context.Context, subjectKey int64) ([]int64, error) {
	rows, err := dao.DB.QueryContext(ctx,
		"SELECT terminal_id FROM t_terminal_auth WHERE user_id = ? AND pending_sync = 1", subjectKey)
	if err != nil {
		return nil, doorward_errors.ErrDatabaseOperation
	}
	defer rows.Close()

	var terminals []int64
	for rows.Next() {
		var t int64
		if err := rows.Scan(&t); err != nil {
			return nil, doorward_errors.ErrDatabaseOperation
		}
		terminals = append(terminals, t)
	}
	return terminals, rows.Err()
}

func (dao *RelationDAO) logFallbackWrite(ctx context.Context, rel model.Relation, existed bool) {
	if dao.AuditService == nil {
		return
	}
	entry := audit.AccessChangeLog{
		Timestamp:    time.Now(),
		Action:       "DATASTORE_FALLBACK_WRITE",
		SubjectKey:   rel.SubjectKey,
		Targets:      []int64{rel.Terminal},
		StrategyUsed: string(model.StrategyDatastore),
		Success:      true,
		Message:      map[bool]string{true: "updated existing relation row", false: "inserted relation row"}[existed],
	}
	if err := dao.AuditService.LogChange(ctx, entry); err != nil {
		logger.Error("Failed to write fallback audit log", zap.Error(err))
	}
}
