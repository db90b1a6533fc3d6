// dao/subject_dao.go
package dao

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	doorward_errors "github.com/dev-rajatverma/doorward/errors"
	logger "github.com/dev-rajatverma/doorward/logging"
)

// SubjectDAO reads subject rows directly from the vendor's backing
// datastore. It is the fallback side of identity resolution and is
// strictly read-only.
type SubjectDAO struct {
	DB *sql.DB
}

func NewSubjectDAO(db *sql.DB) *SubjectDAO {
	return &SubjectDAO{DB: db}
}

// KeyByExternalID looks up the internal key by exact external identifier.
func (dao *SubjectDAO) KeyByExternalID(ctx context.Context, externalID string) (int64, error) {
	start := time.Now()
	var key int64
	err := dao.DB.QueryRowContext(ctx,
		"SELECT user_id FROM t_user WHERE external_id = ?", externalID,
	).Scan(&key)
	if err == sql.ErrNoRows {
		return 0, doorward_errors.ErrSubjectNotFound
	}
	if err != nil {
		logger.Error("Subject lookup by external id failed",
			zap.String("externalID", externalID),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return 0, doorward_errors.ErrDatabaseOperation
	}
	return key, nil
}

// KeyByNumericID looks up the internal key treating the identifier as the
// numeric key itself. Used only when the external identifier is fully
// numeric.
func (dao *SubjectDAO) KeyByNumericID(ctx context.Context, numericID int64) (int64, error) {
	var key int64
	err := dao.DB.QueryRowContext(ctx,
		"SELECT user_id FROM t_user WHERE user_id = ?", numericID,
	).Scan(&key)
	if err == sql.ErrNoRows {
		return 0, doorward_errors.ErrSubjectNotFound
	}
	if err != nil {
		logger.Error("Subject lookup by numeric id failed",
			zap.Int64("numericID", numericID),
			zap.Error(err))
		return 0, doorward_errors.ErrDatabaseOperation
	}
	return key, nil
}
