// dao/relation_dao_test.go
package dao_test

import (
	"context"
	"os"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/dev-rajatverma/doorward/dao"
	doorward_errors "github.com/dev-rajatverma/doorward/errors"
	logger "github.com/dev-rajatverma/doorward/logging"
	"github.com/dev-rajatverma/doorward/model"
)

func TestMain(m *testing.M) {
	logger.InitLogger("../logging")
	defer logger.Sync()
	os.Exit(m.Run())
}

func relationFixture() model.Relation {
	return model.Relation{
		SubjectKey: 4012,
		Terminal:   7,
		AuthMethod: model.AuthMethodCard,
		ScheduleID: 1,
		Status:     model.RelationGranted,
	}
}

func TestRelationDAO_UpsertRelation(t *testing.T) {
	ctx := context.Background()

	t.Run("Inserts when no row exists for the key", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT COUNT\(1\) FROM t_terminal_auth`).
			WithArgs(int64(4012), int64(7), int(model.AuthMethodCard)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`INSERT INTO t_terminal_auth`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err = dao.NewRelationDAO(db, nil).UpsertRelation(ctx, relationFixture())

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Updates the existing row instead of duplicating it", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT COUNT\(1\) FROM t_terminal_auth`).
			WithArgs(int64(4012), int64(7), int(model.AuthMethodCard)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectExec(`UPDATE t_terminal_auth`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = dao.NewRelationDAO(db, nil).UpsertRelation(ctx, relationFixture())

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Write failure surfaces as a database operation error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT COUNT\(1\) FROM t_terminal_auth`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`INSERT INTO t_terminal_auth`).
			WillReturnError(assert.AnError)

		err = dao.NewRelationDAO(db, nil).UpsertRelation(ctx, relationFixture())

		assert.ErrorIs(t, err, doorward_errors.ErrDatabaseOperation)
	})
}

func TestRelationDAO_DeleteRelation(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM t_terminal_auth`).
		WithArgs(int64(4012), int64(7), int(model.AuthMethodCard)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = dao.NewRelationDAO(db, nil).DeleteRelation(context.Background(), 4012, 7, model.AuthMethodCard)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelationDAO_PendingSyncTerminals(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT terminal_id FROM t_terminal_auth`).
		WithArgs(int64(4012)).
		WillReturnRows(sqlmock.NewRows([]string{"terminal_id"}).AddRow(3).AddRow(7))

	terminals, err := dao.NewRelationDAO(db, nil).PendingSyncTerminals(context.Background(), 4012)

	assert.NoError(t, err)
	assert.Equal(t, []int64{3, 7}, terminals)
}

func TestSubjectDAO(t *testing.T) {
	ctx := context.Background()

	t.Run("KeyByExternalID returns the internal key", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT user_id FROM t_user WHERE external_id`).
			WithArgs("EMP-1042").
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(4012))

		key, err := dao.NewSubjectDAO(db).KeyByExternalID(ctx, "EMP-1042")

		assert.NoError(t, err)
		assert.Equal(t, int64(4012), key)
	})

	t.Run("Missing row is subject-not-found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT user_id FROM t_user WHERE external_id`).
			WithArgs("EMP-9999").
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

		key, err := dao.NewSubjectDAO(db).KeyByExternalID(ctx, "EMP-9999")

		assert.ErrorIs(t, err, doorward_errors.ErrSubjectNotFound)
		assert.Zero(t, key)
	})

	t.Run("KeyByNumericID treats the identifier as the key", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT user_id FROM t_user WHERE user_id`).
			WithArgs(int64(4012)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(4012))

		key, err := dao.NewSubjectDAO(db).KeyByNumericID(ctx, 4012)

		assert.NoError(t, err)
		assert.Equal(t, int64(4012), key)
	})
}
