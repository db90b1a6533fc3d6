// db/sqldb.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/dev-rajatverma/doorward/config"
	logger "github.com/dev-rajatverma/doorward/logging"
)

// SQLDB is the direct connection to the vendor's backing datastore. It is
// touched only by the fallback strategy and the resolver's datastore path;
// the control plane remains the primary write path.
var SQLDB *sql.DB

func InitSQL() error {
	dsn := config.GetString("datastore.dsn")
	var err error
	SQLDB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open datastore connection: %w", err)
	}

	// Keep the pool small: the fallback path is exceptional traffic, not
	// the steady state.
	SQLDB.SetMaxOpenConns(5)
	SQLDB.SetMaxIdleConns(2)
	SQLDB.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := SQLDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to datastore: %w", err)
	}

	logger.Info("Successfully connected to vendor datastore")
	return nil
}

func CloseSQL() {
	if SQLDB != nil {
		if err := SQLDB.Close(); err != nil {
			logger.Error("Error closing datastore connection", zap.Error(err))
		} else {
			logger.Info("Datastore connection closed successfully")
		}
	}
}
