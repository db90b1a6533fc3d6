// engine/main_test.go
package engine_test

import (
	"os"
	"testing"

	logger "github.com/dev-rajatverma/doorward/logging"
)

func TestMain(m *testing.M) {
	logger.InitLogger("../logging")
	defer logger.Sync()
	os.Exit(m.Run())
}
