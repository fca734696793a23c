package room

import (
	"os"
	"testing"

	"github.com/openparty/charades/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}
