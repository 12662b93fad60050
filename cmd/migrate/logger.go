package migrate

import (
	"fmt"
	"strings"

	"github.com/gaze-network/distributor-network/pkg/logger"
	"github.com/golang-migrate/migrate/v4"
)

var _ migrate.Logger = (*consoleLogger)(nil)

// consoleLogger forwards migration progress to the application logger.
type consoleLogger struct {
	prefix  string
	verbose bool
}

func (l *consoleLogger) Printf(format string, v ...interface{}) {
	logger.Info(strings.TrimSpace(l.prefix + fmt.Sprintf(format, v...)))
}

func (l *consoleLogger) Verbose() bool {
	return l.verbose
}
