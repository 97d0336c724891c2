// -----------------------------------------------------------------------------
// Logging Package
// -----------------------------------------------------------------------------
// Uygulamanın tek logrus logger'ını üretir. İki çıktı biçimi desteklenir:
//
//   - console: "[15:04:05 INF] mesaj" (ConsoleFormatter)
//   - json:    logrus.JSONFormatter, log collector'lar için
//
// Logger, middleware'lere arayüz olarak enjekte edilir; global logrus
// instance'ı kullanılmaz.
// -----------------------------------------------------------------------------

package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Desteklenen çıktı biçimleri.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options, logger yapılandırmasıdır.
type Options struct {
	Level  string    // trace, debug, info, warn, error
	Format string    // console veya json
	Output io.Writer // nil ise os.Stdout
}

// New, verilen seçeneklerle yeni bir logger oluşturur.
func New(opts Options) (*logrus.Logger, error) {
	logger := logrus.New()

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	logger.SetOutput(out)

	levelName := opts.Level
	if levelName == "" {
		levelName = "info"
	}
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("logging: invalid level %q: %w", opts.Level, err)
	}
	logger.SetLevel(level)

	switch strings.ToLower(opts.Format) {
	case "", FormatConsole:
		logger.SetFormatter(&ConsoleFormatter{})
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("logging: unknown format %q", opts.Format)
	}

	return logger, nil
}
