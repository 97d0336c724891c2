package logging

import (
	"bytes"
	"fmt"

	"github.com/sirupsen/logrus"
)

// DefaultTimestampFormat, konsol satırındaki saat biçimidir (HH:mm:ss).
const DefaultTimestampFormat = "15:04:05"

// ConsoleFormatter, girdileri "[HH:mm:ss LVL] mesaj" biçiminde yazar.
// Yapılandırılmış alanlar konsola basılmaz; yalnızca "error" ve "stack"
// alanları mesajın altına eklenir.
type ConsoleFormatter struct {
	TimestampFormat string
}

// Format, logrus.Formatter arayüzünü sağlar.
func (f *ConsoleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	layout := f.TimestampFormat
	if layout == "" {
		layout = DefaultTimestampFormat
	}

	b.WriteByte('[')
	b.WriteString(entry.Time.Format(layout))
	b.WriteByte(' ')
	b.WriteString(LevelAbbreviation(entry.Level))
	b.WriteString("] ")
	b.WriteString(entry.Message)
	b.WriteByte('\n')

	if err, ok := entry.Data[logrus.ErrorKey]; ok && err != nil {
		fmt.Fprintf(b, "%v\n", err)
	}
	if stack, ok := entry.Data["stack"].(string); ok && stack != "" {
		b.WriteString(stack)
		if stack[len(stack)-1] != '\n' {
			b.WriteByte('\n')
		}
	}

	return b.Bytes(), nil
}

// LevelAbbreviation, seviyenin üç harfli kısaltmasını döndürür.
func LevelAbbreviation(level logrus.Level) string {
	switch level {
	case logrus.TraceLevel:
		return "VRB"
	case logrus.DebugLevel:
		return "DBG"
	case logrus.InfoLevel:
		return "INF"
	case logrus.WarnLevel:
		return "WRN"
	case logrus.ErrorLevel:
		return "ERR"
	case logrus.FatalLevel:
		return "FTL"
	case logrus.PanicLevel:
		return "PNC"
	default:
		return "???"
	}
}
