package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Output: &buf})
	require.NoError(t, err)

	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	logger.Debug("warming up")
	assert.Regexp(t, `^\[\d{2}:\d{2}:\d{2} DBG\] warming up\n$`, buf.String())
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "JSON", Output: &buf})
	require.NoError(t, err)

	logger.WithField("component", "test").Info("hello")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "test", line["component"])
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Options{Level: "chatty"})
	assert.Error(t, err)

	_, err = New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestConsoleFormatter(t *testing.T) {
	f := &ConsoleFormatter{}
	entry := &logrus.Entry{
		Time:    time.Date(2024, 3, 1, 9, 5, 7, 0, time.UTC),
		Level:   logrus.ErrorLevel,
		Message: "request failed",
		Data: logrus.Fields{
			logrus.ErrorKey: errors.New("boom"),
			"stack":         "goroutine 1 [running]:",
			"path":          "/api/health",
		},
	}

	out, err := f.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "[09:05:07 ERR] request failed\nboom\ngoroutine 1 [running]:\n", string(out))
}

func TestConsoleFormatter_CustomTimestamp(t *testing.T) {
	f := &ConsoleFormatter{TimestampFormat: "2006-01-02"}
	out, err := f.Format(&logrus.Entry{
		Time:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "slow",
	})
	require.NoError(t, err)
	assert.Equal(t, "[2024-03-01 WRN] slow\n", string(out))
}

func TestLevelAbbreviation(t *testing.T) {
	tests := map[logrus.Level]string{
		logrus.TraceLevel: "VRB",
		logrus.DebugLevel: "DBG",
		logrus.InfoLevel:  "INF",
		logrus.WarnLevel:  "WRN",
		logrus.ErrorLevel: "ERR",
		logrus.FatalLevel: "FTL",
		logrus.PanicLevel: "PNC",
	}
	for level, want := range tests {
		assert.Equal(t, want, LevelAbbreviation(level), level.String())
	}
}
