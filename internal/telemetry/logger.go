package telemetry

import (
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

// LogrusHook, log kaydının context'inde geçerli bir span varsa trace_id ve
// span_id alanlarını ekler. Kayıtlar WithContext ile yazılmalıdır.
//
//	logger.AddHook(telemetry.NewLogrusHook())
type LogrusHook struct{}

// NewLogrusHook, yeni bir hook oluşturur.
func NewLogrusHook() *LogrusHook {
	return &LogrusHook{}
}

// Levels, tüm seviyeleri döndürür.
func (h *LogrusHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire, trace alanlarını ekler.
func (h *LogrusHook) Fire(entry *logrus.Entry) error {
	if entry.Context == nil {
		return nil
	}

	sc := trace.SpanContextFromContext(entry.Context)
	if !sc.IsValid() {
		return nil
	}

	entry.Data["trace_id"] = sc.TraceID().String()
	entry.Data["span_id"] = sc.SpanID().String()
	if sc.IsSampled() {
		entry.Data["trace_sampled"] = true
	}
	return nil
}
