// -----------------------------------------------------------------------------
// Request Timing Middleware
// -----------------------------------------------------------------------------
// Her HTTP isteğinin işlenme süresini ölçer ve istek tamamlandığında tek bir
// log kaydı üretir:
//
//	[14:03:07 INF] HTTP GET /api/health responded 200 in 3.1416 ms
//
// Kayıt defer ile yazılır; downstream handler panic etse veya hata dönse bile
// log satırı atlanmaz ve hata/panic değiştirilmeden yukarı iletilir.
//
// Filtreli varyant (NewFilteredRequestTimer) yalnızca path'i yapılandırılmış
// fragment'lardan birini içeren istekleri loglar. Eşleşmeyen istekler için
// ne timer ne de response wrapper oluşturulur.
// -----------------------------------------------------------------------------

package middleware

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// StatusUnset, downstream hiçbir status yazmadan başarısız olduğunda
// RequestRecord.Status alanının değeridir. Log satırında "-" olarak görünür.
const StatusUnset = 0

const statusPlaceholder = "-"

// EntryLogger, request kayıtlarının yazıldığı log sink'idir.
// *logrus.Logger ve *logrus.Entry bu arayüzü sağlar.
type EntryLogger interface {
	WithFields(fields logrus.Fields) *logrus.Entry
}

// Clock, zaman kaynağını soyutlar. time.Now monotonic okuma içerdiği için
// Sub ile hesaplanan süreler duvar saati ayarlarından etkilenmez.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Observer, her kayıt loglandıktan sonra çağrılır (örn. Prometheus metrikleri).
type Observer interface {
	ObserveRequest(r *http.Request, rec RequestRecord)
}

// HandlerFunc, hata döndürebilen handler tipidir. Downstream hatası
// RequestTimer tarafından değiştirilmeden geri döndürülür.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// RequestRecord, tek bir isteğin log kaydıdır.
type RequestRecord struct {
	Time      time.Time     // log anındaki duvar saati
	Method    string        // HTTP method
	Path      string        // istek path'i (query hariç)
	Status    int           // downstream'in yazdığı status, yoksa StatusUnset
	Elapsed   time.Duration // giriş ile çıkış arasındaki süre
	RequestID string        // RequestID middleware'i varsa
}

// ElapsedMilliseconds, süreyi kesirli milisaniye olarak döndürür.
func (rec RequestRecord) ElapsedMilliseconds() float64 {
	return float64(rec.Elapsed) / float64(time.Millisecond)
}

// StatusText, status kodunu veya status yazılmadıysa "-" döndürür.
func (rec RequestRecord) StatusText() string {
	if rec.Status == StatusUnset {
		return statusPlaceholder
	}
	return strconv.Itoa(rec.Status)
}

// Message, log satırının mesaj kısmını üretir. Zaman ve seviye öneki
// logging.ConsoleFormatter tarafından eklenir.
func (rec RequestRecord) Message() string {
	return "HTTP " + rec.Method + " " + rec.Path +
		" responded " + rec.StatusText() +
		" in " + strconv.FormatFloat(rec.ElapsedMilliseconds(), 'f', 4, 64) + " ms"
}

// Fields, JSON sink'ler için yapılandırılmış alanları döndürür.
func (rec RequestRecord) Fields() logrus.Fields {
	fields := logrus.Fields{
		"component":  "http",
		"method":     rec.Method,
		"path":       rec.Path,
		"status":     rec.Status,
		"elapsed_ms": rec.ElapsedMilliseconds(),
	}
	if rec.RequestID != "" {
		fields["request_id"] = rec.RequestID
	}
	return fields
}

// TimerOption, RequestTimer için opsiyonel ayarlardır.
type TimerOption func(*RequestTimer)

// WithClock, zaman kaynağını değiştirir. Testlerde sabit süre üretmek için
// kullanılır.
func WithClock(clock Clock) TimerOption {
	return func(t *RequestTimer) {
		t.clock = clock
	}
}

// WithObserver, her kayıttan sonra çağrılacak observer'ı ekler.
func WithObserver(observer Observer) TimerOption {
	return func(t *RequestTimer) {
		t.observer = observer
	}
}

// RequestTimer, istekleri zamanlayıp loglayan middleware'dir. İnşa edildikten
// sonra değişmez; aynı instance eşzamanlı isteklerde güvenle kullanılabilir.
type RequestTimer struct {
	logger   EntryLogger
	clock    Clock
	observer Observer
	filter   *PathFilter
}

// NewRequestTimer, her isteği koşulsuz loglayan timer oluşturur.
func NewRequestTimer(logger EntryLogger, opts ...TimerOption) *RequestTimer {
	t := &RequestTimer{
		logger: logger,
		clock:  systemClock{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewFilteredRequestTimer, yalnızca path'i fragment'lardan birini içeren
// istekleri loglayan timer oluşturur. Boş fragment listesi tüm istekleri
// loglar.
func NewFilteredRequestTimer(logger EntryLogger, fragments []string, opts ...TimerOption) *RequestTimer {
	t := NewRequestTimer(logger, opts...)
	t.filter = NewPathFilter(fragments)
	return t
}

// Handler, next'i saran http.Handler döndürür. next panic ederse kayıt yine
// yazılır ve panic aynı değerle yukarı devam eder.
func (t *RequestTimer) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !t.filter.Match(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := t.clock.Now()
		completed := false
		defer func() {
			t.record(r, resolveStatus(ww.Status(), completed), start)
		}()

		next.ServeHTTP(ww, r)
		completed = true
	})
}

// HandlerFunc, hata döndüren handler'lar için Handler'ın karşılığıdır.
// next'in döndürdüğü hata aynen geri döndürülür.
func (t *RequestTimer) HandlerFunc(next HandlerFunc) HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) (err error) {
		if !t.filter.Match(r.URL.Path) {
			return next(w, r)
		}

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := t.clock.Now()
		completed := false
		defer func() {
			t.record(r, resolveStatus(ww.Status(), completed && err == nil), start)
		}()

		err = next(ww, r)
		completed = true
		return err
	}
}

// record, süreyi durdurur ve tek log kaydını yazar.
func (t *RequestTimer) record(r *http.Request, status int, start time.Time) {
	end := t.clock.Now()
	rec := RequestRecord{
		Time:      end,
		Method:    r.Method,
		Path:      r.URL.Path,
		Status:    status,
		Elapsed:   end.Sub(start),
		RequestID: RequestIDFromContext(r.Context()),
	}

	t.logger.WithFields(rec.Fields()).
		WithContext(r.Context()).
		WithTime(rec.Time).
		Info(rec.Message())

	if t.observer != nil {
		t.observer.ObserveRequest(r, rec)
	}
}

// resolveStatus, yazılmış status'u döndürür. Handler hiçbir şey yazmadan
// normal döndüyse net/http 200 gönderir; başarısız olduysa status bilinmez.
func resolveStatus(written int, completed bool) int {
	if written != 0 {
		return written
	}
	if completed {
		return http.StatusOK
	}
	return StatusUnset
}

// RequestLogging, tüm istekleri loglayan middleware'i döndürür.
//
// Kullanım:
//
//	r.Use(middleware.RequestLogging(logger))
func RequestLogging(logger EntryLogger, opts ...TimerOption) Middleware {
	return NewRequestTimer(logger, opts...).Handler
}

// EndpointLogging, yalnızca verilen endpoint fragment'larına uyan istekleri
// loglayan middleware'i döndürür.
//
// Kullanım:
//
//	r.Use(middleware.EndpointLogging(logger, []string{"login", "interview"}))
func EndpointLogging(logger EntryLogger, endpoints []string, opts ...TimerOption) Middleware {
	return NewFilteredRequestTimer(logger, endpoints, opts...).Handler
}
