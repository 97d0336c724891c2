// -----------------------------------------------------------------------------
// Testing Helpers
// -----------------------------------------------------------------------------
// Bu package, HTTP handler testlerini kolaylaştıran helper fonksiyonlar
// sağlar.
//
// Özellikler:
// - Fluent request builder (header, bearer token, remote addr)
// - Response assertion'ları (status, header, JSON path, problem dokümanı)
// - Test için imzalı JWT üretimi
//
// Kullanım:
//
//	func TestMe(t *testing.T) {
//	    token := apitest.SignToken(t, key, apitest.Claims("user-1", "User"))
//	    apitest.NewTestRequest(http.MethodGet, "/api/auth/me").
//	        WithBearer(token).
//	        Send(handler).
//	        AssertStatus(t, http.StatusOK).
//	        AssertJSONPath(t, "data.id", "user-1")
//	}
// -----------------------------------------------------------------------------

package testing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ProblemContentType, problem dokümanlarının media type'ıdır.
const ProblemContentType = "application/problem+json"

// -----------------------------------------------------------------------------
// HTTP Testing Helpers
// -----------------------------------------------------------------------------

// TestRequest represents an HTTP test request builder.
type TestRequest struct {
	method     string
	url        string
	headers    map[string]string
	remoteAddr string
}

// NewTestRequest creates a new test request builder.
func NewTestRequest(method, url string) *TestRequest {
	return &TestRequest{
		method:  method,
		url:     url,
		headers: make(map[string]string),
	}
}

// WithHeader adds a header to the request.
func (r *TestRequest) WithHeader(key, value string) *TestRequest {
	r.headers[key] = value
	return r
}

// WithBearer sets the Authorization header.
func (r *TestRequest) WithBearer(token string) *TestRequest {
	return r.WithHeader("Authorization", "Bearer "+token)
}

// WithRemoteAddr overrides the client address.
func (r *TestRequest) WithRemoteAddr(addr string) *TestRequest {
	r.remoteAddr = addr
	return r
}

// Send executes the test request.
func (r *TestRequest) Send(handler http.Handler) *TestResponse {
	req := httptest.NewRequest(r.method, r.url, nil)
	for key, value := range r.headers {
		req.Header.Set(key, value)
	}
	if r.remoteAddr != "" {
		req.RemoteAddr = r.remoteAddr
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	return &TestResponse{
		recorder: w,
	}
}

// TestResponse represents an HTTP test response.
type TestResponse struct {
	recorder *httptest.ResponseRecorder
}

// Code returns the response status code.
func (r *TestResponse) Code() int {
	return r.recorder.Code
}

// Header returns the response headers.
func (r *TestResponse) Header() http.Header {
	return r.recorder.Header()
}

// AssertStatus asserts the response status code.
func (r *TestResponse) AssertStatus(t *testing.T, expectedStatus int) *TestResponse {
	t.Helper()
	if r.recorder.Code != expectedStatus {
		t.Errorf("Expected status %d, got %d (body: %s)", expectedStatus, r.recorder.Code, r.recorder.Body.String())
	}
	return r
}

// AssertHeader asserts a response header value.
func (r *TestResponse) AssertHeader(t *testing.T, key, expected string) *TestResponse {
	t.Helper()
	if actual := r.recorder.Header().Get(key); actual != expected {
		t.Errorf("Expected header %s=%q, got %q", key, expected, actual)
	}
	return r
}

// AssertJSON asserts the response contains JSON.
func (r *TestResponse) AssertJSON(t *testing.T) *TestResponse {
	t.Helper()
	contentType := r.recorder.Header().Get("Content-Type")
	if !strings.Contains(contentType, "json") {
		t.Errorf("Expected JSON response, got %s", contentType)
	}
	return r
}

// AssertProblem asserts the response is a problem document with the status.
func (r *TestResponse) AssertProblem(t *testing.T, expectedStatus int) *TestResponse {
	t.Helper()
	r.AssertStatus(t, expectedStatus)
	r.AssertHeader(t, "Content-Type", ProblemContentType)
	return r.AssertJSONPath(t, "status", float64(expectedStatus))
}

// AssertJSONPath asserts a value at a dotted JSON path ("data.id").
// JSON numbers are compared as float64.
func (r *TestResponse) AssertJSONPath(t *testing.T, path string, expected interface{}) *TestResponse {
	t.Helper()
	var data map[string]interface{}
	if err := json.Unmarshal(r.recorder.Body.Bytes(), &data); err != nil {
		t.Errorf("Failed to parse JSON: %v", err)
		return r
	}

	var current interface{} = data
	for _, key := range strings.Split(path, ".") {
		obj, ok := current.(map[string]interface{})
		if !ok {
			t.Errorf("JSON path '%s' not found", path)
			return r
		}
		if current, ok = obj[key]; !ok {
			t.Errorf("JSON path '%s' not found", path)
			return r
		}
	}

	if current != expected {
		t.Errorf("Expected '%v' at path '%s', got '%v'", expected, path, current)
	}

	return r
}

// GetJSON decodes the response body into v.
func (r *TestResponse) GetJSON(t *testing.T, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(r.recorder.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
}

// GetBody returns the response body as string.
func (r *TestResponse) GetBody() string {
	return r.recorder.Body.String()
}

// -----------------------------------------------------------------------------
// JWT Helpers
// -----------------------------------------------------------------------------

// Claims returns valid claims for the subject and roles. The token expires
// in one hour; callers override fields as needed.
func Claims(subject string, roles ...string) jwt.MapClaims {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
	if len(roles) > 0 {
		claims["roles"] = roles
	}
	return claims
}

// SignToken signs claims with HS256.
func SignToken(t *testing.T, key string, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}
