package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"digital.vasic.mobilelogin/pkg/logging"
)

// WebDriverError is an error response sent by the WebDriver server.
// Message is the server's text, unchanged.
type WebDriverError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *WebDriverError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// newHTTPClient builds the WebDriver transport: a retrying client
// exposed as a plain *http.Client, plus the recorder watching its
// responses. Only connection failures and gateway errors without a
// WebDriver error body are retried; every other response reaches
// the caller as sent.
func newHTTPClient(
	retries int,
	timeout time.Duration,
	logger logging.Logger,
) (*http.Client, *recorder) {
	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	if retries >= 0 {
		rc.RetryMax = retries
	}
	if timeout > 0 {
		rc.HTTPClient.Timeout = timeout
	}
	rc.CheckRetry = checkRetry
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = leveledLogger{l: logging.OrNull(logger)}

	client := rc.StandardClient()
	rec := &recorder{next: client.Transport}
	client.Transport = rec
	return client, rec
}

func checkRetry(
	ctx context.Context,
	resp *http.Response,
	err error,
) (bool, error) {
	if err != nil || ctx.Err() != nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	switch resp.StatusCode {
	case http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return readWebDriverError(resp) == nil, nil
	}
	return false, nil
}

// readWebDriverError decodes a non-2xx WebDriver error body, leaving
// resp.Body readable. It returns nil for success responses and for
// bodies that are not WebDriver errors.
func readWebDriverError(resp *http.Response) *WebDriverError {
	if resp == nil || resp.StatusCode < 300 {
		return nil
	}
	body := peekBody(resp)
	var payload struct {
		Value struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		} `json:"value"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}
	if payload.Value.Error == "" && payload.Value.Message == "" {
		return nil
	}
	return &WebDriverError{
		StatusCode: resp.StatusCode,
		Code:       payload.Value.Error,
		Message:    payload.Value.Message,
	}
}

func peekBody(resp *http.Response) []byte {
	if resp.Body == nil {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return body
}

// recorder remembers the session id the server assigned and the
// last WebDriver error it answered with.
type recorder struct {
	next http.RoundTripper

	mu        sync.Mutex
	sessionID string
	lastErr   *WebDriverError
}

func (r *recorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := r.next.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	wdErr := readWebDriverError(resp)
	var id string
	if wdErr == nil && req.Method == http.MethodPost &&
		strings.HasSuffix(req.URL.Path, "/session") {
		id = sessionIDFrom(peekBody(resp))
	}

	r.mu.Lock()
	r.lastErr = wdErr
	if id != "" {
		r.sessionID = id
	}
	r.mu.Unlock()
	return resp, nil
}

// LastError returns the error of the most recent response, or nil
// when it succeeded.
func (r *recorder) LastError() *WebDriverError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// SessionID returns the id from the last new-session response.
func (r *recorder) SessionID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessionID
}

// sessionIDFrom accepts both the legacy top-level sessionId and the
// W3C value.sessionId.
func sessionIDFrom(body []byte) string {
	var payload struct {
		SessionID string `json:"sessionId"`
		Value     struct {
			SessionID string `json:"sessionId"`
		} `json:"value"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.SessionID != "" {
		return payload.SessionID
	}
	return payload.Value.SessionID
}

// leveledLogger routes retryablehttp's key/value logging into a
// logging.Logger at debug level, surfacing errors and warnings.
type leveledLogger struct {
	l logging.Logger
}

func (a leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	a.l.Error("webdriver transport: "+msg, kvFields(keysAndValues)...)
}

func (a leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	a.l.Warn("webdriver transport: "+msg, kvFields(keysAndValues)...)
}

func (a leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	a.l.Debug("webdriver transport: "+msg, kvFields(keysAndValues)...)
}

func (a leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	a.l.Debug("webdriver transport: "+msg, kvFields(keysAndValues)...)
}

func kvFields(kv []interface{}) []logging.Field {
	fields := make([]logging.Field, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		var value any = "<missing>"
		if i+1 < len(kv) {
			value = kv[i+1]
			if err, ok := value.(error); ok {
				value = err.Error()
			}
		}
		fields = append(fields, logging.LogField(key, value))
	}
	return fields
}
