package logger

import (
	"bytes"
	"io"
	log "log/slog"
	"net/http"
	"net/url"
	"time"
)

const bodyLogLimit = 1000

// 这些查询参数不会出现在日志中
var redactedParams = []string{"access_token", "client_secret", "appsecret_proof"}

// HTTPTransport 记录出站 HTTP 请求，用于 ES 与 Graph API 客户端
type HTTPTransport struct {
	Name          string
	Transport     http.RoundTripper
	LogBody       bool
	SlowThreshold time.Duration
}

func NewHTTPTransport(name string, logBody bool) *HTTPTransport {
	return &HTTPTransport{
		Name:          name,
		Transport:     http.DefaultTransport,
		LogBody:       logBody,
		SlowThreshold: 500 * time.Millisecond,
	}
}

func (t *HTTPTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	var reqBody []byte
	if t.LogBody && req.Body != nil {
		reqBody, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewBuffer(reqBody))
	}

	next := t.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	resp, err := next.RoundTrip(req)
	elapsed := time.Since(start)

	fields := []any{
		log.String("client", t.Name),
		log.String("method", req.Method),
		log.String("url", RedactURL(req.URL)),
		log.Duration("latency", elapsed),
	}
	if t.LogBody {
		fields = append(fields, log.String("req_body", truncate(string(reqBody), bodyLogLimit)))
	}

	if err != nil {
		log.ErrorContext(req.Context(), "HTTP_CLIENT_ERROR", append(fields, log.Any("err", err))...)
		return nil, err
	}

	fields = append(fields, log.Int("status", resp.StatusCode))
	if t.LogBody && resp.Body != nil {
		resBody, _ := io.ReadAll(resp.Body)
		resp.Body = io.NopCloser(bytes.NewBuffer(resBody))
		fields = append(fields, log.String("res_body", truncate(string(resBody), bodyLogLimit)))
	}

	switch {
	case resp.StatusCode >= 500:
		log.ErrorContext(req.Context(), "HTTP_CLIENT_FAILED", fields...)
	case resp.StatusCode >= 400, elapsed > t.SlowThreshold:
		log.WarnContext(req.Context(), "HTTP_CLIENT_SLOW_OR_REJECTED", fields...)
	default:
		log.InfoContext(req.Context(), "HTTP_CLIENT", fields...)
	}

	return resp, nil
}

// RedactURL 替换敏感查询参数
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	q := u.Query()
	changed := false
	for _, p := range redactedParams {
		if q.Has(p) {
			q.Set(p, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return u.String()
	}
	clone := *u
	clone.RawQuery = q.Encode()
	return clone.String()
}
