package graph

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrCircuitOpen = errors.New("graph api circuit open")

type errorEnvelope struct {
	Error *APIError `json:"error"`
}

// APIError Graph API 返回的错误体
type APIError struct {
	Status    int    `json:"-"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      int    `json:"code"`
	Subcode   int    `json:"error_subcode"`
	FBTraceID string `json:"fbtrace_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("graph api %d: %s (type=%s code=%d)", e.Status, e.Message, e.Type, e.Code)
}

// IsTokenError 访问令牌失效
func (e *APIError) IsTokenError() bool {
	return e.Code == 190
}

func (e *APIError) temporary() bool {
	return e.Status >= 500 || e.Status == 429
}

func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
