package logger

import (
	"InstaGraph/internal/api/config"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

type accessLog struct {
	Time        string `json:"time"`
	Level       string `json:"level"`
	Msg         string `json:"msg"`
	TraceID     string `json:"trace_id"`
	LogToken    string `json:"log_token,omitempty"`
	TargetIndex string `json:"target_index,omitempty"`
	Method      string `json:"method"`
	Path        string `json:"path"`
	Status      int    `json:"status"`
	ClientIP    string `json:"client_ip"`
	Latency     string `json:"latency"`
	UserID      uint64 `json:"user_id,omitempty"`
}

// SetupGin 访问日志与 Recovery
func SetupGin(r *gin.Engine, cfg config.LogConfig) {
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output:    LogWriter,
		SkipPaths: []string{"/api/ping"},
		Formatter: func(p gin.LogFormatterParams) string {
			entry := accessLog{
				Time:        p.TimeStamp.Format(time.RFC3339),
				Level:       "INFO",
				Msg:         "GIN_ACCESS",
				LogToken:    cfg.LogstashToken,
				TargetIndex: cfg.LogstashIndex,
				Method:      p.Method,
				Path:        p.Path,
				Status:      p.StatusCode,
				ClientIP:    p.ClientIP,
				Latency:     p.Latency.String(),
			}
			if p.StatusCode >= 500 {
				entry.Level = "ERROR"
			}
			if p.Keys != nil {
				entry.TraceID, _ = p.Keys[TraceIDKey].(string)
				entry.UserID, _ = p.Keys["user_id"].(uint64)
			}
			if entry.TraceID == "" && p.Request != nil {
				entry.TraceID = TraceID(p.Request.Context())
			}

			b, err := json.Marshal(entry)
			if err != nil {
				return ""
			}
			return string(b) + "\n"
		},
	}))

	r.Use(gin.Recovery())
}
