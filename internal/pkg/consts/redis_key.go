package consts

const (
	AnalyticsOverviewKey   = "analytics:overview:"
	AnalyticsContentKey    = "analytics:content:"
	AnalyticsEngagementKey = "analytics:engagement:"
	OAuthStateKey          = "oauth:state:"
	TokenBlacklistKey      = "token:blacklist:"
)

const (
	IngestionLock = "lock:ingestion:"
)

const (
	InsightsJobLock = "lock:cron:insights"
)
