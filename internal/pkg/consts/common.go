package consts

const (
	JobFetchAccountInsights = "fetch-account-insights"
	JobFetchMediaInsights   = "fetch-media-insights"
)

const (
	DefaultNiche = "general"
	DefaultTone  = "friendly"
)
