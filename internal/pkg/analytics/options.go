package analytics

import "time"

// Options 聚合参数
type Options struct {
	// Location 小时/星期分桶使用的时区，为空时使用 UTC
	Location *time.Location
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}
