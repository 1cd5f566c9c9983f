package llm

import (
	"golang.org/x/sync/semaphore"
)

const defaultConcurrency = int64(5)

func newSemaphore(n int64) *semaphore.Weighted {
	if n <= 0 {
		n = defaultConcurrency
	}
	return semaphore.NewWeighted(n)
}
