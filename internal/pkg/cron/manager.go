package cron

import (
	"InstaGraph/internal/job"
	"fmt"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine       *cron.Cron
	insightsJob  *job.InsightsJob
	insightsSpec string
}

func NewCronManager(insightsSpec string, insightsJob *job.InsightsJob) *Manager {
	return &Manager{
		engine:       cron.New(cron.WithSeconds()),
		insightsJob:  insightsJob,
		insightsSpec: insightsSpec,
	}
}

// Run 注册任务并启动调度，非法的 cron 表达式直接返回错误
func (s *Manager) Run() error {
	if _, err := s.engine.AddJob(s.insightsSpec, s.insightsJob); err != nil {
		return fmt.Errorf("invalid insights cron %q: %w", s.insightsSpec, err)
	}
	log.Info("Cron 定时任务引擎启动", "insights", s.insightsSpec)
	s.engine.Start()
	return nil
}

// Stop 等待正在执行的任务结束
func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
