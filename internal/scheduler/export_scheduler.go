package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/consultation-backend/internal/app/service"
	"github.com/ikkim/consultation-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// archiveTimeout 한 번의 보관 작업 제한 시간
const archiveTimeout = 5 * time.Minute

// ExportArchiveScheduler 전날 상담 내역을 S3 에 보관하는 스케줄러
type ExportArchiveScheduler struct {
	cron          *cron.Cron
	schedule      string
	exportService service.ExportService
	now           func() time.Time
}

// NewExportArchiveScheduler schedule 은 5필드 cron 표현식 (UTC)
func NewExportArchiveScheduler(exportService service.ExportService, schedule string) *ExportArchiveScheduler {
	return &ExportArchiveScheduler{
		cron:          cron.New(cron.WithLocation(time.UTC)),
		schedule:      schedule,
		exportService: exportService,
		now:           time.Now,
	}
}

// Start 스케줄러 시작
func (s *ExportArchiveScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runOnce); err != nil {
		logger.Error("Failed to add cron job for export archive", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Export archive scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

// runOnce 전날(UTC) 상담을 보관한다
func (s *ExportArchiveScheduler) runOnce() {
	day := s.now().UTC().AddDate(0, 0, -1)

	logger.Info("Starting scheduled export archive", map[string]interface{}{
		"day": day.Format("2006-01-02"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()

	object, err := s.exportService.ArchiveDay(ctx, day)
	if err != nil {
		logger.Error("Scheduled export archive failed", err, map[string]interface{}{
			"day": day.Format("2006-01-02"),
		})
		return
	}

	logger.Info("Scheduled export archive completed", map[string]interface{}{
		"key": object.Key,
	})
}

// Stop 스케줄러 중지. 실행 중인 작업이 끝날 때까지 기다린다
func (s *ExportArchiveScheduler) Stop() {
	logger.Info("Stopping export archive scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Export archive scheduler stopped")
}
