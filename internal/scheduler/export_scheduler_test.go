package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ikkim/consultation-backend/internal/app/service"
	"github.com/ikkim/consultation-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExportService struct {
	service.ExportService
	days []time.Time
	err  error
}

func (f *fakeExportService) ArchiveDay(_ context.Context, day time.Time) (*storage.StoredObject, error) {
	f.days = append(f.days, day)
	if f.err != nil {
		return nil, f.err
	}
	return &storage.StoredObject{Key: "exports/test.xlsx"}, nil
}

func TestExportArchiveScheduler_RunOnceArchivesPreviousDay(t *testing.T) {
	fake := &fakeExportService{}
	s := NewExportArchiveScheduler(fake, "0 2 * * *")
	s.now = func() time.Time { return time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC) }

	s.runOnce()

	require.Len(t, fake.days, 1)
	assert.Equal(t, "2024-02-29", fake.days[0].Format("2006-01-02"))
}

func TestExportArchiveScheduler_RunOnceSurvivesFailure(t *testing.T) {
	fake := &fakeExportService{err: errors.New("s3 unavailable")}
	s := NewExportArchiveScheduler(fake, "0 2 * * *")

	assert.NotPanics(t, s.runOnce)
	assert.Len(t, fake.days, 1)
}

func TestExportArchiveScheduler_InvalidSchedule(t *testing.T) {
	s := NewExportArchiveScheduler(&fakeExportService{}, "not a cron")
	assert.Error(t, s.Start())
}
