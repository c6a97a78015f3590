package clickhouse

import (
	"time"

	"github.com/golang/mock/gomock"

	"github.com/tokenpulse/tokenpulse-backend/internal/model"
)

func (s *RepositorySuite) TestIngestCursorLifecycle() {
	address := "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"
	s.metrics.EXPECT().Observe(gomock.Any(), gomock.Nil(), gomock.Any()).AnyTimes()

	_, found, err := s.repo.IngestCursor(s.testCtx, 1, address)
	s.Require().NoError(err)
	s.False(found)

	cursor := model.Cursor{
		ChainID:            1,
		Address:            address,
		LastProcessedBlock: 100,
		LastBlockTime:      time.Now().UTC().Truncate(time.Second),
		RangeHint:          2000,
		Mode:               model.CursorBootstrap,
		Provider:           "primary",
	}
	s.Require().NoError(s.repo.UpsertIngestCursor(s.testCtx, cursor))

	got, found, err := s.repo.IngestCursor(s.testCtx, 1, address)
	s.Require().NoError(err)
	s.Require().True(found)
	s.Equal(uint64(100), got.LastProcessedBlock)
	s.Equal(model.CursorBootstrap, got.Mode)

	// A later version replaces the first on FINAL reads.
	time.Sleep(5 * time.Millisecond)
	cursor.LastProcessedBlock = 250
	cursor.Mode = model.CursorTail
	s.Require().NoError(s.repo.UpsertIngestCursor(s.testCtx, cursor))

	got, found, err = s.repo.IngestCursor(s.testCtx, 1, address)
	s.Require().NoError(err)
	s.Require().True(found)
	s.Equal(uint64(250), got.LastProcessedBlock)
	s.Equal(model.CursorTail, got.Mode)

	cursors, err := s.repo.IngestCursors(s.testCtx)
	s.Require().NoError(err)
	s.Require().Len(cursors, 1)
	s.Equal(uint64(250), cursors[0].LastProcessedBlock)

	s.Require().NoError(s.repo.DeleteIngestCursor(s.testCtx, 1, address))

	_, found, err = s.repo.IngestCursor(s.testCtx, 1, address)
	s.Require().NoError(err)
	s.False(found)
}

func (s *RepositorySuite) TestRuntimeConfigRoundTrip() {
	s.metrics.EXPECT().Observe(gomock.Any(), gomock.Nil(), gomock.Any()).AnyTimes()

	_, found, err := s.repo.RuntimeConfig(s.testCtx)
	s.Require().NoError(err)
	s.False(found)

	now := time.Now().UTC().Truncate(time.Second)
	cfg := model.RuntimeConfig{
		Enabled:         true,
		Mode:            model.ModeActive,
		KillSwitchArmed: false,
		EventsIngested:  1000,
		Duplicates:      12,
		Errors:          3,
		CountersSince:   now.Add(-time.Hour),
		LastBlock:       19_000_000,
		LastProvider:    "primary",
		LastRun:         now,
		UpdatedAt:       now,
	}
	s.Require().NoError(s.repo.UpsertRuntimeConfig(s.testCtx, cfg))

	got, found, err := s.repo.RuntimeConfig(s.testCtx)
	s.Require().NoError(err)
	s.Require().True(found)
	s.True(got.Enabled)
	s.Equal(model.ModeActive, got.Mode)
	s.Equal(uint64(1000), got.EventsIngested)

	// Kill switch write wins the FINAL read.
	time.Sleep(5 * time.Millisecond)
	cfg.Enabled = false
	cfg.Mode = model.ModeOff
	cfg.KillSwitchArmed = true
	cfg.KillReason = "error rate 0.41 over 0.20"
	cfg.UpdatedAt = time.Now().UTC()
	s.Require().NoError(s.repo.UpsertRuntimeConfig(s.testCtx, cfg))

	got, found, err = s.repo.RuntimeConfig(s.testCtx)
	s.Require().NoError(err)
	s.Require().True(found)
	s.False(got.Enabled)
	s.True(got.KillSwitchArmed)
	s.Equal("error rate 0.41 over 0.20", got.KillReason)
}
