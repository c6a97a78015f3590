package clickhouse

import (
	"time"

	"github.com/golang/mock/gomock"

	"github.com/tokenpulse/tokenpulse-backend/internal/model"
)

func (s *RepositorySuite) TestInsertTransferEventsRoundTrip() {
	now := time.Now().UTC().Truncate(time.Second)
	events := []model.TransferEvent{
		newTransferEvent(100, 0, now),
		newTransferEvent(100, 1, now),
		newTransferEvent(105, 0, now.Add(time.Minute)),
	}

	s.metrics.EXPECT().Observe("insert_transfer_events", gomock.Nil(), gomock.Any()).Times(1)
	s.metrics.EXPECT().Observe("transfer_event_keys", gomock.Nil(), gomock.Any()).Times(2)
	s.metrics.EXPECT().Observe("max_event_block", gomock.Nil(), gomock.Any()).Times(1)

	s.Require().NoError(s.repo.InsertTransferEvents(s.testCtx, events))
	s.Equal(uint64(3), s.countRows("transfer_events"))

	keys, err := s.repo.TransferEventKeys(s.testCtx, 1, events[0].Address, 100, 110)
	s.Require().NoError(err)
	s.Len(keys, 3)
	s.Contains(keys, model.EventKey{BlockNumber: 100, LogIndex: 1})

	// Range filter excludes block 105.
	keys, err = s.repo.TransferEventKeys(s.testCtx, 1, events[0].Address, 100, 104)
	s.Require().NoError(err)
	s.Len(keys, 2)

	maxBlock, err := s.repo.MaxEventBlock(s.testCtx, 1, events[0].Address)
	s.Require().NoError(err)
	s.Equal(uint64(105), maxBlock)
}

func (s *RepositorySuite) TestTransferEventKeysEmptyFeed() {
	s.metrics.EXPECT().Observe("transfer_event_keys", gomock.Nil(), gomock.Any())

	keys, err := s.repo.TransferEventKeys(s.testCtx, 1, "0xunknown", 0, 1_000_000)
	s.Require().NoError(err)
	s.Empty(keys)
}
