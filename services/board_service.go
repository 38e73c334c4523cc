//go:generate go run go.uber.org/mock/mockgen -source=board_service.go -destination=../mocks/mock_board_service.go -package=mocks
package services

import (
	"board-lab/contract"
	"board-lab/domain/board"
	"board-lab/runtime"
	"context"
)

type IBoardService interface {
	Post(ctx context.Context, sender board.SenderID, content string, now uint64) (board.SubmitResult, error)
	ListAll() []board.Record
	CooldownExpiry(sender board.SenderID) uint64
	Subscribe(subscriberID string, sink contract.EventSink)
	Unsubscribe(subscriberID string)
}

// BoardService is the facade presentation glue talks to. Writes are routed
// through the orchestrator's serialized pipeline, reads go straight to the
// ledger and may run concurrently.
type BoardService struct {
	orchestrator *runtime.Orchestrator
}

func NewBoardService(o *runtime.Orchestrator) *BoardService {
	return &BoardService{orchestrator: o}
}

func (s *BoardService) Post(ctx context.Context, sender board.SenderID, content string, now uint64) (board.SubmitResult, error) {
	return s.orchestrator.Post(ctx, sender, content, now)
}

func (s *BoardService) ListAll() []board.Record {
	return s.orchestrator.ListAll()
}

func (s *BoardService) CooldownExpiry(sender board.SenderID) uint64 {
	return s.orchestrator.CooldownExpiry(sender)
}

func (s *BoardService) Subscribe(subscriberID string, sink contract.EventSink) {
	s.orchestrator.RegisterSubscriber(subscriberID, sink)
}

func (s *BoardService) Unsubscribe(subscriberID string) {
	s.orchestrator.UnregisterSubscriber(subscriberID)
}
