package notify

import (
	"context"
	"encoding/json"
	"sync"
)

const (
	receiveBatchSize   = 10
	receiveWaitSeconds = 20
)

// RunWorkers starts count consumer goroutines and blocks until ctx is
// canceled. Each goroutine long-polls the queue and delivers emails for
// the events it picks up. Failed deliveries are not deleted, so a broker
// with redelivery (SQS) will retry them.
func (s *Service) RunWorkers(ctx context.Context, count int) {
	if count <= 0 {
		count = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			s.consumeLoop(ctx, worker)
		}(i)
	}
	wg.Wait()
}

func (s *Service) consumeLoop(ctx context.Context, worker int) {
	s.logger.Info("notification worker started", "worker", worker)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("notification worker stopping", "worker", worker)
			return
		default:
		}

		messages, err := s.queue.Receive(ctx, receiveBatchSize, receiveWaitSeconds)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Error("failed to receive notification messages", "error", err, "worker", worker)
			continue
		}

		for _, msg := range messages {
			var payload queuePayload
			if err := json.Unmarshal([]byte(msg.Body), &payload); err != nil {
				s.logger.Error("dropping undecodable notification message", "error", err, "message_id", msg.ID)
				if err := s.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
					s.logger.Warn("failed to delete poison message", "error", err, "message_id", msg.ID)
				}
				continue
			}

			if err := s.deliver(ctx, payload); err != nil {
				s.logger.Error("notification delivery failed, leaving message for retry",
					"error", err, "event_id", payload.ID)
				continue
			}
			if err := s.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
				s.logger.Warn("failed to delete delivered message", "error", err, "message_id", msg.ID)
			}
		}
	}
}
