package workers

import (
	"context"
	"encoding/json"
	"sync"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/akulkarni/oddsedge/internal/kafka"
	"github.com/akulkarni/oddsedge/internal/logging"
	"github.com/akulkarni/oddsedge/internal/queue"
)

type Handler func(context.Context, *queue.OpportunityMessage) error

// Run fans out workerCount consumers in the same consumer group and blocks
// until ctx is cancelled.
func Run(ctx context.Context, brokers []string, topic, group string, workerCount int, handler Handler) {
	if workerCount <= 0 {
		workerCount = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			reader := kafka.NewReader(brokers, topic, group)
			defer reader.Close()
			consume(ctx, reader, handler)
		}(i)
	}

	<-ctx.Done()
	wg.Wait()
}

func consume(ctx context.Context, reader *kafkago.Reader, handler Handler) {
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logging.Errorf("worker read error: %v", err)
			continue
		}

		var om queue.OpportunityMessage
		if err := json.Unmarshal(msg.Value, &om); err != nil {
			logging.Errorf("worker unmarshal error: %v", err)
			continue
		}

		if handler != nil {
			if err := handler(ctx, &om); err != nil {
				logging.Errorf("worker handler error: %v", err)
			}
		}
	}
}
