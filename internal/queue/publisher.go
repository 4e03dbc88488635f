package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/akulkarni/oddsedge/internal/engine"
)

// OpportunityMessage is the wire envelope for a detected arbitrage. ScannedAt
// lets consumers drop stale detections after consumer-group lag.
type OpportunityMessage struct {
	Opportunity engine.Opportunity `json:"opportunity"`
	ScannedAt   time.Time          `json:"scanned_at"`
}

func PublishOpportunities(ctx context.Context, writer *kafka.Writer, ops []engine.Opportunity) error {
	if writer == nil || len(ops) == 0 {
		return nil
	}

	scanned := time.Now().UTC()
	msgs := make([]kafka.Message, 0, len(ops))

	for _, op := range ops {
		payload, err := json.Marshal(OpportunityMessage{Opportunity: op, ScannedAt: scanned})
		if err != nil {
			return fmt.Errorf("marshal opportunity %s: %w", op.Event, err)
		}
		line := ""
		if op.Line != nil {
			line = *op.Line
		}
		key := fmt.Sprintf("%s|%s|%s|%d", op.Event, op.Market, line, scanned.UnixNano())
		msgs = append(msgs, kafka.Message{Key: []byte(key), Value: payload})
	}

	return writer.WriteMessages(ctx, msgs...)
}
