package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ManuC12/Raices-de-vida/internal/checkout"
	"github.com/ManuC12/Raices-de-vida/internal/domain"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// OrderFromEvent turns a checkout announcement into a pending board order.
func OrderFromEvent(e checkout.OrderPlaced) domain.Order {
	return domain.Order{
		Number:   fmt.Sprintf("#%d", e.OrderNumber),
		Customer: e.Customer,
		Items:    e.Items,
		Total:    e.Total,
		Status:   domain.OrderPending,
		PlacedAt: e.PlacedAt,
	}
}

// Recorder puts placed orders straight onto the board. It stands in for the
// Kafka round trip when no brokers are configured.
type Recorder struct {
	board *Board
}

func NewRecorder(board *Board) *Recorder {
	return &Recorder{board: board}
}

func (r *Recorder) Publish(_ context.Context, event checkout.OrderPlaced) error {
	r.board.Record(OrderFromEvent(event))
	return nil
}

func (r *Recorder) Close() error { return nil }

// Feed consumes order events from Kafka and records them on the board.
type Feed struct {
	board  *Board
	reader *kafka.Reader
	log    *zap.Logger
}

func NewFeed(board *Board, log *zap.Logger, topic, groupID string, brokers ...string) *Feed {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})
	return &Feed{board: board, reader: reader, log: log}
}

// Run reads until ctx is done or the reader is closed.
func (f *Feed) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		m, err := f.reader.ReadMessage(ctx)
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				f.log.Warn("error reading order event", zap.Error(err))
			}
			continue
		}
		if err := f.handle(m); err != nil {
			f.log.Warn("skipping order event", zap.Int64("offset", m.Offset), zap.Error(err))
		}
	}
}

func (f *Feed) handle(m kafka.Message) error {
	for _, h := range m.Headers {
		if h.Key == "event_type" && string(h.Value) != checkout.EventTypeOrderPlaced {
			return nil
		}
	}

	var event checkout.OrderPlaced
	if err := json.Unmarshal(m.Value, &event); err != nil {
		return fmt.Errorf("error parsing message: %w", err)
	}
	f.board.Record(OrderFromEvent(event))
	f.log.Info("order recorded", zap.Int("order_number", event.OrderNumber))
	return nil
}

func (f *Feed) Close() error {
	return f.reader.Close()
}
