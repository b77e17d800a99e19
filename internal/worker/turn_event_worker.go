package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"storefront-chat/internal/model"
)

type TurnRecorder interface {
	RecordTurn(ctx context.Context, event model.TurnEvent) error
}

// TurnEventWorker consumes turn events and folds them into conversation
// summaries for the back office.
type TurnEventWorker struct {
	conn      *amqp.Connection
	recorder  TurnRecorder
	queueName string
	logger    *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewTurnEventWorker(conn *amqp.Connection, recorder TurnRecorder, queueName string, logger *zap.Logger) *TurnEventWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TurnEventWorker{
		conn:      conn,
		recorder:  recorder,
		queueName: queueName,
		logger:    logger.Named("turn_event_worker"),
	}
}

func (w *TurnEventWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				if err := w.handle(workerCtx, d.Body); err != nil {
					w.logger.Warn("turn event dropped", zap.Error(err))
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *TurnEventWorker) handle(ctx context.Context, body []byte) error {
	var event model.TurnEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("decode turn event failed: %w", err)
	}
	if event.ConversationID == "" {
		return fmt.Errorf("turn event without conversation id")
	}
	return w.recorder.RecordTurn(ctx, event)
}

func (w *TurnEventWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
