package listener

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-workshop-pos/internal/checkout"
	"github.com/fekuna/omnipos-workshop-pos/internal/ledger/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/broker"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queueReader struct {
	msgs []kafka.Message
	errs []error
}

func (q *queueReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(q.errs) > 0 {
		err := q.errs[0]
		q.errs = q.errs[1:]
		return kafka.Message{}, err
	}
	if len(q.msgs) > 0 {
		m := q.msgs[0]
		q.msgs = q.msgs[1:]
		return m, nil
	}
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

type recordingUseCase struct {
	mu      sync.Mutex
	indexed []string
	done    chan struct{}
}

func (r *recordingUseCase) GetTransaction(context.Context, string) (*model.Transaction, error) {
	return nil, nil
}

func (r *recordingUseCase) ListTransactions(context.Context, *dto.TransactionFilters) ([]model.Transaction, int, error) {
	return nil, 0, nil
}

func (r *recordingUseCase) Summary(context.Context, time.Time) (*dto.Summary, error) {
	return nil, nil
}

func (r *recordingUseCase) IndexReceipt(_ context.Context, txn *model.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexed = append(r.indexed, txn.ID)
	if r.done != nil {
		close(r.done)
		r.done = nil
	}
	return nil
}

func message(t *testing.T, eventType string, payload interface{}) kafka.Message {
	t.Helper()
	env, err := broker.NewEnvelope(eventType, "test", "c-1", payload)
	require.NoError(t, err)
	b, err := json.Marshal(env)
	require.NoError(t, err)
	return kafka.Message{Value: b}
}

func TestReceiptListenerIndexesCommittedSales(t *testing.T) {
	uc := &recordingUseCase{done: make(chan struct{})}
	reader := &queueReader{
		errs: []error{errors.New("broker down")},
		msgs: []kafka.Message{
			{Value: []byte("not json")},
			message(t, broker.EventStockAdjusted, map[string]string{"productId": "1"}),
			message(t, broker.EventTransactionCommitted, checkout.CommittedPayload{
				Transaction: model.Transaction{ID: "T-9", Total: 1000},
				Shop:        "main",
			}),
		},
	}
	done := uc.done
	l := NewReceiptListener(reader, uc, logger.NewNop())
	l.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(stopped)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("receipt was never indexed")
	}
	cancel()
	<-stopped

	uc.mu.Lock()
	defer uc.mu.Unlock()
	assert.Equal(t, []string{"T-9"}, uc.indexed)
}
