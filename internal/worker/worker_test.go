package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInvalidator struct {
	ids []int64
}

func (f *fakeInvalidator) InvalidateTodo(_ context.Context, id int64) {
	f.ids = append(f.ids, id)
}

// fakeReader serves queued messages, then cancels the run context and reports it.
type fakeReader struct {
	msgs      []kafka.Message
	committed int
	closed    bool
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		return kafka.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.committed += len(msgs)
	return nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

func TestRun_InvalidatesAndCommits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		cancel: cancel,
		msgs: []kafka.Message{
			{Value: []byte(`{"action":"created","id":1}`)},
			{Value: []byte(`not json`)},
			{Value: []byte(`{"action":"deleted","id":2}`)},
		},
	}
	inv := &fakeInvalidator{}

	require.NoError(t, Run(ctx, reader, inv))

	assert.Equal(t, []int64{1, 2}, inv.ids)
	assert.Equal(t, 3, reader.committed, "poison messages are committed too")
	assert.True(t, reader.closed)
}

func TestHandleMessage(t *testing.T) {
	inv := &fakeInvalidator{}
	ctx := context.Background()

	require.NoError(t, handleMessage(ctx, inv, []byte(`{"action":"updated","id":5}`)))
	assert.Equal(t, []int64{5}, inv.ids)

	err := handleMessage(ctx, inv, []byte(`{"action":"archived","id":5}`))
	assert.Error(t, err)

	err = handleMessage(ctx, inv, []byte(`{`))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, context.Canceled))
}
