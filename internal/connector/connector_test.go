package connector

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/crimson-sun/edurisk/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func drain(t *testing.T, ch <-chan model.Chunk) ([]byte, []int, error) {
	t.Helper()
	var (
		data  []byte
		sizes []int
		err   error
	)
	for c := range ch {
		if c.Err != nil {
			err = c.Err
			continue
		}
		data = append(data, c.Data...)
		sizes = append(sizes, len(c.Data))
	}
	return data, sizes, err
}

func TestPumpChunks(t *testing.T) {
	ch := Pump(context.Background(), strings.NewReader("student_id,name\nS1,Ann\n"), 8, nil)
	data, sizes, err := drain(t, ch)

	require.NoError(t, err)
	assert.Equal(t, "student_id,name\nS1,Ann\n", string(data))
	for _, n := range sizes {
		assert.LessOrEqual(t, n, 8)
	}
}

func TestPumpRunsCloseFn(t *testing.T) {
	closed := false
	ch := Pump(context.Background(), strings.NewReader("x"), 4, func() error {
		closed = true
		return nil
	})
	_, _, _ = drain(t, ch)
	assert.True(t, closed)
}

type failingReader struct{ sent bool }

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.sent {
		r.sent = true
		return copy(p, "abc"), nil
	}
	return 0, errors.New("disk gone")
}

func TestPumpReadError(t *testing.T) {
	data, _, err := drain(t, Pump(context.Background(), &failingReader{}, 16, nil))
	assert.Equal(t, "abc", string(data))
	assert.EqualError(t, err, "disk gone")
}

func TestPumpContextCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := Pump(ctx, pr, 4, pr.Close)

	go func() { _, _ = pw.Write([]byte("abcdefgh")) }()
	first := <-ch
	assert.Equal(t, "abcd", string(first.Data))
	cancel()

	done := make(chan struct{})
	go func() {
		for range ch {
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("producer did not stop after cancel")
	}
}

func TestConfigSize(t *testing.T) {
	assert.Equal(t, DefaultChunkSize, Config{}.Size())
	assert.Equal(t, 10, Config{ChunkSize: 10}.Size())
}

type nopConnector struct{}

func (nopConnector) Stream(context.Context, Config) (<-chan model.Chunk, error) { return nil, nil }

func TestRegistry(t *testing.T) {
	Register("zz-test", func() Connector { return nopConnector{} })
	Register("aa-test", func() Connector { return nopConnector{} })

	ctor, err := Get("zz-test")
	require.NoError(t, err)
	assert.NotNil(t, ctor())

	_, err = Get("missing")
	assert.Error(t, err)

	names := Providers()
	assert.IsNonDecreasing(t, names)
	assert.Contains(t, names, "aa-test")
	assert.Contains(t, names, "zz-test")
}
