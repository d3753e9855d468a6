package errors

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cristianoliveira/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockColorOutput records the last message per severity.
type mockColorOutput struct {
	mu    sync.Mutex
	calls map[string]string
}

func newMockColorOutput() *mockColorOutput {
	return &mockColorOutput{calls: make(map[string]string)}
}

func (m *mockColorOutput) record(kind string, msgs []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(msgs) > 0 {
		m.calls[kind] = msgs[0]
	} else {
		m.calls[kind] = ""
	}
}

func (m *mockColorOutput) Error(msgs ...string)   { m.record("error", msgs) }
func (m *mockColorOutput) Warning(msgs ...string) { m.record("warning", msgs) }
func (m *mockColorOutput) Info(msgs ...string)    { m.record("info", msgs) }
func (m *mockColorOutput) Success(msgs ...string) { m.record("success", msgs) }

func TestCLIHandlerDelegates(t *testing.T) {
	tests := []struct {
		kind string
		call func(h *CLIHandler, msg string)
	}{
		{"error", (*CLIHandler).Error},
		{"warning", (*CLIHandler).Warning},
		{"info", (*CLIHandler).Info},
		{"success", (*CLIHandler).Success},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			out := newMockColorOutput()
			h := NewCLIHandler(out)
			tt.call(h, "listing saved")
			assert.Equal(t, map[string]string{tt.kind: "listing saved"}, out.calls)
		})
	}
}

func TestNewDefaultCLIHandler(t *testing.T) {
	h := NewDefaultCLIHandler()
	require.NotNil(t, h)
	assert.IsType(t, terminal{}, h.colors)
}

// reentrantOutput calls back into the handler once, as a failing writer would.
type reentrantOutput struct {
	*mockColorOutput
	handler *CLIHandler
	depth   int
}

func (r *reentrantOutput) Error(msgs ...string) {
	r.depth++
	if r.depth == 1 {
		r.handler.Error("nested: " + msgs[0])
	}
	r.mockColorOutput.Error(msgs...)
}

func TestCLIHandlerRecursiveErrorHandling(t *testing.T) {
	out := &reentrantOutput{mockColorOutput: newMockColorOutput()}
	h := NewCLIHandler(out)
	out.handler = h

	h.Error("outer")

	assert.Equal(t, 2, out.depth)
	assert.False(t, h.inHandling)
}

func TestReport(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want map[string]string
	}{
		{"nil", nil, map[string]string{}},
		{"fetch failure is a warning", fmt.Errorf("commerce: %w", domain.ErrFetchFailed), map[string]string{"warning": "commerce: listing fetch failed"}},
		{"other errors", fmt.Errorf("%w: boats", domain.ErrUnknownVertical), map[string]string{"error": "unknown vertical: boats"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := newMockColorOutput()
			Report(NewCLIHandler(out), tt.err)
			assert.Equal(t, tt.want, out.calls)
		})
	}
}

func TestReportNilHandler(t *testing.T) {
	assert.NotPanics(t, func() { Report(nil, domain.ErrFetchFailed) })
}

func TestTUIHandlerMessageTypes(t *testing.T) {
	h := NewTUIHandler(nil)
	h.Error("e")
	h.Warning("w")
	h.Info("i")
	h.Success("s")

	all := h.GetAll()
	require.Len(t, all, 4)
	assert.Equal(t, []MessageType{MessageTypeError, MessageTypeWarning, MessageTypeInfo, MessageTypeSuccess},
		[]MessageType{all[0].Type, all[1].Type, all[2].Type, all[3].Type})
	assert.Equal(t, "e", all[0].Text)
	assert.False(t, all[0].Timestamp.IsZero())
	assert.Equal(t, "warning", all[1].Type.String())
	assert.Equal(t, "ok", all[3].Type.String())
}

func TestTUIHandlerGetLatest(t *testing.T) {
	h := NewTUIHandler(nil)
	_, ok := h.GetLatest()
	assert.False(t, ok)

	h.Info("first")
	h.Error("second")
	msg, ok := h.GetLatest()
	require.True(t, ok)
	assert.Equal(t, "second", msg.Text)
}

func TestTUIHandlerLatestExpires(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	h := NewTUIHandler(nil)
	h.now = func() time.Time { return now }
	h.Warning("listing fetch failed")

	_, ok := h.Latest(5 * time.Second)
	assert.True(t, ok)

	now = now.Add(6 * time.Second)
	_, ok = h.Latest(5 * time.Second)
	assert.False(t, ok)
}

func TestTUIHandlerGetAllReturnsCopy(t *testing.T) {
	h := NewTUIHandler(nil)
	h.Info("a")
	all := h.GetAll()
	all[0].Text = "mutated"
	assert.Equal(t, "a", h.GetAll()[0].Text)
}

func TestTUIHandlerBoundedHistory(t *testing.T) {
	h := NewTUIHandler(nil)
	for i := 0; i < maxTUIMessages+5; i++ {
		h.Info(fmt.Sprintf("m%d", i))
	}
	all := h.GetAll()
	require.Len(t, all, maxTUIMessages)
	assert.Equal(t, "m5", all[0].Text)
}

func TestTUIHandlerClear(t *testing.T) {
	h := NewTUIHandler(nil)
	h.Error("x")
	h.Clear()
	assert.Empty(t, h.GetAll())
	_, ok := h.GetLatest()
	assert.False(t, ok)
}

func TestTUIHandlerCallback(t *testing.T) {
	var got []Message
	h := NewTUIHandler(func(msg Message) { got = append(got, msg) })
	h.Error("boom")
	h.Success("done")

	require.Len(t, got, 2)
	assert.Equal(t, MessageTypeError, got[0].Type)
	assert.Equal(t, "done", got[1].Text)
}

func TestTUIHandlerCallbackMayReenter(t *testing.T) {
	var h *TUIHandler
	h = NewTUIHandler(func(msg Message) {
		if msg.Type == MessageTypeError {
			h.Info("recovered")
		}
	})
	h.Error("boom")
	assert.Len(t, h.GetAll(), 2)
}

func TestTUIHandlerConcurrentAccess(t *testing.T) {
	h := NewTUIHandler(nil)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				h.Info(fmt.Sprintf("%d-%d", n, j))
				h.GetLatest()
				h.GetAll()
			}
		}(i)
	}
	wg.Wait()
	assert.Len(t, h.GetAll(), maxTUIMessages)
}
