package hooks

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/renderloop/genui/streaming"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry returned nil")
	}
}

func TestOnBeforeMessage(t *testing.T) {
	r := NewRegistry()
	var gotTurn, gotCount int

	r.OnBeforeMessage(func(ctx context.Context, turn, messageCount int) error {
		gotTurn, gotCount = turn, messageCount
		return nil
	})

	if err := r.TriggerBeforeMessage(context.Background(), 2, 5); err != nil {
		t.Errorf("TriggerBeforeMessage returned error: %v", err)
	}
	if gotTurn != 2 || gotCount != 5 {
		t.Errorf("hook saw turn=%d count=%d, want 2 and 5", gotTurn, gotCount)
	}
}

func TestOnAfterMessage(t *testing.T) {
	r := NewRegistry()
	var captured *streaming.Message

	r.OnAfterMessage(func(ctx context.Context, msg *streaming.Message) error {
		captured = msg
		return nil
	})

	msg := &streaming.Message{StopReason: "end_turn"}
	if err := r.TriggerAfterMessage(context.Background(), msg); err != nil {
		t.Errorf("TriggerAfterMessage returned error: %v", err)
	}
	if captured != msg {
		t.Error("message was not passed to hook")
	}
}

func TestOnToolCall(t *testing.T) {
	r := NewRegistry()
	var capturedName string
	var capturedOutput string

	r.OnToolCall(func(ctx context.Context, name string, input json.RawMessage, output string, err error) error {
		capturedName = name
		capturedOutput = output
		return nil
	})

	err := r.TriggerToolCall(context.Background(), "calculator__calculate", nil, "42", nil)
	if err != nil {
		t.Errorf("TriggerToolCall returned error: %v", err)
	}
	if capturedName != "calculator__calculate" {
		t.Errorf("expected name 'calculator__calculate', got '%s'", capturedName)
	}
	if capturedOutput != "42" {
		t.Errorf("expected output '42', got '%s'", capturedOutput)
	}
}

func TestHookError(t *testing.T) {
	r := NewRegistry()
	expectedErr := errors.New("hook error")

	r.OnBeforeMessage(func(ctx context.Context, turn, messageCount int) error {
		return expectedErr
	})

	err := r.TriggerBeforeMessage(context.Background(), 1, 1)
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

func TestMultipleHooks(t *testing.T) {
	r := NewRegistry()
	callOrder := []int{}

	for i := 1; i <= 3; i++ {
		n := i
		r.OnBeforeMessage(func(ctx context.Context, turn, messageCount int) error {
			callOrder = append(callOrder, n)
			return nil
		})
	}

	if err := r.TriggerBeforeMessage(context.Background(), 1, 1); err != nil {
		t.Errorf("TriggerBeforeMessage returned error: %v", err)
	}

	if len(callOrder) != 3 {
		t.Fatalf("expected 3 hooks to be called, got %d", len(callOrder))
	}
	for i, v := range callOrder {
		if v != i+1 {
			t.Errorf("expected call order %d at index %d, got %d", i+1, i, v)
		}
	}
}

func TestHookStopsOnError(t *testing.T) {
	r := NewRegistry()
	called := []int{}
	expectedErr := errors.New("stop here")

	r.OnToolCall(func(ctx context.Context, name string, input json.RawMessage, output string, err error) error {
		called = append(called, 1)
		return nil
	})
	r.OnToolCall(func(ctx context.Context, name string, input json.RawMessage, output string, err error) error {
		called = append(called, 2)
		return expectedErr
	})
	r.OnToolCall(func(ctx context.Context, name string, input json.RawMessage, output string, err error) error {
		called = append(called, 3)
		return nil
	})

	err := r.TriggerToolCall(context.Background(), "tool", nil, "", nil)
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
	if len(called) != 2 {
		t.Errorf("expected 2 hooks to be called before error, got %d", len(called))
	}
}

func TestConcurrentRegistrationAndTrigger(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		r.OnBeforeMessage(func(ctx context.Context, turn, messageCount int) error {
			return nil
		})
	}

	wg.Add(200)
	for i := 0; i < 100; i++ {
		go func() {
			defer wg.Done()
			r.OnBeforeMessage(func(ctx context.Context, turn, messageCount int) error {
				return nil
			})
		}()
		go func() {
			defer wg.Done()
			r.TriggerBeforeMessage(context.Background(), 1, 1)
		}()
	}
	wg.Wait()
}

func TestLoggingHooksRegister(t *testing.T) {
	r := NewRegistry()
	DefaultLoggingHooks().Register(r)

	msg := &streaming.Message{StopReason: "end_turn"}
	if err := r.TriggerAfterMessage(context.Background(), msg); err != nil {
		t.Errorf("logging AfterMessage returned error: %v", err)
	}
	if err := r.TriggerToolCall(context.Background(), "tool", nil, "out", errors.New("boom")); err != nil {
		t.Errorf("logging ToolCall returned error: %v", err)
	}
}

func TestMetricsHooks(t *testing.T) {
	var recorded []string
	m := NewMetricsHooks(func(name string, value float64, tags map[string]string) {
		recorded = append(recorded, name)
	})

	r := NewRegistry()
	m.Register(r)

	msg := &streaming.Message{Usage: streaming.Usage{InputTokens: 10, OutputTokens: 20}}
	if err := r.TriggerAfterMessage(context.Background(), msg); err != nil {
		t.Fatalf("TriggerAfterMessage returned error: %v", err)
	}
	if err := r.TriggerToolCall(context.Background(), "tool", nil, "", nil); err != nil {
		t.Fatalf("TriggerToolCall returned error: %v", err)
	}

	want := []string{"chat.tokens.input", "chat.tokens.output", "chat.tokens.total", "chat.tool.success"}
	if len(recorded) != len(want) {
		t.Fatalf("recorded %v, want %v", recorded, want)
	}
	for i := range want {
		if recorded[i] != want[i] {
			t.Errorf("metric[%d] = %q, want %q", i, recorded[i], want[i])
		}
	}
}
