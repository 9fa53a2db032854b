package notify

import "testing"

func TestSignalEmitsInConnectionOrder(t *testing.T) {
	var sig Signal[int]
	var got []string

	sig.Connect(func(v int) { got = append(got, "a") })
	sig.Connect(func(v int) { got = append(got, "b") })
	sig.Emit(1)

	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("expected [a b], got %v", got)
	}
}

func TestSignalDisconnect(t *testing.T) {
	var sig Signal[string]
	calls := 0
	token := sig.Connect(func(string) { calls++ })

	sig.Emit("x")
	sig.Disconnect(token)
	sig.Emit("y")

	if calls != 1 {
		t.Fatalf("expected 1 call after disconnect, got %d", calls)
	}
	if sig.Len() != 0 {
		t.Fatalf("expected no handlers, got %d", sig.Len())
	}
}

func TestSignalDisconnectDuringEmit(t *testing.T) {
	var sig Signal[int]
	var token Token
	first, second := 0, 0

	token = sig.Connect(func(int) {
		first++
		sig.Disconnect(token)
	})
	sig.Connect(func(int) { second++ })

	sig.Emit(0)
	sig.Emit(0)

	if first != 1 {
		t.Fatalf("self-disconnecting handler should run once, ran %d", first)
	}
	if second != 2 {
		t.Fatalf("remaining handler should run twice, ran %d", second)
	}
}

func TestSignalIgnoresNilHandler(t *testing.T) {
	var sig Signal[int]
	if token := sig.Connect(nil); token != 0 {
		t.Fatalf("expected zero token for nil handler, got %d", token)
	}
	sig.Emit(1)
}
