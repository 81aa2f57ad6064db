package indexes_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dalemusser/rentalhub/internal/app/system/indexes"
	"go.uber.org/zap"
)

type ensurer struct {
	calls int
	err   error
}

func (e *ensurer) EnsureIndexes(context.Context) error {
	e.calls++
	return e.err
}

func TestEnsureAll_RunsEverySet(t *testing.T) {
	a, b := &ensurer{}, &ensurer{}
	err := indexes.EnsureAll(context.Background(), zap.NewNop(),
		indexes.Set{Collection: "users", Ensurer: a},
		indexes.Set{Collection: "properties", Ensurer: b},
	)
	if err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Errorf("calls = %d, %d; want 1, 1", a.calls, b.calls)
	}
}

func TestEnsureAll_AggregatesErrors(t *testing.T) {
	ok := &ensurer{}
	err := indexes.EnsureAll(context.Background(), zap.NewNop(),
		indexes.Set{Collection: "users", Ensurer: &ensurer{err: errors.New("dup key")}},
		indexes.Set{Collection: "audit_events", Ensurer: ok},
		indexes.Set{Collection: "properties", Ensurer: &ensurer{err: errors.New("timeout")}},
	)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"users: dup key", "properties: timeout"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
	if ok.calls != 1 {
		t.Error("a failing set stopped later sets from running")
	}
}

func TestEnsureAll_StopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := &ensurer{}
	if err := indexes.EnsureAll(ctx, zap.NewNop(), indexes.Set{Collection: "users", Ensurer: e}); err == nil {
		t.Fatal("expected error for canceled context")
	}
	if e.calls != 0 {
		t.Errorf("calls = %d, want 0", e.calls)
	}
}
