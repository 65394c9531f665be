package broker

import (
	"context"
	"testing"
	"time"

	"github.com/madstone-tech/pylon/internal/core/entities"
)

func TestSendRecvEngineMsg(t *testing.T) {
	b := New()
	ctx := context.Background()

	want := entities.EngineMsg{Kind: entities.EngineMsgBuild}
	if err := b.SendEngineMsg(ctx, want); err != nil {
		t.Fatalf("Send: %v", err)
	}
	got, err := b.RecvEngineMsg(ctx)
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if got.Kind != want.Kind {
		t.Errorf("Kind = %v, want %v", got.Kind, want.Kind)
	}
}

func TestCloneSharesChannels(t *testing.T) {
	b := New()
	clone := b.Clone()
	ctx := context.Background()

	if err := b.SendEngineMsg(ctx, entities.EngineMsg{Kind: entities.EngineMsgQuit}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	got, err := clone.RecvEngineMsg(ctx)
	if err != nil {
		t.Fatalf("Recv via clone: %v", err)
	}
	if got.Kind != entities.EngineMsgQuit {
		t.Errorf("Kind = %v", got.Kind)
	}
}

func TestRecvEngineMsg_ContextCancelled(t *testing.T) {
	b := New()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := b.RecvEngineMsg(ctx); err == nil {
		t.Fatal("expected context deadline error on empty channel")
	}
}
