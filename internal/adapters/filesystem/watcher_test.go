package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/madstone-tech/pylon/internal/core/entities"
	"github.com/madstone-tech/pylon/internal/core/usecases"
)

// captureBroker records every EngineMsg sent to it; the dev-server side is
// unused by the watcher and left unimplemented beyond interface compliance.
type captureBroker struct {
	mu  sync.Mutex
	got []entities.EngineMsg
}

var _ usecases.Broker = (*captureBroker)(nil)

func (b *captureBroker) SendEngineMsg(_ context.Context, msg entities.EngineMsg) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.got = append(b.got, msg)
	return nil
}
func (b *captureBroker) RecvEngineMsg(ctx context.Context) (entities.EngineMsg, error) {
	<-ctx.Done()
	return entities.EngineMsg{}, ctx.Err()
}
func (b *captureBroker) SendDevServerMsg(context.Context, entities.DevServerMsg) error { return nil }
func (b *captureBroker) RecvDevServerMsg(ctx context.Context) (entities.DevServerMsg, error) {
	<-ctx.Done()
	return entities.DevServerMsg{}, ctx.Err()
}
func (b *captureBroker) Clone() usecases.Broker { return b }

func (b *captureBroker) snapshot() []entities.EngineMsg {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]entities.EngineMsg, len(b.got))
	copy(out, b.got)
	return out
}

func TestWatch_DebouncesCreateIntoFilesystemUpdate(t *testing.T) {
	root := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	broker := &captureBroker{}
	w := NewWatcher(30 * time.Millisecond)

	go func() {
		_ = w.Watch(ctx, []string{root}, broker)
	}()

	// Give the watcher time to register the root directory.
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(root, "new.md"), []byte("# new"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(2 * time.Second)
	for {
		if len(broker.snapshot()) > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for filesystem update message")
		case <-time.After(20 * time.Millisecond):
		}
	}

	msgs := broker.snapshot()
	if msgs[0].Kind != entities.EngineMsgFilesystemUpdate {
		t.Errorf("Kind = %v, want EngineMsgFilesystemUpdate", msgs[0].Kind)
	}
	if len(msgs[0].Update.Created) == 0 && len(msgs[0].Update.Changed) == 0 {
		t.Errorf("expected a created or changed path, got %+v", msgs[0].Update)
	}
}
