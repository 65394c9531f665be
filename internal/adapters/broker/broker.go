// Package broker implements usecases.Broker with two buffered Go channels
// (capacity 4096), one per direction, collapsing the original async_channel-plus-blocking-
// wrapper split (spec §4.9): a channel send/receive already blocks the
// calling goroutine without a separate sync/async API.
package broker

import (
	"context"

	"github.com/madstone-tech/pylon/internal/core/entities"
	"github.com/madstone-tech/pylon/internal/core/usecases"
)

// Broker holds the two message channels. Both directions are buffered
// generously rather than truly unbounded, since Go channels have no
// unbounded-buffer primitive; a watcher/devserver pair produces messages far
// slower than an idle consumer can drain them.
type Broker struct {
	engine    chan entities.EngineMsg
	devserver chan entities.DevServerMsg
}

const channelCapacity = 4096

// New creates a fresh Broker with independent channels.
func New() *Broker {
	return &Broker{
		engine:    make(chan entities.EngineMsg, channelCapacity),
		devserver: make(chan entities.DevServerMsg, channelCapacity),
	}
}

var _ usecases.Broker = (*Broker)(nil)

func (b *Broker) SendEngineMsg(ctx context.Context, msg entities.EngineMsg) error {
	select {
	case b.engine <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Broker) RecvEngineMsg(ctx context.Context) (entities.EngineMsg, error) {
	select {
	case msg := <-b.engine:
		return msg, nil
	case <-ctx.Done():
		return entities.EngineMsg{}, ctx.Err()
	}
}

func (b *Broker) SendDevServerMsg(ctx context.Context, msg entities.DevServerMsg) error {
	select {
	case b.devserver <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Broker) RecvDevServerMsg(ctx context.Context) (entities.DevServerMsg, error) {
	select {
	case msg := <-b.devserver:
		return msg, nil
	case <-ctx.Done():
		return entities.DevServerMsg{}, ctx.Err()
	}
}

// Clone returns a handle sharing the same underlying channels: every clone
// observes the same message stream, matching the original's Clone-derived
// EngineBroker.
func (b *Broker) Clone() usecases.Broker {
	return b
}
