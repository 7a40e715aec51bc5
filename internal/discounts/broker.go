package discounts

import (
	"context"
	"errors"
	"fmt"
	"sync"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
)

// Broker carries discount updates between API instances. Run blocks,
// handing every received update to deliver until ctx is cancelled.
type Broker interface {
	Publish(ctx context.Context, u Update) error
	Run(ctx context.Context, deliver func(Update)) error
}

var errBrokerClosed = errors.New("discount broker subscription closed")

// MemoryBroker delivers in-process only. It suits a single instance.
type MemoryBroker struct {
	mu       sync.RWMutex
	handlers map[int]func(Update)
	next     int
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{handlers: map[int]func(Update){}}
}

func (b *MemoryBroker) Publish(_ context.Context, u Update) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, h := range b.handlers {
		h(u)
	}
	return nil
}

func (b *MemoryBroker) Run(ctx context.Context, deliver func(Update)) error {
	b.mu.Lock()
	b.next++
	id := b.next
	b.handlers[id] = deliver
	b.mu.Unlock()

	<-ctx.Done()

	b.mu.Lock()
	delete(b.handlers, id)
	b.mu.Unlock()
	return nil
}

func (b *MemoryBroker) listeners() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

// RedisPubSub is the slice of pkg/redis the Redis broker needs.
type RedisPubSub interface {
	Publish(ctx context.Context, channel string, payload any) error
	Subscribe(ctx context.Context, channel string) (*goredis.PubSub, error)
}

// RedisBroker publishes JSON updates on a Redis channel.
type RedisBroker struct {
	client  RedisPubSub
	channel string
	logg    *logger.Logger
}

func NewRedisBroker(client RedisPubSub, channel string, logg *logger.Logger) (*RedisBroker, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	if channel == "" {
		return nil, errors.New("redis channel required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &RedisBroker{client: client, channel: channel, logg: logg}, nil
}

func (b *RedisBroker) Publish(ctx context.Context, u Update) error {
	data, err := encodeUpdate(u)
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, b.channel, data); err != nil {
		return fmt.Errorf("publish discount update: %w", err)
	}
	return nil
}

func (b *RedisBroker) Run(ctx context.Context, deliver func(Update)) error {
	sub, err := b.client.Subscribe(ctx, b.channel)
	if err != nil {
		return err
	}
	defer sub.Close()

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errBrokerClosed
			}
			u, err := decodeUpdate([]byte(msg.Payload))
			if err != nil {
				b.logg.Warn(b.logg.WithField(ctx, "channel", msg.Channel), err.Error())
				continue
			}
			deliver(u)
		}
	}
}

// PubSubBroker publishes on a GCP Pub/Sub topic and receives on this
// instance's subscription.
type PubSubBroker struct {
	publisher  *pubsub.Publisher
	subscriber *pubsub.Subscriber
	logg       *logger.Logger
}

func NewPubSubBroker(publisher *pubsub.Publisher, subscriber *pubsub.Subscriber, logg *logger.Logger) (*PubSubBroker, error) {
	if publisher == nil {
		return nil, errors.New("discounts publisher required")
	}
	if subscriber == nil {
		return nil, errors.New("discounts subscription required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &PubSubBroker{publisher: publisher, subscriber: subscriber, logg: logg}, nil
}

func (b *PubSubBroker) Publish(ctx context.Context, u Update) error {
	data, err := encodeUpdate(u)
	if err != nil {
		return err
	}
	result := b.publisher.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{"item_id": u.ItemID},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish discount update: %w", err)
	}
	return nil
}

func (b *PubSubBroker) Run(ctx context.Context, deliver func(Update)) error {
	err := b.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		u, err := decodeUpdate(msg.Data)
		if err != nil {
			// poison message; redelivery would fail the same way
			b.logg.Error(b.logg.WithField(ctx, "message_id", msg.ID), "drop discount message", err)
			msg.Ack()
			return
		}
		deliver(u)
		msg.Ack()
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}
