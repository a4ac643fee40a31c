package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/satvikfoods/catalog/internal/core/domain"
	"github.com/satvikfoods/catalog/internal/core/port"
	"github.com/satvikfoods/catalog/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

// A SyncConsumer receives peer resync announcements and applies them to the
// local catalog cache.
type SyncConsumer struct {
	cl       ConsumerClient
	decoder  Decoder
	applier  port.SyncApplier
	errTimer *time.Timer
}

func NewSyncConsumer(opts ...ConsumerOpt) SyncConsumer {
	const op = "NewSyncConsumer"

	if len(opts) == 0 {
		panic(fmt.Errorf("%s: options not set", op)) // develop mistake
	}

	var options consumerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			panic(err) // develop mistake
		}
	}

	return SyncConsumer{
		cl:       options.cl,
		decoder:  options.decoder,
		applier:  options.applier,
		errTimer: time.NewTimer(0),
	}
}

func (c SyncConsumer) Close() {
	const op = "SyncConsumer.Close"
	log := slog.With("op", op)

	log.Info("closing sync consumer...")
	c.errTimer.Stop()
	c.cl.Close()
	log.Info("sync consumer is closed")
}

func (c SyncConsumer) Run(ctx context.Context) {
	const op = "SyncConsumer.Run"
	log := slog.With("op", op)

	log.Info("running")

	for {
		select {
		case <-ctx.Done():
			return
		default:
			err := c.consume(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					continue
				}
				err = fmt.Errorf("%s: %w", op, err)
				log.Error("failed to consume messages", "err", err)
				c.slowDown()
			}
		}
	}
}

func (c SyncConsumer) consume(ctx context.Context) error {
	const op = "SyncConsumer.consume"

	fetches, err := c.pollFetches(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if fetches.Empty() {
		return nil
	}

	c.applyEvents(ctx, fetches)

	if err := c.commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c SyncConsumer) pollFetches(ctx context.Context) (kgo.Fetches, error) {
	const op = "SyncConsumer.pollFetches"

	fetches := c.cl.PollFetches(ctx)
	if err := fetches.Err0(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err := c.handleErrs(fetches)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return fetches, nil
}

func (c SyncConsumer) handleErrs(fetches kgo.Fetches) error {
	var errsData []string
	fetches.EachError(func(t string, p int32, err error) {
		if err != nil {
			errData := fmt.Sprintf(
				"topic %q partition %d: %q", t, p, err,
			)
			errsData = append(errsData, errData)
		}
	})

	if len(errsData) != 0 {
		return errors.New(strings.Join(errsData, "; "))
	}
	return nil
}

func (c SyncConsumer) applyEvents(ctx context.Context, fetches kgo.Fetches) {
	const op = "SyncConsumer.applyEvents"
	log := slog.With("op", op)

	fetches.EachRecord(func(r *kgo.Record) {
		ev, err := c.unmarshal(r.Value)
		if err != nil {
			err = fmt.Errorf("%s: %w", op, err)
			log.Error("failed to unmarshal value", "err", err)
			return
		}

		if err := c.applier.ApplySyncEvent(ctx, c.toDomain(ev)); err != nil {
			err = fmt.Errorf("%s: %w", op, err)
			log.Error("failed to apply sync event", "err", err)
		}
	})
}

func (c SyncConsumer) unmarshal(v []byte) (s schema.CatalogSyncEventV1, err error) {
	const op = "SyncConsumer.unmarshal"

	if err := c.decoder.Decode(v, &s); err != nil {
		return s, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func (c SyncConsumer) toDomain(s schema.CatalogSyncEventV1) domain.SyncEvent {
	return domain.SyncEvent{
		Origin:      s.Origin,
		Reason:      s.Reason,
		RequestedAt: time.UnixMilli(s.RequestedAt),
	}
}

func (c SyncConsumer) commit(ctx context.Context) error {
	const op = "SyncConsumer.commit"

	err := ctx.Err()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = c.cl.CommitUncommittedOffsets(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c SyncConsumer) slowDown() {
	const timeout = 1 * time.Second
	c.errTimer.Reset(timeout)
	<-c.errTimer.C
}
