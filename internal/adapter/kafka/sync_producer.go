package kafka

import (
	"context"
	"log/slog"

	"github.com/satvikfoods/catalog/internal/core/domain"
	"github.com/satvikfoods/catalog/internal/core/port"
	"github.com/satvikfoods/catalog/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

// A producer is used for composition.
//
// Producing records to kafka broker and closing underlying [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
}

func (p producer) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p producer) produce(ctx context.Context, rs ...*kgo.Record) error {
	const op = "produce"
	res := p.cl.ProduceSync(ctx, rs...)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

var _ port.SyncBroadcaster = (*SyncProducer)(nil)

// A SyncProducer broadcasts [domain.SyncEvent] to peer instances.
type SyncProducer struct {
	producer producer
	encoder  Encoder
	opPrefix string
}

func NewSyncProducer(opts ...ProducerOpt) (SyncProducer, error) {
	const op = "NewSyncProducer"

	if len(opts) != 2 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return SyncProducer{}, opErr(err, op)
		}
	}

	opPrefix := "SyncProducer"
	p := producer{
		opPrefix: opPrefix,
		cl:       options.cl,
	}

	return SyncProducer{
		producer: p,
		encoder:  options.encoder,
		opPrefix: opPrefix,
	}, nil
}

func (p SyncProducer) Close() {
	p.producer.close()
}

func (p SyncProducer) BroadcastSync(
	ctx context.Context, ev domain.SyncEvent,
) error {
	const op = "BroadcastSync"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r, err := p.createRecord(ev)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	if err := p.producer.produce(ctx, &r); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

func (p SyncProducer) createRecord(ev domain.SyncEvent) (kgo.Record, error) {
	const op = "createRecord"

	s := p.toSchema(ev)
	b, err := p.encoder.Encode(s)
	if err != nil {
		return kgo.Record{}, opErr(err, p.opPrefix, op)
	}

	msgKey := []byte(s.Origin)
	return kgo.Record{Key: msgKey, Value: b}, nil
}

func (SyncProducer) toSchema(ev domain.SyncEvent) schema.CatalogSyncEventV1 {
	return schema.CatalogSyncEventV1{
		Origin:      ev.Origin,
		Reason:      ev.Reason,
		RequestedAt: ev.RequestedAt.UnixMilli(),
	}
}
