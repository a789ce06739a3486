package fulfilment

import (
	"context"

	"vendorconnect/internal/domain"
)

// Processor reacts to marketplace events consumed by the worker.
type Processor struct {
	scheduler Scheduler
	factory   *actionFactory
}

// NewProcessor creates a Processor scheduling deliveries through scheduler.
func NewProcessor(scheduler Scheduler) *Processor {
	p := &Processor{scheduler: scheduler}
	p.factory = newActionFactory(p.onProcessing)
	return p
}

// Handle processes a single marketplace event. Events without an action are ignored.
func (p *Processor) Handle(ctx context.Context, ev domain.Event) error {
	if p.factory == nil {
		return nil
	}
	fn, ok := p.factory.get(ev)
	if !ok {
		return nil
	}
	return fn(ctx, ev)
}

func (p *Processor) onProcessing(ctx context.Context, ev domain.Event) error {
	_, err := p.scheduler.Schedule(ctx, ev.AggregateID)
	return err
}
