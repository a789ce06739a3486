package fulfilment

import (
	"context"
	"strings"

	"vendorconnect/internal/domain"
)

type actionFunc func(context.Context, domain.Event) error

type actionFactory struct {
	byKey map[string]actionFunc
}

func newActionFactory(onProcessing actionFunc) *actionFactory {
	return &actionFactory{
		byKey: map[string]actionFunc{
			actionKey(domain.AggregateGroupOrder, string(domain.GroupOrderProcessing)): onProcessing,
		},
	}
}

func actionKey(aggregate domain.Aggregate, status string) string {
	return string(aggregate) + "/" + strings.ToLower(strings.TrimSpace(status))
}

func (f *actionFactory) get(ev domain.Event) (actionFunc, bool) {
	if ev.Type != domain.EventStatusChanged {
		return nil, false
	}
	fn, ok := f.byKey[actionKey(ev.Aggregate, ev.Status)]
	return fn, ok
}
