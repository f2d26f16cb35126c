package monitor

import (
	"context"

	"github.com/vudials/vudials-go/pkg/httpclient"
	"github.com/vudials/vudials-go/pkg/publishers"
	"github.com/vudials/vudials-go/pkg/vudials"
)

// DialReader is the read-only part of the dial API the monitor polls.
type DialReader interface {
	ListDials(ctx context.Context, opts ...vudials.CallOption) (httpclient.Response, error)
	GetDialInfo(ctx context.Context, uid string, opts ...vudials.CallOption) (httpclient.Response, error)
}

// EventPublisher publishes dial status events downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}
