// Package mock provides test doubles for mosaic interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/mosaic"
)

// Interface compliance check.
var _ mosaic.Provider = (*Provider)(nil)

// Provider is a test double for mosaic.Provider.
// Set StreamFn or MessageFn before calling the matching method.
type Provider struct {
	StreamFn  func(ctx context.Context, req mosaic.Request) (mosaic.Stream, error)
	MessageFn func(ctx context.Context, req mosaic.Request) (mosaic.ResponseMessage, error)
}

// Stream delegates to StreamFn.
func (p *Provider) Stream(ctx context.Context, req mosaic.Request) (mosaic.Stream, error) {
	return p.StreamFn(ctx, req)
}

// Message delegates to MessageFn.
func (p *Provider) Message(ctx context.Context, req mosaic.Request) (mosaic.ResponseMessage, error) {
	return p.MessageFn(ctx, req)
}
