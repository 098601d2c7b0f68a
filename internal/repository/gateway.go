package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/shinyyama/kidtokid/internal/transport"
)

var ErrUnexpectedEmpty = errors.New("gateway returned an empty body")

// call performs one gateway request and decodes the JSON result into out
// when out is non-nil. An empty response is accepted only when out is nil.
func call(ctx context.Context, t transport.Adapter, method, path string, body, out any) error {
	res, err := t.Do(ctx, transport.Request{Method: method, Path: path, Body: body})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if res == nil {
		return fmt.Errorf("%s %s: %w", method, path, ErrUnexpectedEmpty)
	}
	if err := res.Decode(out); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	return nil
}

func resourcePath(prefix, id string, rest ...string) string {
	p := prefix + "/" + url.PathEscape(id)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}
