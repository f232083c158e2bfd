// Package media turns stored product image references into URLs a browser
// can load.
package media

import (
	"context"
	"net/url"
)

type Signer interface {
	SignURL(ctx context.Context, ref string) (string, error)
}

// Passthrough hands references out unchanged. Used when images are stored
// as absolute URLs and no object storage is configured.
type Passthrough struct{}

func (Passthrough) SignURL(_ context.Context, ref string) (string, error) {
	return ref, nil
}

func isAbsolute(ref string) bool {
	u, err := url.Parse(ref)
	return err == nil && u.IsAbs()
}

// SignAll signs refs in order. The result is never nil.
func SignAll(ctx context.Context, s Signer, refs []string) ([]string, error) {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		u, err := s.SignURL(ctx, ref)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}
