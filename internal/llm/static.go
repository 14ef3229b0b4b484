package llm

import (
	"context"
	"io"
)

// Static replays a fixed list of fragments. After the last fragment the
// stream ends with Err, or io.EOF when Err is nil.
type Static struct {
	Fragments []string
	Err       error
}

// NewStatic constructs a Static source.
func NewStatic(fragments ...string) *Static {
	return &Static{Fragments: fragments}
}

// Stream ignores the prompt and replays the fragments.
func (s *Static) Stream(ctx context.Context, _ []Message) (TokenStream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &staticStream{fragments: s.Fragments, err: s.Err}, nil
}

type staticStream struct {
	fragments []string
	index     int
	err       error
}

func (s *staticStream) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.index >= len(s.fragments) {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	fragment := s.fragments[s.index]
	s.index++
	return fragment, nil
}

func (s *staticStream) Close() error { return nil }
