package driving

import "context"

// Notifier receives transient, user-visible notices such as retry waits.
type Notifier func(notice string)

type noticeSinkKey struct{}

// WithNoticeSink returns a context whose pipeline notices go to fn.
// Front-ends use it to show retry waits for one request.
func WithNoticeSink(ctx context.Context, fn Notifier) context.Context {
	return context.WithValue(ctx, noticeSinkKey{}, fn)
}

// NoticeSink returns the notifier attached to ctx, or nil.
func NoticeSink(ctx context.Context) Notifier {
	fn, _ := ctx.Value(noticeSinkKey{}).(Notifier)
	return fn
}
