package ironsession

import "context"

type parsedCookiesContextKey struct{}

// WithParsedCookies attaches a pre-parsed cookie name/value mapping to ctx,
// as provided by upstream cookie-parsing middleware. When present, the
// mapping takes priority over the raw Cookie header during Restore; a name
// absent from the mapping is treated as an absent cookie.
func WithParsedCookies(ctx context.Context, cookies map[string]string) context.Context {
	return context.WithValue(ctx, parsedCookiesContextKey{}, cookies)
}

func parsedCookiesFromContext(ctx context.Context) map[string]string {
	if ctx == nil {
		return nil
	}

	cookies, _ := ctx.Value(parsedCookiesContextKey{}).(map[string]string)
	return cookies
}
