package notifx

// SendOptions holds optional per-send settings.
type SendOptions struct {
	Tags     map[string]string
	ConfigID string
}

type Option func(*SendOptions)

// WithTags attaches provider message tags.
func WithTags(tags map[string]string) Option {
	return func(o *SendOptions) {
		o.Tags = tags
	}
}

// WithConfigID selects a provider configuration set.
func WithConfigID(id string) Option {
	return func(o *SendOptions) {
		o.ConfigID = id
	}
}

// ApplyOptions folds opts into a SendOptions value. Providers call it.
func ApplyOptions(opts []Option) SendOptions {
	var so SendOptions
	for _, o := range opts {
		o(&so)
	}
	return so
}
