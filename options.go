package realmdb

// defaultMaxTableNameLength bounds table-name length read from the
// group's name array, guarding against a corrupt short-string leaf
// turning into an unbounded allocation when listing tables.
const defaultMaxTableNameLength = 1024

type options struct {
	maxTableNameLength int
}

func defaultOptions() options {
	return options{maxTableNameLength: defaultMaxTableNameLength}
}

// Option configures Open.
type Option func(*options)

// WithMaxTableNameLength overrides the maximum accepted table-name length.
func WithMaxTableNameLength(n int) Option {
	return func(o *options) { o.maxTableNameLength = n }
}
