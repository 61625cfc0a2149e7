package pool

import (
	"github.com/rs/zerolog"

	"github.com/lixenwraith/titan/status"
)

type options struct {
	blocking  bool
	name      string
	log       *zerolog.Logger
	statusReg *status.Registry
}

// Option configures a Pool
type Option func(*options)

// WithBlocking makes CheckOut wait on a full pool instead of failing
func WithBlocking() Option {
	return func(o *options) { o.blocking = true }
}

// WithName sets the pool name used in metric keys and logs
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = &l }
}

// WithStatus publishes pool.<name>.created|checkout|miss into reg
func WithStatus(reg *status.Registry) Option {
	return func(o *options) { o.statusReg = reg }
}
