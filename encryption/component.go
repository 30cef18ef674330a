package encryption

import (
	"context"
	"fmt"

	"github.com/shhhinnovations/cryptokit/component"
)

const (
	componentName = "cryptographer"
	probeSalt     = "cryptokit-health"
	probeText     = "cryptokit health probe"
)

// Component exposes a Cryptographer to the component registry. Start and
// Health run an encrypt/decrypt round trip so a broken configuration is
// caught at boot and reported on /health.
type Component struct {
	c Cryptographer
}

var _ component.Component = (*Component)(nil)

// NewComponent wraps c, usually the process registry.
func NewComponent(c Cryptographer) *Component {
	return &Component{c: c}
}

// Name returns the component name.
func (*Component) Name() string { return componentName }

// Start fails when the round trip fails.
func (cc *Component) Start(context.Context) error {
	return cc.probe()
}

// Stop is a no-op.
func (*Component) Stop(context.Context) error { return nil }

// Health reports the round trip result.
func (cc *Component) Health(context.Context) component.Health {
	if err := cc.probe(); err != nil {
		return component.Health{
			Name:    componentName,
			Status:  component.StatusUnhealthy,
			Message: err.Error(),
		}
	}
	return component.Health{
		Name:    componentName,
		Status:  component.StatusHealthy,
		Message: Name(cc.c),
	}
}

func (cc *Component) probe() error {
	ct, err := cc.c.Encrypt(probeSalt, probeText)
	if err != nil {
		return fmt.Errorf("probe encrypt: %w", err)
	}
	pt, err := cc.c.Decrypt(probeSalt, ct)
	if err != nil {
		return fmt.Errorf("probe decrypt: %w", err)
	}
	if pt != probeText {
		return fmt.Errorf("probe round trip mismatch for %s", Name(cc.c))
	}
	return nil
}
