package commands

import (
	"context"
)

// Gen generates clients for the given inputs, or the configured contracts
func (c *Controller) Gen(ctx context.Context, inputs ...string) error {
	cfg, root, err := c.loadConfig()
	if err != nil {
		return err
	}

	_, err = c.generate(ctx, cfg, root, inputs)
	return err
}
