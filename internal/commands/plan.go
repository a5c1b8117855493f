package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/okra-platform/faux/internal/compiler"
)

// Plan compiles the contracts and prints the request plan of every method
func (c *Controller) Plan(ctx context.Context, inputs ...string) error {
	cfg, root, err := c.loadConfig()
	if err != nil {
		return err
	}

	loaded, err := c.load(ctx, cfg, root, inputs)
	if err != nil {
		return err
	}

	out := c.out()
	for i, info := range loaded.Contracts {
		ct, err := compiler.Compile(info)
		if err != nil {
			return err
		}

		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s (service %q, route %q)\n", ct.Name, ct.Service, ct.Route)
		for _, m := range ct.Methods {
			fmt.Fprintf(out, "  %s: %s %s [%s]\n", m.Name, m.Verb, m.Path, m.Mode)
			for _, line := range strings.Split(strings.TrimSuffix(m.Plan.String(), "\n"), "\n") {
				fmt.Fprintf(out, "    %s\n", line)
			}
		}
	}

	return nil
}
