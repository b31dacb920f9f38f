package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/ardnew/basher/pkg"
)

// Version prints the program name and version.
type Version struct {
	Short bool `help:"Print only the version number" short:"s"`
}

// Run executes the version command.
func (v *Version) Run(ctx context.Context) error {
	version := strings.TrimSpace(pkg.Version)

	if v.Short {
		_, err := fmt.Fprintln(streamsFrom(ctx).Out, version)

		return err
	}

	_, err := fmt.Fprintf(streamsFrom(ctx).Out, "%s %s\n", pkg.Name, version)

	return err
}
