package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/basher/pkg"
)

// resolve returns a [kong.ConfigurationLoader] that reads YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// The document is a mapping from flag names to values. Nested mappings are
// flattened by joining keys with "-", so the two files below are equivalent:
//
//	log-level: debug
//	log-pretty: false
//
//	log:
//	  level: debug
//	  pretty: false
//
// Keys may use underscores in place of hyphens. Command-line flags override
// config file values. An empty file configures nothing.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		err := yaml.NewDecoder(r).DecodeContext(ctx, &doc)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return config{}, nil
			}

			return nil, pkg.ErrConfig.Wrap(err)
		}

		cfg := config{}
		cfg.flatten("", doc)

		return cfg, nil
	}
}

// config implements [kong.Resolver] over a flattened YAML document.
type config map[string]any

// flatten stores every leaf of doc in r, keyed by its path joined with "-".
func (r config) flatten(prefix string, doc map[string]any) {
	for key, value := range doc {
		name := strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			name = prefix + "-" + name
		}

		if child, ok := value.(map[string]any); ok {
			r.flatten(name, child)

			continue
		}

		r[name] = scalar(value)
	}
}

// scalar converts numbers to strings, which is how Kong parses flag values.
func scalar(value any) any {
	switch v := value.(type) {
	case int, int64, uint64:
		return fmt.Sprint(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return v
	}
}

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	// Not found; Kong uses the default.
	return nil, nil
}
