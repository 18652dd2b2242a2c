package envsafe

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"sync"
)

// Load reads the primary source, fills gaps from the defaults source,
// validates against the example source in safe mode, and exports into the
// environment store when requested. Sources are read sequentially; see
// LoadContext for the concurrent variant with identical semantics.
//
// Missing source files are treated as empty, not as errors. Any other read
// failure, a malformed line, or a safe-mode validation failure aborts the
// load with no partial result and no export side effects. The returned map
// holds file-derived values only; the process environment is consulted for
// precedence but never copied into the result.
func Load(opts Options) (map[string]string, error) {
	opts = opts.withDefaults()
	ctx := context.Background()

	primary, err := readSource(ctx, opts.Reader, opts.Path)
	if err != nil {
		return nil, err
	}
	defaults, err := readSource(ctx, opts.Reader, opts.Defaults)
	if err != nil {
		return nil, err
	}
	example := map[string]string{}
	if opts.Safe {
		if example, err = readSource(ctx, opts.Reader, opts.Example); err != nil {
			return nil, err
		}
	}

	return resolve(opts, primary, defaults, example)
}

// LoadContext behaves exactly like Load but reads the primary, defaults,
// and example sources concurrently. The three reads are independent and
// merge order does not depend on read completion order. Each call builds
// its own maps, so any number of callers may load concurrently; exports
// into a shared store are set-if-absent and therefore commutative.
func LoadContext(ctx context.Context, opts Options) (map[string]string, error) {
	opts = opts.withDefaults()

	sources := []string{opts.Path, opts.Defaults, NoSource}
	if opts.Safe {
		sources[2] = opts.Example
	}

	maps := make([]map[string]string, len(sources))
	errs := make([]error, len(sources))
	var wg sync.WaitGroup
	for i, name := range sources {
		i, name := i, name
		wg.Add(1)
		go func() {
			defer wg.Done()
			maps[i], errs[i] = readSource(ctx, opts.Reader, name)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return resolve(opts, maps[0], maps[1], maps[2])
}

// readSource fetches and parses one source. A disabled or missing source
// yields an empty map.
func readSource(ctx context.Context, reader SourceReader, name string) (map[string]string, error) {
	if name == NoSource {
		return map[string]string{}, nil
	}
	raw, err := reader.ReadSource(ctx, name)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	env, err := Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return env, nil
}

// resolve merges the parsed sources, runs safe-mode validation, and exports.
// Validation runs before export so a failed load leaves the environment
// store untouched.
func resolve(opts Options, primary, defaults, example map[string]string) (map[string]string, error) {
	merged := make(map[string]string, len(primary)+len(defaults))
	for k, v := range primary {
		merged[k] = v
	}
	for k, v := range defaults {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}

	if opts.Safe {
		if missing := missingKeys(opts, merged, example); len(missing) > 0 {
			return nil, &MissingEnvVarsError{Missing: missing, Example: opts.Example}
		}
	}

	if opts.Export {
		for k, v := range merged {
			if _, defined := opts.Env.Lookup(k); defined {
				continue
			}
			if err := opts.Env.Set(k, v); err != nil {
				return nil, fmt.Errorf("export %s: %w", k, err)
			}
		}
	}

	return merged, nil
}

// missingKeys returns the example keys absent from the environment-overlaid
// configuration, sorted. The overlay gives the process environment
// precedence over file-derived values and is applied whether or not the
// load exports, because validation checks effective availability.
func missingKeys(opts Options, merged, example map[string]string) []string {
	var missing []string
	for key := range example {
		value, ok := opts.Env.Lookup(key)
		if !ok {
			value, ok = merged[key]
		}
		if !ok || (!opts.AllowEmptyValues && value == "") {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}
