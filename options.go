package envsafe

// Default source names. All of them can be overridden per load.
const (
	DefaultPath     = ".env"
	DefaultExample  = ".env.example"
	DefaultDefaults = ".env.defaults"
)

// NoSource disables an optional source when assigned to Options.Defaults or
// Options.Example.
const NoSource = "-"

// Options configures a single load. Options are resolved once per call and
// never mutated; the zero value selects the default source names with no
// export and no safe-mode validation.
type Options struct {
	// Path is the primary source. Defaults to ".env".
	Path string

	// Export publishes resolved values into Env. Keys already defined in
	// Env are never overwritten.
	Export bool

	// Safe enforces that every key found in the example source is present
	// in the effective configuration.
	Safe bool

	// Example is the required-keys source consulted when Safe is set.
	// Defaults to ".env.example".
	Example string

	// AllowEmptyValues makes an empty value count as present during
	// safe-mode validation. By default a key must have a non-empty value.
	AllowEmptyValues bool

	// Defaults is the lower-precedence fallback source, applied only for
	// keys absent from the primary source. Defaults to ".env.defaults".
	Defaults string

	// Reader supplies source text. Defaults to FileReader.
	Reader SourceReader

	// Env is the process-wide environment store used for validation and
	// export. Defaults to OSEnviron.
	Env Environ
}

func (o Options) withDefaults() Options {
	if o.Path == "" {
		o.Path = DefaultPath
	}
	if o.Example == "" {
		o.Example = DefaultExample
	}
	if o.Defaults == "" {
		o.Defaults = DefaultDefaults
	}
	if o.Reader == nil {
		o.Reader = FileReader{}
	}
	if o.Env == nil {
		o.Env = OSEnviron{}
	}
	return o
}
