package picklejar

import (
	"fmt"
	"strings"
)

// ExtensionPolicy decides what inference does with an extension no
// compression backend claims.
type ExtensionPolicy string

// Unhandled extension policies.
const (
	// ExtensionRaise fails the call with ErrInference.
	ExtensionRaise ExtensionPolicy = "raise"
	// ExtensionIgnore falls back to CompressionNone.
	ExtensionIgnore ExtensionPolicy = "ignore"
	// ExtensionWarn falls back to CompressionNone and logs a warning.
	ExtensionWarn ExtensionPolicy = "warn"
)

// ParseExtensionPolicy parses a policy name, case-insensitively.
func ParseExtensionPolicy(s string) (ExtensionPolicy, error) {
	p := ExtensionPolicy(strings.ToLower(strings.TrimSpace(s)))
	if err := p.validate(); err != nil {
		return "", err
	}
	return p, nil
}

func (p ExtensionPolicy) validate() error {
	switch p {
	case ExtensionRaise, ExtensionIgnore, ExtensionWarn:
		return nil
	default:
		return fmt.Errorf("%w: unhandled extension policy %q (want raise, ignore or warn)", ErrConfiguration, string(p))
	}
}

// UnhandledExtensionOption sets the policy for a Jar or for a single call.
type UnhandledExtensionOption interface {
	Option
	CallOption
}

type unhandledExtensionOption ExtensionPolicy

// Compile-time check that unhandledExtensionOption works at both levels.
var _ UnhandledExtensionOption = unhandledExtensionOption("")

func (o unhandledExtensionOption) apply(opts *options) {
	opts.unhandledExt = ExtensionPolicy(o)
}

func (o unhandledExtensionOption) applyCall(co *callOptions) {
	co.unhandledExt = ExtensionPolicy(o)
}

// WithUnhandledExtension sets what inference does when a path ends in an
// extension that no compression backend claims. The default is
// ExtensionRaise. A path with no extension at all always fails inference.
// It can be passed to New or to a single Dump, Load or Resolve call.
func WithUnhandledExtension(p ExtensionPolicy) UnhandledExtensionOption {
	return unhandledExtensionOption(p)
}
