package calllog

// Sentinel replaces the value of every redacted argument.
const Sentinel = "**SECRET**"

// DefaultSecretKeys are redacted by every wrapper regardless of its ignore list.
var DefaultSecretKeys = []string{"api_key", "access_token", "email"}

// Redactor replaces sensitive argument values before they are logged.
type Redactor struct {
	// SecretKeys are redacted in addition to DefaultSecretKeys.
	SecretKeys []string
	// Sentinel is the replacement value. Empty means the package Sentinel.
	Sentinel string
}

// DefaultRedactor returns a Redactor using DefaultSecretKeys and Sentinel.
func DefaultRedactor() Redactor {
	keys := make([]string, len(DefaultSecretKeys))
	copy(keys, DefaultSecretKeys)
	return Redactor{SecretKeys: keys, Sentinel: Sentinel}
}

// Redact returns a copy of args in which every value whose name is in
// DefaultSecretKeys, SecretKeys or ignore is replaced by the sentinel. args is
// not modified.
func (r Redactor) Redact(args *Arguments, ignore ...string) *Arguments {
	secret := make(map[string]struct{}, len(DefaultSecretKeys)+len(r.SecretKeys)+len(ignore))
	for _, k := range DefaultSecretKeys {
		secret[k] = struct{}{}
	}
	for _, k := range r.SecretKeys {
		secret[k] = struct{}{}
	}
	for _, k := range ignore {
		secret[k] = struct{}{}
	}

	marker := r.Sentinel
	if marker == "" {
		marker = Sentinel
	}

	out := NewArguments(args.Len())
	args.Each(func(name string, value any) {
		if _, ok := secret[name]; ok {
			out.Set(name, marker)
			return
		}
		out.Set(name, value)
	})
	return out
}

// Redact applies DefaultRedactor to args.
func Redact(args *Arguments, ignore ...string) *Arguments {
	return DefaultRedactor().Redact(args, ignore...)
}
