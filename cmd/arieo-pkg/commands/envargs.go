package commands

import (
	"regexp"
	"slices"
	"strings"

	"go.arieo.dev/arieo-pkg/internal/core/domain"
	"go.trai.ch/zerr"
)

const overridePrefix = "--env{"

var overridePattern = regexp.MustCompile(`^--env\{([^}]+)\}=(.*)$`)

// ExtractOverrides removes every --env{NAME}=VALUE argument from args.
// VALUE may be a bracketed list "[a, b]"; "[]" declares an empty list.
// Repeating a name collects its values into a list.
func ExtractOverrides(args []string) (*domain.Overrides, []string, error) {
	overrides := &domain.Overrides{}
	rest := make([]string, 0, len(args))

	for _, arg := range args {
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, overridePrefix) {
			rest = append(rest, arg)
			continue
		}

		m := overridePattern.FindStringSubmatch(arg)
		if m == nil {
			return nil, nil, zerr.With(zerr.Wrap(domain.ErrInvalidOverride, "expected --env{NAME}=VALUE"), "argument", arg)
		}

		name := m[1]
		value := strings.TrimSpace(m[2])
		if values, ok := parseList(value); ok {
			overrides.AddList(name, values)
			continue
		}
		overrides.Add(name, value)
	}

	if i := slices.Index(args, "--"); i >= 0 {
		rest = append(rest, args[i:]...)
	}
	return overrides, rest, nil
}

func parseList(value string) ([]string, bool) {
	if !strings.HasPrefix(value, "[") || !strings.HasSuffix(value, "]") {
		return nil, false
	}
	inner := strings.TrimSpace(value[1 : len(value)-1])
	if inner == "" {
		return []string{}, true
	}
	parts := strings.Split(inner, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, true
}
