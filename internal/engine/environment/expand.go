package environment

import "regexp"

// tokenPattern matches $ENV{NAME}, ${NAME} and $NAME. Alternatives are tried in that
// order at each position and bare names consume the longest identifier, so $FOO never
// matches inside $FOOBAR.
var tokenPattern = regexp.MustCompile(`\$ENV\{([^}]+)\}|\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// Expand substitutes variable references in a command line with values from env.
// References to unset variables are left verbatim.
func Expand(command string, env Environment) string {
	return tokenPattern.ReplaceAllStringFunc(command, func(token string) string {
		m := tokenPattern.FindStringSubmatch(token)
		name := m[1]
		if name == "" {
			name = m[2]
		}
		if name == "" {
			name = m[3]
		}
		if v, ok := env.Lookup(name); ok {
			return v
		}
		return token
	})
}
