package configload

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/weiser-io/weiser/internal/errs"
)

// templateRe matches {{ NAME }} placeholders. The ${NAME} syntax is
// deliberately not honored (spec §6).
var templateRe = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// ExpandTemplate replaces every {{ NAME }} placeholder in raw with the
// value from env, falling back to the process environment. env holds the
// values of an explicitly passed .env file (LoadDotEnv reads nothing
// without a path), so its values win over ambient environment variables of
// the same name. An unresolved placeholder is a ConfigError (spec §9:
// "must be a ConfigError, not silently left as literals").
func ExpandTemplate(raw string, env map[string]string) (string, error) {
	var unresolved []string
	expanded := templateRe.ReplaceAllStringFunc(raw, func(match string) string {
		groups := templateRe.FindStringSubmatch(match)
		name := groups[1]
		if v, ok := env[name]; ok {
			return v
		}
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		unresolved = append(unresolved, name)
		return match
	})
	if len(unresolved) > 0 {
		return "", errs.ErrConfig("unresolved template variable(s): %s", strings.Join(unresolved, ", "))
	}
	return expanded, nil
}

// LoadDotEnv reads a .env file into a map of KEY=VALUE pairs. Lines must be
// in KEY=VALUE format; comments (#) and blank lines are skipped. It returns
// the parsed map instead of mutating the process environment, so
// ExpandTemplate can apply the file-vs-ambient precedence itself.
func LoadDotEnv(path string) (map[string]string, error) {
	out := map[string]string{}
	if path == "" {
		return out, nil
	}
	f, err := os.Open(path) //nolint:gosec // path is operator-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil // .env not found is not an error
		}
		return nil, errs.ErrConfig("open %s: %v", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		out[strings.TrimSpace(key)] = stripQuotes(strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.ErrConfig("read %s: %v", path, err)
	}
	return out, nil
}

// stripQuotes removes surrounding double or single quotes from a value.
// Only strips if both the first and last characters are matching quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
