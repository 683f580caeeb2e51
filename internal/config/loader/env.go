package loader

import (
	"os"
	"sort"
	"strings"
)

// EnvLoader collects configuration overrides from prefixed environment
// variables. PREFIX_SECTION_SOME_KEY maps to "section.some_key" unless an
// explicit mapping names another path.
type EnvLoader struct {
	prefix  string
	mapping map[string]string
	environ func() []string
}

// NewEnvLoader creates a loader for variables starting with prefix, which
// should include the trailing underscore (e.g. "WMCONF_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: make(map[string]string),
		environ: os.Environ,
	}
}

// AddMapping maps envVar to configPath, overriding the derived path.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	l.mapping[envVar] = configPath
}

// Load returns config path to raw value for every prefixed variable.
// Empty values are kept: they are set, not unset.
func (l *EnvLoader) Load() map[string]string {
	out := make(map[string]string)
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
		}
		if path == "" {
			continue
		}
		out[path] = value
	}
	return out
}

// Paths returns the keys of m sorted.
func Paths(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// envToPath converts WMCONF_KEYS_FOCUS_LEFT to keys.focus_left.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.ToLower(strings.TrimPrefix(env, l.prefix))
	section, rest, ok := strings.Cut(name, "_")
	if !ok || section == "" || rest == "" {
		return name
	}
	return section + "." + rest
}

// ExpandEnv expands $VAR and ${VAR} in s.
func ExpandEnv(s string) string {
	return os.ExpandEnv(s)
}
