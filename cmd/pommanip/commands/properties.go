package commands

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/vorburger/pom-manipulation-ext/state"
)

// EnvPrefix is the prefix for property overrides taken from the environment.
// POMMANIP_STRICT_ALIGNMENT=true becomes the strictAlignment property.
const EnvPrefix = "POMMANIP_"

// LoadProperties builds the session property map from, in increasing
// precedence: a YAML properties file, POMMANIP_* environment variables, and
// repeatable -D key=value flags.
func LoadProperties(propsFile string, defines []string) (state.Properties, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{}, "."), nil); err != nil {
		return nil, fmt.Errorf("commands: loading defaults: %w", err)
	}

	if propsFile != "" {
		if _, err := os.Stat(propsFile); err != nil {
			return nil, fmt.Errorf("commands: properties file %s: %w", propsFile, err)
		}
		if err := k.Load(file.Provider(propsFile), koanfyaml.Parser()); err != nil {
			return nil, fmt.Errorf("commands: loading properties from %s: %w", propsFile, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envToProperty), nil); err != nil {
		return nil, fmt.Errorf("commands: loading environment: %w", err)
	}

	props := make(state.Properties)
	for key, value := range k.All() {
		props[key] = fmt.Sprint(value)
	}

	for _, define := range defines {
		key, value, ok := strings.Cut(define, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("commands: invalid define %q: expected key=value", define)
		}
		props[key] = value
	}

	return props, nil
}

// envToProperty maps POMMANIP_STRICT_ALIGNMENT to strictAlignment. Single
// underscores become camelCase humps; double underscores become dots so
// nested keys like dependencyExclusion.junit remain expressible.
func envToProperty(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	var b strings.Builder
	upperNext := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == '_' {
			if i+1 < len(s) && s[i+1] == '_' {
				b.WriteByte('.')
				i++
				upperNext = false
				continue
			}
			upperNext = true
			continue
		}
		if upperNext {
			b.WriteByte(byte(unicode.ToUpper(rune(ch))))
			upperNext = false
		} else {
			b.WriteByte(byte(unicode.ToLower(rune(ch))))
		}
	}
	return b.String()
}
