package llmruntime

import (
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
)

// Env looks up configuration variables.
type Env interface {
	// Lookup returns the value of the variable and whether it is present.
	Lookup(key string) (string, bool)
}

// EnvFunc adapts a lookup function to Env.
type EnvFunc func(key string) (string, bool)

// Lookup implements Env.
func (f EnvFunc) Lookup(key string) (string, bool) {
	return f(key)
}

// OSEnv reads the process environment.
var OSEnv Env = EnvFunc(os.LookupEnv)

// MapEnv is an Env backed by a map.
type MapEnv map[string]string

// Lookup implements Env.
func (m MapEnv) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// ChainEnv returns an Env that consults envs in order;
// the first one holding the key wins.
func ChainEnv(envs ...Env) Env {
	return EnvFunc(func(key string) (string, bool) {
		for _, e := range envs {
			if v, ok := e.Lookup(key); ok {
				return v, true
			}
		}
		return "", false
	})
}

// LoadDotEnv loads the dotenv files into the process environment.
// Missing files are skipped and variables already set are not overridden.
func LoadDotEnv(files ...string) error {
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return errors.Mark(errors.Wrapf(err, "failed to load %s", file), ErrConfig)
		}
	}
	return nil
}

// ReadDotEnv reads the dotenv files into a MapEnv without touching the
// process environment. Missing files are skipped, later files override
// earlier ones.
func ReadDotEnv(files ...string) (MapEnv, error) {
	m := MapEnv{}
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		vals, err := godotenv.Read(file)
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "failed to read %s", file), ErrConfig)
		}
		for k, v := range vals {
			m[k] = v
		}
	}
	return m, nil
}

// firstSet returns the trimmed value of the first variable holding a
// non-blank value.
func firstSet(env Env, keys ...string) (value, key string, ok bool) {
	for _, k := range keys {
		if v, found := env.Lookup(k); found {
			if v = strings.TrimSpace(v); v != "" {
				return v, k, true
			}
		}
	}
	return "", "", false
}

// firstPresent returns the trimmed value of the first variable present in
// env, even when blank.
func firstPresent(env Env, keys ...string) (value, key string, ok bool) {
	for _, k := range keys {
		if v, found := env.Lookup(k); found {
			return strings.TrimSpace(v), k, true
		}
	}
	return "", "", false
}

func lookupFloat(env Env, keys ...string) (float64, bool, error) {
	raw, key, ok := firstPresent(env, keys...)
	if !ok {
		return 0, false, nil
	}
	v, err := parseFloat(raw, key)
	return v, err == nil, err
}

func lookupInt(env Env, keys ...string) (int, bool, error) {
	raw, key, ok := firstPresent(env, keys...)
	if !ok {
		return 0, false, nil
	}
	v, err := parseInt(raw, key)
	return v, err == nil, err
}

func parseFloat(raw, key string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, configErrorf("invalid float value %q provided via %s", raw, key)
	}
	return v, nil
}

func parseInt(raw, key string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, configErrorf("invalid integer value %q provided via %s", raw, key)
	}
	return v, nil
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}
