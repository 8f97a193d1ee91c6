package config

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// LoaderConfig holds the loader's dependencies and optional file overrides.
type LoaderConfig struct {
	Fs         afero.Fs
	ConfigFile string // explicit config.yml path
	EnvFile    string // explicit .env path
	// Environ supplies process variables. Defaults to os.Environ.
	Environ func() []string
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFs sets the filesystem config and env files are read from.
func WithFs(fs afero.Fs) LoaderOption {
	return func(lc *LoaderConfig) { lc.Fs = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(p string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = p }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(p string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = p }
}

// WithEnviron replaces the process environment, mainly for tests.
func WithEnviron(fn func() []string) LoaderOption {
	return func(lc *LoaderConfig) { lc.Environ = fn }
}

// Resolver finds config and env files for a service.
type Resolver struct {
	Fs afero.Fs
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns the explicit paths when given, otherwise the first
// existing candidate from the standard search locations.
func (r *Resolver) ResolveFiles(serviceName string, lc LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{ConfigFile: lc.ConfigFile, EnvFile: lc.EnvFile}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = r.first(configCandidates(serviceName))
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = r.first(envCandidates(serviceName))
	}
	return resolved
}

func (r *Resolver) first(candidates []string) string {
	for _, p := range candidates {
		if ok, _ := afero.Exists(r.Fs, p); ok {
			return p
		}
	}
	return ""
}

func configCandidates(serviceName string) []string {
	return []string{
		path.Join("cmd", serviceName, "config.yml"),
		path.Join("config", serviceName+".yml"),
		"config.yml",
	}
}

func envCandidates(serviceName string) []string {
	return []string{
		path.Join("cmd", serviceName, ".env"),
		".env." + serviceName,
		".env",
	}
}

// LoadConfig loads configuration for a service into cfg. Precedence, lowest
// first: config.yml, .env file, process environment. The .env file is read
// into the loader only; the process environment is never modified.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	lc := LoaderConfig{Fs: afero.NewOsFs(), Environ: os.Environ}
	for _, opt := range opts {
		opt(&lc)
	}

	resolver := &Resolver{Fs: lc.Fs}
	files := resolver.ResolveFiles(serviceName, lc)

	v := viper.New()
	v.SetFs(lc.Fs)

	if files.ConfigFile != "" {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", files.ConfigFile, err)
		}
	}

	if files.EnvFile != "" {
		vars, err := readEnvFile(lc.Fs, files.EnvFile)
		if err != nil {
			return err
		}
		bindEnv(v, vars)
	}

	bindEnv(v, environMap(lc.Environ()))

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}
	return nil
}

func readEnvFile(fs afero.Fs, p string) (map[string]string, error) {
	f, err := fs.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open env file %s: %w", p, err)
	}
	defer f.Close()

	vars, err := godotenv.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse env file %s: %w", p, err)
	}
	return vars, nil
}

func environMap(environ []string) map[string]string {
	m := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, val, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		m[k] = val
	}
	return m
}

// bindEnv sets every variable under each key shape it could address, so
// SERVER_PORT reaches both "server_port" and "server.port".
func bindEnv(v *viper.Viper, vars map[string]string) {
	for key, value := range vars {
		for _, variant := range generateEnvKeyVariants(key) {
			v.Set(variant, value)
		}
	}
}

// generateEnvKeyVariants creates the candidate config keys for an env var.
//
//	API_KEY             -> [api_key, api.key]
//	ASSEMBLYAI_BASE_URL -> [assemblyai_base_url, assemblyai.base.url, assemblyai.base_url]
func generateEnvKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")
	if len(parts) <= 1 {
		return []string{lowerKey}
	}

	variants := []string{lowerKey, strings.ReplaceAll(lowerKey, "_", ".")}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}
	return removeDuplicates(variants)
}

func removeDuplicates(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}
