package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	walkscan "github.com/TFMV/walkscan/internal/walk"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	BindEnv(v)
	return v
}

func TestFromViperDefaults(t *testing.T) {
	cfg, err := FromViper(newViper())
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, ".", cfg.RootDir)
	require.Equal(t, "walk_vs_scan.txt", cfg.Output)
	require.Equal(t, []string{".git"}, cfg.Exclude)
}

func TestFromViperEnvironment(t *testing.T) {
	t.Setenv("WALKSCAN_ROOTDIR", "/srv/data")
	t.Setenv("WALKSCAN_OUTPUT", "out.txt")
	t.Setenv("WALKSCAN_EXCLUDE", "node_modules, vendor")
	t.Setenv("WALKSCAN_FOLLOW_SYMLINKS", "true")
	t.Setenv("WALKSCAN_DEBOUNCE", "2s")

	cfg, err := FromViper(newViper())
	require.NoError(t, err)
	require.Equal(t, "/srv/data", cfg.RootDir)
	require.Equal(t, "out.txt", cfg.Output)
	require.Equal(t, []string{"node_modules", "vendor"}, cfg.Exclude)
	require.True(t, cfg.FollowSymlinks)
	require.Equal(t, 2*time.Second, cfg.Debounce)
}

func TestFromViperConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walkscan.yaml")
	body := "rootdir: /data\nexclude:\n  - .git\n  - \"*.cache\"\nstrict: true\nverbose: true\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	v := newViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := FromViper(v)
	require.NoError(t, err)
	require.Equal(t, "/data", cfg.RootDir)
	require.Equal(t, []string{".git", "*.cache"}, cfg.Exclude)
	require.True(t, cfg.Strict)
	require.Equal(t, walkscan.LogLevelDebug, cfg.LogLevel())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty root", func(c *Config) { c.RootDir = "" }},
		{"empty output", func(c *Config) { c.Output = "" }},
		{"bad pattern", func(c *Config) { c.Exclude = []string{"[oops"} }},
		{"negative debounce", func(c *Config) { c.Debounce = -time.Second }},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }},
	}

	require.NoError(t, Default().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestFromViperRejectsInvalid(t *testing.T) {
	v := newViper()
	v.Set(KeyOutput, "")
	_, err := FromViper(v)
	require.Error(t, err)
}

func TestLogLevel(t *testing.T) {
	cfg := Default()
	require.Equal(t, walkscan.LogLevelWarn, cfg.LogLevel())
	cfg.Verbose = true
	require.Equal(t, walkscan.LogLevelDebug, cfg.LogLevel())
}

func TestOptions(t *testing.T) {
	cfg := Default()
	cfg.Exclude = []string{"node_modules", "*.tmp"}
	cfg.FollowSymlinks = true
	cfg.Strict = true
	logger := zap.NewNop()

	opts, err := cfg.Options(logger)
	require.NoError(t, err)
	require.True(t, opts.Exclude.Match("node_modules"))
	require.True(t, opts.Exclude.Match("x.tmp"))
	require.False(t, opts.Exclude.Match(".git"))
	require.True(t, opts.FollowSymlinks)
	require.True(t, opts.Strict)
	require.Same(t, logger, opts.Logger)
}

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a,b", " c ", ""}))
	require.Nil(t, splitList(nil))
}
