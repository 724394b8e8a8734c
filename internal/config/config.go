package config

import (
	"os"
	"runtime"

	log "log/slog"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"voicekit/internal/apps"
	"voicekit/internal/ipc"
)

// Config carries every runtime option. Flags win over defaults, the
// API key comes from the environment (optionally via a .env file);
// its absence only disables the remote features.
type Config struct {
	LogLevel string
	EnvFile  string
	Proxy    string

	Voice string
	Rate  int

	LaunchMode  apps.LaunchMode
	MappingPath string
	SocketPath  string
	Duck        bool

	APIKey string
}

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

// Parse reads flags and environment. Call once from main.
func Parse() *Config {
	c := &Config{}

	cli.StringVarP(&c.EnvFile, "env", "e", ".env", "Env file path")
	cli.StringVarP(&c.LogLevel, "log", "l", "info", "Log level (debug|info|warn|error)")
	cli.StringVarP(&c.Proxy, "proxy", "p", "", "SOCKS5 proxy address (empty = direct)")
	cli.StringVar(&c.Voice, "voice", "", "Preferred synthesis voice name")
	cli.IntVar(&c.Rate, "rate", 160, "System TTS speech rate")
	launchMode := cli.String("launch-mode", string(apps.DefaultLaunchMode(runtime.GOOS)),
		"How launch commands run: shell or argv")
	cli.StringVar(&c.MappingPath, "appmap", apps.DefaultStorePath(), "App mapping file path")
	cli.StringVar(&c.SocketPath, "socket", ipc.SocketPath, "Control socket path")
	cli.BoolVar(&c.Duck, "duck", false, "Duck other audio streams while listening")
	cli.Parse()

	switch apps.LaunchMode(*launchMode) {
	case apps.LaunchShell, apps.LaunchArgv:
		c.LaunchMode = apps.LaunchMode(*launchMode)
	default:
		c.LaunchMode = apps.DefaultLaunchMode(runtime.GOOS)
	}

	godotenv.Load(c.EnvFile)
	c.APIKey = os.Getenv("OPENAI_API_KEY")

	return c
}

// Level maps the configured log level name, defaulting to info.
func (c *Config) Level() log.Level {
	if lvl, ok := logLevelMap[c.LogLevel]; ok {
		return lvl
	}
	return log.LevelInfo
}
