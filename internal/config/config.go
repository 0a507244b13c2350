package config

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/atomicstack/tcp-chat/internal/app"
	"github.com/atomicstack/tcp-chat/internal/codec"
)

// Config captures runtime configuration for the application.
type Config struct {
	App      app.Config
	Logging  Logging
	Features Features
	File     string
	Flags    map[string]string
	Args     []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

type Features struct {
	Verbose bool
}

// settings is the merged view of every layer, keyed as on the command line.
type settings struct {
	Address    string `koanf:"address"`
	Encoding   string `koanf:"encoding"`
	ReadBuffer int    `koanf:"read-buffer"`
	Connect    bool   `koanf:"connect"`
	Width      int    `koanf:"width"`
	Height     int    `koanf:"height"`
	Footer     bool   `koanf:"footer"`
	Verbose    bool   `koanf:"verbose"`
	Trace      bool   `koanf:"trace"`
	LogFile    string `koanf:"log-file"`
}

const (
	DefaultAddress    = "127.0.0.1:8080"
	DefaultReadBuffer = 4096
)

const (
	envConfig     = "CHAT_CLIENT_CONFIG"
	envAddress    = "CHAT_CLIENT_ADDRESS"
	envEncoding   = "CHAT_CLIENT_ENCODING"
	envReadBuffer = "CHAT_CLIENT_READ_BUFFER"
	envConnect    = "CHAT_CLIENT_CONNECT"
	envWidth      = "CHAT_CLIENT_WIDTH"
	envHeight     = "CHAT_CLIENT_HEIGHT"
	envShowFooter = "CHAT_CLIENT_FOOTER"
	envVerbose    = "CHAT_CLIENT_VERBOSE"
	envTrace      = "CHAT_CLIENT_TRACE"
	envLogFile    = "CHAT_CLIENT_LOG_FILE"
)

// envKeys maps environment variables onto setting keys.
var envKeys = map[string]string{
	envAddress:    "address",
	envEncoding:   "encoding",
	envReadBuffer: "read-buffer",
	envConnect:    "connect",
	envWidth:      "width",
	envHeight:     "height",
	envShowFooter: "footer",
	envVerbose:    "verbose",
	envTrace:      "trace",
	envLogFile:    "log-file",
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"address":     DefaultAddress,
		"encoding":    codec.DefaultEncoding,
		"read-buffer": DefaultReadBuffer,
		"connect":     true,
		"width":       0,
		"height":      0,
		"footer":      false,
		"verbose":     false,
		"trace":       false,
		"log-file":    "",
	}
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Layers are
// merged as flag > environment > config file > defaults; only flags that
// were actually passed take part.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("tcp-chat", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	configPath := fs.String("config", "", "path to a YAML config file")
	fs.String("address", DefaultAddress, "chat server address (host:port)")
	fs.String("encoding", codec.DefaultEncoding, "character encoding shared with the server")
	fs.Int("read-buffer", DefaultReadBuffer, "bytes requested per socket read")
	fs.Bool("connect", true, "connect to the server at startup")
	fs.Int("width", 0, "desired viewport width in cells (0 uses terminal width)")
	fs.Int("height", 0, "desired viewport height in rows (0 uses terminal height)")
	fs.Bool("footer", false, "enable footer hint row (disabled by default)")
	fs.Bool("trace", false, "enable verbose JSON trace logging")
	fs.Bool("verbose", false, "show connection progress and command results in the log")
	fs.String("log-file", "", "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	path := *configPath
	if path == "" {
		path = strings.TrimSpace(env[envConfig])
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(confmap.Provider(envValues(env), "."), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	flagValues := map[string]interface{}{}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			return
		}
		if getter, ok := f.Value.(flag.Getter); ok {
			flagValues[f.Name] = getter.Get()
		}
	})
	if err := k.Load(confmap.Provider(flagValues, "."), nil); err != nil {
		return Config{}, fmt.Errorf("load flags: %w", err)
	}

	var s settings
	if err := k.Unmarshal("", &s); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if s.Width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", s.Width)
	}
	if s.Height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", s.Height)
	}

	cfg := Config{
		App: app.Config{
			Address:     s.Address,
			Encoding:    s.Encoding,
			ReadBuffer:  s.ReadBuffer,
			AutoConnect: s.Connect,
			Width:       s.Width,
			Height:      s.Height,
			ShowFooter:  s.Footer,
			Verbose:     s.Verbose,
		},
		Logging: Logging{
			FilePath: s.LogFile,
			Trace:    s.Trace,
		},
		Features: Features{
			Verbose: s.Verbose,
		},
		File: path,
		Flags: map[string]string{
			"address":     s.Address,
			"encoding":    s.Encoding,
			"read-buffer": strconv.Itoa(s.ReadBuffer),
			"connect":     strconv.FormatBool(s.Connect),
			"width":       strconv.Itoa(s.Width),
			"height":      strconv.Itoa(s.Height),
			"footer":      strconv.FormatBool(s.Footer),
			"trace":       strconv.FormatBool(s.Trace),
			"verbose":     strconv.FormatBool(s.Verbose),
			"log-file":    s.LogFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

// envValues picks the recognised, non-blank variables out of env.
func envValues(env map[string]string) map[string]interface{} {
	values := make(map[string]interface{}, len(envKeys))
	for name, key := range envKeys {
		v, ok := env[name]
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		values[key] = strings.TrimSpace(v)
	}
	return values
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	host, port, err := net.SplitHostPort(cfg.App.Address)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", cfg.App.Address, err)
	}
	if host == "" || port == "" {
		return fmt.Errorf("invalid address %q: host and port are required", cfg.App.Address)
	}
	if cfg.App.ReadBuffer <= 0 {
		return fmt.Errorf("read-buffer must be > 0 (got %d)", cfg.App.ReadBuffer)
	}
	if _, err := codec.Lookup(cfg.App.Encoding); err != nil {
		return err
	}
	if cfg.App.Width < 0 || cfg.App.Height < 0 {
		return fmt.Errorf("dimensions must be >= 0 (got %dx%d)", cfg.App.Width, cfg.App.Height)
	}
	return nil
}
