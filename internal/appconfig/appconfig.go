// internal/appconfig/appconfig.go
// Package appconfig holds the merged dashboard configuration and its defaults.
package appconfig

import (
	"strings"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultListenAddr is where the viewer listens when no address is configured.
	defaultListenAddr = "127.0.0.1:8080"
	// defaultUploadLimit caps uploaded result files at 8 MiB.
	defaultUploadLimit = 8 << 20
	// defaultTitle is the page and terminal heading.
	defaultTitle = "Machine Translation Results"
	// defaultOutputPath is where `render` writes the HTML page.
	defaultOutputPath = "reports/dashboard.html"
)

// Config represents the top-level application configuration.
type Config struct {
	Debug          bool     `json:"debug"`
	LogFile        string   `json:"logFile,omitempty"`
	Title          string   `json:"title,omitempty"`
	Addr           string   `json:"addr,omitempty"`
	Input          string   `json:"input,omitempty"`
	Output         string   `json:"output,omitempty"`
	PNGDir         string   `json:"pngDir,omitempty"`
	MaxUploadBytes int64    `json:"maxUploadBytes,omitempty"`
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
	ConfigPath     string   `json:"-"`
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "mtdash.log"
}

// ListenAddr returns the HTTP listen address.
func (c Config) ListenAddr() string {
	if addr := strings.TrimSpace(c.Addr); addr != "" {
		return addr
	}
	return defaultListenAddr
}

// UploadLimit returns the maximum accepted size of an uploaded results file.
func (c Config) UploadLimit() int64 {
	if c.MaxUploadBytes <= 0 {
		return defaultUploadLimit
	}
	return c.MaxUploadBytes
}

// ReportTitle returns the heading used by every surface.
func (c Config) ReportTitle() string {
	if title := strings.TrimSpace(c.Title); title != "" {
		return title
	}
	return defaultTitle
}

// OutputPath returns the destination of the rendered HTML page.
func (c Config) OutputPath() string {
	if out := strings.TrimSpace(c.Output); out != "" {
		return out
	}
	return defaultOutputPath
}

// Origins returns the CORS origins allowed on the JSON API, trimmed and
// without blanks. An empty result means same-origin only.
func (c Config) Origins() []string {
	var out []string
	for _, o := range c.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
