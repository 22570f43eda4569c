// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// logConfig is the document named by the log_configuration setting.
//
//	level: debug
//	format: json
//	file: /var/log/enginehost/enginehost.log
//	stdout: false
type logConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
	Stdout *bool  `yaml:"stdout"`
}

func loadLogConfig(path string) (logConfig, error) {
	var cfg logConfig
	contents, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read log configuration %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(contents))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to unmarshal log configuration %s: %w", path, err)
	}
	switch strings.ToLower(cfg.Format) {
	case "", "text", "json":
	default:
		return cfg, fmt.Errorf("log configuration %s: unknown format %q", path, cfg.Format)
	}
	return cfg, nil
}

// level returns the configured level, or def when none is set.
func (c logConfig) level(def slog.Level) (slog.Level, error) {
	if c.Level == "" {
		return def, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return def, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	return lvl, nil
}

func (c logConfig) newHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	if strings.EqualFold(c.Format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// handlers builds the configured handlers. The returned closer releases the
// log file, if one was opened.
func (c logConfig) handlers(stdout io.Writer, opts *slog.HandlerOptions) ([]slog.Handler, io.Closer, error) {
	var hs []slog.Handler
	if c.Stdout == nil || *c.Stdout {
		hs = append(hs, c.newHandler(stdout, opts))
	}
	if c.File == "" {
		return hs, nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(c.File), 0o755); err != nil {
		return hs, nopCloser{}, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(c.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return hs, nopCloser{}, fmt.Errorf("failed to open log file: %w", err)
	}
	return append(hs, c.newHandler(f, opts)), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
