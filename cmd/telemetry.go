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
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/cardinalhq/oteltools/pkg/telemetry"
	"github.com/google/uuid"
	slogmulti "github.com/samber/slog-multi"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/instrumentation/host"
	iruntime "go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/cardinalhq/enginehost/internal/helpers"
)

var (
	instanceID = uuid.NewString()

	logOutput io.Writer = os.Stdout
)

func otelEnabled() bool {
	return os.Getenv("OTEL_SERVICE_NAME") != "" && helpers.GetBoolEnv("ENABLE_OTLP_TELEMETRY", false)
}

// setupTelemetry installs the default slog logger for servicename. The log
// configuration document, when named, selects level, format and an optional
// log file. Returns a function flushing and closing everything it opened.
func setupTelemetry(servicename, logConfigPath string) (func() error, error) {
	level := slog.LevelInfo
	if helpers.GetBoolEnv("DEBUG", false) || helpers.GetBoolEnv("ENGINEHOST_DEBUG", false) {
		level = slog.LevelDebug
	}

	var cfg logConfig
	if logConfigPath != "" {
		c, err := loadLogConfig(logConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = c
	}
	level, err := cfg.level(level)
	if err != nil {
		return nil, err
	}

	handlers, closer, err := cfg.handlers(logOutput, &slog.HandlerOptions{Level: level})
	if err != nil {
		return nil, err
	}

	shutdown := func() error {
		return closer.Close()
	}

	if otelEnabled() {
		handlers = append(handlers, otelslog.NewHandler(servicename))

		otelShutdown, err := telemetry.SetupOTelSDK(context.Background())
		if err != nil {
			_ = closer.Close()
			return nil, fmt.Errorf("failed to setup OpenTelemetry SDK: %w", err)
		}

		if err := iruntime.Start(iruntime.WithMinimumReadMemStatsInterval(time.Second * 10)); err != nil {
			slog.Warn("failed to start runtime metrics", "error", err.Error())
		}
		if err := host.Start(); err != nil {
			slog.Warn("failed to start host metrics", "error", err.Error())
		}

		shutdown = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := otelShutdown(ctx)
			if cerr := closer.Close(); err == nil {
				err = cerr
			}
			return err
		}
	}

	slog.SetDefault(slog.New(slogmulti.Fanout(handlers...)).With(
		slog.String("service", servicename),
		slog.String("instanceID", instanceID),
	))
	if otelEnabled() {
		slog.Info("OpenTelemetry exporting enabled")
	}

	return shutdown, nil
}
