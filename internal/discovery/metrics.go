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

package discovery

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	outcomeFound      = "found"
	outcomeMissing    = "missing"
	outcomeMismatch   = "arch_mismatch"
	outcomeUnloadable = "unloadable"
	outcomeError      = "error"

	kindHome     = "home"
	kindPath     = "path"
	kindLauncher = "launcher"
	kindMarker   = "marker"
)

var (
	meter = otel.Meter("github.com/cardinalhq/enginehost/internal/discovery")

	probeCounter metric.Int64Counter
)

func init() {
	c, err := meter.Int64Counter(
		"enginehost.discovery.probes",
		metric.WithUnit("{probe}"),
		metric.WithDescription("Candidate paths probed while discovering engine defaults"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create discovery.probes counter: %w", err))
	}
	probeCounter = c
}

func recordProbe(ctx context.Context, kind, outcome string) {
	probeCounter.Add(ctx, 1, metric.WithAttributeSet(attribute.NewSet(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	)))
}
