// Copyright 2025 EasyAgent
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package msgseg

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// parserMetrics bundles the optional OpenTelemetry instruments a Parser
// records against. A nil Meter (the default) disables metrics entirely;
// every call below is a no-op in that case.
type parserMetrics struct {
	segmentsCreated metric.Int64Counter
	parseCalls      metric.Int64Counter
	parseDuration   metric.Float64Histogram
}

func newParserMetrics(meter metric.Meter) parserMetrics {
	if meter == nil {
		return parserMetrics{}
	}

	segmentsCreated, _ := meter.Int64Counter(
		"msgseg.segments.created",
		metric.WithDescription("segments created or extended by Parse calls"),
	)
	parseCalls, _ := meter.Int64Counter(
		"msgseg.parse.calls",
		metric.WithDescription("number of Parse calls processed"),
	)
	parseDuration, _ := meter.Float64Histogram(
		"msgseg.parse.duration",
		metric.WithDescription("wall-clock duration of a single Parse call"),
		metric.WithUnit("ms"),
	)

	return parserMetrics{
		segmentsCreated: segmentsCreated,
		parseCalls:      parseCalls,
		parseDuration:   parseDuration,
	}
}

func (pm parserMetrics) recordParse(ctx context.Context, start time.Time, modifiedCount int) {
	if pm.parseCalls != nil {
		pm.parseCalls.Add(ctx, 1)
	}
	if pm.segmentsCreated != nil && modifiedCount > 0 {
		pm.segmentsCreated.Add(ctx, int64(modifiedCount))
	}
	if pm.parseDuration != nil {
		pm.parseDuration.Record(ctx, float64(time.Since(start).Microseconds())/1000.0)
	}
}
