package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

const perfStatsInterval = 30 * time.Second

var perfMeter = otel.Meter("go.perf_stats")
var perfCpuUsage, _ = perfMeter.Float64Gauge("cpu_usage")
var perfAllocatedMb, _ = perfMeter.Int64Gauge("allocated_mb")
var perfLiveObjects, _ = perfMeter.Int64Gauge("live_objects")
var perfGoroutines, _ = perfMeter.Int64Gauge("goroutine_count")

// InstrumentPerfStats records process cpu, heap and goroutine gauges every
// 30 seconds until ctx is cancelled.
func InstrumentPerfStats(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(perfStatsInterval)
		defer ticker.Stop()

		var memStats runtime.MemStats
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			runtime.ReadMemStats(&memStats)
			perfAllocatedMb.Record(ctx, int64(memStats.Alloc/1_000_000))
			perfLiveObjects.Record(ctx, int64(memStats.Mallocs)-int64(memStats.Frees))
			perfGoroutines.Record(ctx, int64(runtime.NumGoroutine()))

			usage, err := cpu.Percent(time.Minute, false)
			if err != nil {
				slog.Warn("could not read cpu usage", "err", err)
				continue
			}
			perfCpuUsage.Record(ctx, usage[0])
		}
	}()
}
