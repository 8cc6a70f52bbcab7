package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

const gb = 1024 * 1024 * 1024

// healthHandler reports service state and host metrics. Metrics that cannot
// be read on this platform are omitted.
func (s *Server) healthHandler(c echo.Context) error {
	ctx := c.Request().Context()

	resp := map[string]interface{}{
		"status": "online",
		"service": map[string]interface{}{
			"uptime":            time.Since(s.startTime).String(),
			"start_time":        s.startTime.Format(time.RFC3339),
			"gemini_configured": s.cfg.Gemini.APIKey != "",
			"model":             s.cfg.Gemini.Model,
			"active_sessions":   s.store.Len(),
			"inflight_images":   s.inflight.Running(),
		},
	}

	if hInfo, err := host.InfoWithContext(ctx); err == nil {
		resp["runtime"] = map[string]interface{}{
			"os":       hInfo.OS,
			"platform": hInfo.Platform,
			"arch":     hInfo.KernelArch,
		}
	}

	// CPU usage is sampled over a short interval.
	if cpuPercent, err := cpu.PercentWithContext(ctx, 200*time.Millisecond, false); err == nil && len(cpuPercent) > 0 {
		resp["cpu"] = map[string]interface{}{
			"usage_percent": fmt.Sprintf("%.2f%%", cpuPercent[0]),
		}
	}

	if v, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		resp["memory"] = map[string]interface{}{
			"total_gb":     fmt.Sprintf("%.2f GB", float64(v.Total)/gb),
			"used_gb":      fmt.Sprintf("%.2f GB", float64(v.Used)/gb),
			"used_percent": fmt.Sprintf("%.2f%%", v.UsedPercent),
			"free_gb":      fmt.Sprintf("%.2f GB", float64(v.Free)/gb),
		}
	}

	if d, err := disk.UsageWithContext(ctx, "/"); err == nil {
		resp["disk"] = map[string]interface{}{
			"total_gb":     fmt.Sprintf("%.2f GB", float64(d.Total)/gb),
			"used_gb":      fmt.Sprintf("%.2f GB", float64(d.Used)/gb),
			"used_percent": fmt.Sprintf("%.2f%%", d.UsedPercent),
		}
	}

	return c.JSON(http.StatusOK, resp)
}
