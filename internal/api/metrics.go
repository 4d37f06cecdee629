package api

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

// ServerMetrics содержит метрики сервера
type ServerMetrics struct {
	StartTime time.Time
}

// NewServerMetrics создает новый экземпляр метрик
func NewServerMetrics() *ServerMetrics {
	return &ServerMetrics{
		StartTime: time.Now(),
	}
}

// ServerInfo снимок состояния процесса для /api/server
type ServerInfo struct {
	Name       string             `json:"name"`
	Version    string             `json:"version"`
	Status     string             `json:"status"`
	Uptime     string             `json:"uptime"`
	MemoryMB   string             `json:"memory_mb"`
	CPUPercent string             `json:"cpu_percent"`
	Memory     map[string]float64 `json:"memory"`
	Goroutines int                `json:"goroutines"`
}

// GetUptime возвращает время работы сервера
func (sm *ServerMetrics) GetUptime() string {
	return formatUptime(time.Since(sm.StartTime))
}

func formatUptime(uptime time.Duration) string {
	days := int(uptime.Hours()) / 24
	hours := int(uptime.Hours()) % 24
	minutes := int(uptime.Minutes()) % 60
	seconds := int(uptime.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dд %dч %dм %dс", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dч %dм %dс", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dм %dс", minutes, seconds)
	default:
		return fmt.Sprintf("%dс", seconds)
	}
}

// GetCPUUsage возвращает использование CPU процессом в процентах
func (sm *ServerMetrics) GetCPUUsage() (float64, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, err
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		// Если не удалось получить метрику процесса, берём системную без ожидания
		cpuPercents, err := cpu.Percent(0, false)
		if err != nil || len(cpuPercents) == 0 {
			return 0, err
		}
		return cpuPercents[0], nil
	}
	return cpuPercent, nil
}

// GetMemoryStats статистика памяти рантайма в MB
func (sm *ServerMetrics) GetMemoryStats() map[string]float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	const mb = 1024 * 1024
	return map[string]float64{
		"alloc_mb":      float64(m.Alloc) / mb,
		"sys_mb":        float64(m.Sys) / mb,
		"heap_alloc_mb": float64(m.HeapAlloc) / mb,
		"num_gc":        float64(m.NumGC),
	}
}

// Snapshot собирает ServerInfo. Ошибку CPU заменяет нулём.
func (sm *ServerMetrics) Snapshot(name, version string) ServerInfo {
	memory := sm.GetMemoryStats()
	cpuPercent, _ := sm.GetCPUUsage()

	return ServerInfo{
		Name:       name,
		Version:    version,
		Status:     "running",
		Uptime:     sm.GetUptime(),
		MemoryMB:   fmt.Sprintf("%.1f", memory["alloc_mb"]),
		CPUPercent: fmt.Sprintf("%.1f", cpuPercent),
		Memory:     memory,
		Goroutines: runtime.NumGoroutine(),
	}
}
