package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"

	"go.uber.org/zap"
)

// profiler captures pprof profiles around one command run.
type profiler struct {
	dir   string
	types []string
	cpu   *os.File
	log   *zap.Logger
}

// startProfiling begins CPU profiling when requested. A nil profiler is
// returned when dir is empty.
func startProfiling(dir, typesStr string, log *zap.Logger) (*profiler, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create profile directory: %w", err)
	}
	p := &profiler{dir: dir, types: parseProfileTypes(typesStr), log: log}
	if contains(p.types, "block") {
		runtime.SetBlockProfileRate(1)
	}
	if contains(p.types, "mutex") {
		runtime.SetMutexProfileFraction(1)
	}

	if contains(p.types, "cpu") {
		f, err := os.Create(filepath.Join(dir, "cpu.prof"))
		if err != nil {
			return nil, fmt.Errorf("failed to create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to start CPU profile: %w", err)
		}
		p.cpu = f
	}
	return p, nil
}

// Stop ends CPU profiling and writes the snapshot profiles.
func (p *profiler) Stop() {
	if p == nil {
		return
	}
	if p.cpu != nil {
		pprof.StopCPUProfile()
		p.cpu.Close()
	}
	for _, t := range p.types {
		switch t {
		case "memory":
			runtime.GC()
			p.write("heap", "mem.prof")
		case "block", "mutex", "goroutine":
			p.write(t, t+".prof")
		}
	}
	p.log.Info("profiles written", zap.String("dir", p.dir), zap.Strings("types", p.types))
}

func (p *profiler) write(name, file string) {
	profile := pprof.Lookup(name)
	if profile == nil {
		return
	}
	f, err := os.Create(filepath.Join(p.dir, file))
	if err != nil {
		p.log.Warn("failed to create profile", zap.String("profile", name), zap.Error(err))
		return
	}
	defer f.Close()
	if err := profile.WriteTo(f, 0); err != nil {
		p.log.Warn("failed to write profile", zap.String("profile", name), zap.Error(err))
	}
}

// parseProfileTypes parses a comma-separated list; "all" selects every type.
func parseProfileTypes(typesStr string) []string {
	if typesStr == "all" {
		return []string{"cpu", "memory", "block", "mutex", "goroutine"}
	}

	parts := strings.Split(typesStr, ",")
	types := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		switch part {
		case "cpu", "memory", "mem", "block", "mutex", "goroutine":
			if part == "mem" {
				part = "memory"
			}
			if !contains(types, part) {
				types = append(types, part)
			}
		}
	}
	return types
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
