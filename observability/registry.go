package observability

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tailored-agentic-units/eventify/eventify"
)

var (
	observers = map[string]eventify.Observer{
		"noop":    NoOpObserver{},
		"slog":    NewSlogObserver(slog.Default()),
		"zap":     NewZapObserver(nil),
		"metrics": mustMetricsObserver(prometheus.DefaultRegisterer),
		"trace":   NewTraceObserver(),
	}
	mutex sync.RWMutex
)

func mustMetricsObserver(reg prometheus.Registerer) *MetricsObserver {
	obs, err := NewMetricsObserver(reg)
	if err != nil {
		panic(fmt.Sprintf("failed to create metrics observer: %v", err))
	}
	return obs
}

// GetObserver returns a registered observer by name.
// Pre-registered observers: "noop", "slog" (default logger), "zap" (global
// zap logger), "metrics" (default Prometheus registerer) and "trace".
func GetObserver(name string) (eventify.Observer, error) {
	mutex.RLock()
	defer mutex.RUnlock()

	obs, exists := observers[name]
	if !exists {
		return nil, fmt.Errorf("unknown observer: %s", name)
	}
	return obs, nil
}

// RegisterObserver adds or replaces a named observer in the global registry.
func RegisterObserver(name string, observer eventify.Observer) {
	mutex.Lock()
	defer mutex.Unlock()

	observers[name] = observer
}

// Resolve looks up every named observer, failing on the first unknown name.
func Resolve(names []string) ([]eventify.Observer, error) {
	resolved := make([]eventify.Observer, 0, len(names))
	for _, name := range names {
		obs, err := GetObserver(name)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, obs)
	}
	return resolved, nil
}
