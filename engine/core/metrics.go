package core

import (
	"sync"
	"time"
)

// Number of compilations the average compile time is taken over.
const AVG_COUNT uint8 = 30

type MetricsState struct {
	mutex sync.Mutex

	AVGCounter uint8
	MStimes    [AVG_COUNT]float64
	MSavg      float64
	Samples    uint8
	Compiled   int64
	Failed     int64
}

var onceMetrics sync.Once
var metricsState *MetricsState = nil

func MetricsInitialize() error {
	onceMetrics.Do(func() {
		metricsState = &MetricsState{
			MStimes: [AVG_COUNT]float64{0},
		}
	})
	return nil
}

// MetricsUpdate records one render pass compilation and how long it took.
func MetricsUpdate(elapsed time.Duration, ok bool) {
	MetricsInitialize()
	metricsState.mutex.Lock()
	defer metricsState.mutex.Unlock()

	if !ok {
		metricsState.Failed++
		return
	}
	metricsState.Compiled++

	// Calculate the compile ms average over the last AVG_COUNT compilations
	ms := float64(elapsed) / float64(time.Millisecond)
	metricsState.MStimes[metricsState.AVGCounter] = ms
	metricsState.AVGCounter++
	metricsState.AVGCounter %= AVG_COUNT
	if metricsState.Samples < AVG_COUNT {
		metricsState.Samples++
	}
	sum := 0.0
	for i := uint8(0); i < metricsState.Samples; i++ {
		sum += metricsState.MStimes[i]
	}
	metricsState.MSavg = sum / float64(metricsState.Samples)
}

// MetricsCompiled returns how many compilations succeeded and failed.
func MetricsCompiled() (int64, int64) {
	MetricsInitialize()
	metricsState.mutex.Lock()
	defer metricsState.mutex.Unlock()
	return metricsState.Compiled, metricsState.Failed
}

// MetricsCompileTime is the average compile time in milliseconds.
func MetricsCompileTime() float64 {
	MetricsInitialize()
	metricsState.mutex.Lock()
	defer metricsState.mutex.Unlock()
	return metricsState.MSavg
}
