package testmail

import "time"

// Observer receives pipeline measurements. core/metrics provides the
// Prometheus implementation.
type Observer interface {
	ObserveRun(kind string, d time.Duration)
	ObserveGeneration(provider string, d time.Duration, err error)
	ObserveBatch(valid, dropped int)
	ObserveDelivery(sent bool)
}

type nopObserver struct{}

func (nopObserver) ObserveRun(string, time.Duration)               {}
func (nopObserver) ObserveGeneration(string, time.Duration, error) {}
func (nopObserver) ObserveBatch(int, int)                          {}
func (nopObserver) ObserveDelivery(bool)                           {}
