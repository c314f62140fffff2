package loader

import (
	"github.com/Carmen-Shannon/spinner/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithWorkers is an option builder that sets the number of decode workers used by LoadAll.
// Values below 1 are ignored.
//
// Parameters:
//   - workers: the worker count
//
// Returns:
//   - LoaderBuilderOption: a function that applies the workers option to a loader
func WithWorkers(workers int) LoaderBuilderOption {
	return func(l *loader) {
		if workers > 0 {
			l.workers = workers
		}
	}
}

// WithQueueSize is an option builder that sets the depth of the decode task queue.
// Values below 1 are ignored.
//
// Parameters:
//   - size: the queue depth
//
// Returns:
//   - LoaderBuilderOption: a function that applies the queue size option to a loader
func WithQueueSize(size int) LoaderBuilderOption {
	return func(l *loader) {
		if size > 0 {
			l.queueSize = size
		}
	}
}

// WithModel is an option builder that pre-populates the model cache with a model.
//
// Parameters:
//   - key: the cache key for the model
//   - model: the model to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(key string, model model.Model) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[key] = model
	}
}
