package loader

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/spinner/engine/model"
	"github.com/rs/zerolog/log"
)

// LoaderBackendType identifies the mesh file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// Request names an in-memory asset to decode.
type Request struct {
	Name string
	Data []byte
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	modelCache map[string]model.Model

	backend loaderBackend

	workers   int
	queueSize int
	pool      worker.DynamicWorkerPool
}

// Loader decodes embedded mesh assets and caches the resulting models by name.
// Nothing is read from disk; every asset arrives as bytes.
type Loader interface {
	// Load decodes one asset and caches the result.
	// If a model with the same name is already cached, the cached version is returned.
	//
	// Parameters:
	//   - name: the cache key for the model
	//   - data: the raw asset bytes
	//
	// Returns:
	//   - model.Model: the loaded and validated model
	//   - error: error if decoding fails or the mesh is not drawable
	Load(name string, data []byte) (model.Model, error)

	// LoadAll decodes every request concurrently on the loader's worker pool and waits for all
	// of them. Cached names are not decoded again.
	//
	// Parameters:
	//   - requests: the assets to decode
	//
	// Returns:
	//   - []model.Model: the models in request order
	//   - error: the first failure in request order, or nil
	LoadAll(requests ...Request) ([]model.Model, error)

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(name string) model.Model

	// Models returns a copy of the model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by name
	Models() map[string]model.Model
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:         sync.RWMutex{},
		modelCache: make(map[string]model.Model),
		workers:    2,
		queueSize:  16,
	}

	switch backendType {
	case BackendTypeGLTF:
		fallthrough
	default:
		l.backend = newGLTFLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	l.pool = worker.NewDynamicWorkerPool(l.workers, l.queueSize, 1*time.Second)
	return l
}

func (l *loader) Load(name string, data []byte) (model.Model, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}

	start := time.Now()
	m, err := l.backend.Decode(name, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}

	l.mu.Lock()
	if cached, ok := l.modelCache[name]; ok {
		l.mu.Unlock()
		return cached, nil
	}
	l.modelCache[name] = m
	l.mu.Unlock()

	log.Debug().
		Str("model", name).
		Int("vertices", m.VertexCount()).
		Int("indices", m.IndexCount()).
		Float64("radius", float64(m.BoundingRadius())).
		Dur("took", time.Since(start)).
		Msg("mesh decoded")
	return m, nil
}

func (l *loader) LoadAll(requests ...Request) ([]model.Model, error) {
	models := make([]model.Model, len(requests))
	errs := make([]error, len(requests))

	// Wait() on the pool blocks until workers idle out, so a WaitGroup is the barrier.
	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		id, r := i, req
		l.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				models[id], errs[id] = l.Load(r.Name, r.Data)
				return nil, errs[id]
			},
		})
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return models, nil
}

func (l *loader) Get(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}
