package adapter

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/edgefold/monograph/pkg/errors"
	"github.com/edgefold/monograph/pkg/logger"
)

// ControllerFactory creates controller instances for the registry.
type ControllerFactory func() Controller

// Registry manages named identity-resolution policies so runs can select
// one by name from configuration.
type Registry struct {
	controllers map[string]ControllerFactory
	mu          sync.RWMutex
	logger      *zap.Logger
}

// Global registry instance
var globalRegistry = NewRegistry()

// NewRegistry creates a new controller registry with the default policy
// pre-registered.
func NewRegistry() *Registry {
	r := &Registry{
		controllers: make(map[string]ControllerFactory),
		logger:      logger.Get().With(zap.String("component", "controller_registry")),
	}
	r.controllers["default"] = func() Controller { return DefaultController{} }
	return r
}

// Register registers a controller factory under a name.
func (r *Registry) Register(name string, factory ControllerFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.controllers[name]; exists {
		return errors.New(errors.ErrorTypeConfig, fmt.Sprintf("controller %s already registered", name))
	}

	r.controllers[name] = factory
	r.logger.Info("controller registered", zap.String("name", name))
	return nil
}

// Create instantiates a registered controller by name.
func (r *Registry) Create(name string) (Controller, error) {
	r.mu.RLock()
	factory, exists := r.controllers[name]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.New(errors.ErrorTypeConfig,
			fmt.Sprintf("controller %s not found; known controllers: %s", name, strings.Join(r.List(), ", ")))
	}

	return factory(), nil
}

// List returns the registered controller names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.controllers))
	for name := range r.controllers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has checks whether a controller is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.controllers[name]
	return exists
}

// Global registry functions

// RegisterController registers a controller in the global registry.
func RegisterController(name string, factory ControllerFactory) error {
	return globalRegistry.Register(name, factory)
}

// GetController instantiates a controller from the global registry.
func GetController(name string) (Controller, error) {
	return globalRegistry.Create(name)
}

// ListControllers returns registered controllers from the global registry.
func ListControllers() []string {
	return globalRegistry.List()
}

// HasController checks the global registry for a name.
func HasController(name string) bool {
	return globalRegistry.Has(name)
}
