package terminus

import "reflect"

type (
	// Container is the service-container capability consumed by the
	// container-fallback binding strategy.  Lifetime management is
	// the collaborator's concern; resolution is synchronous and not
	// cancelable.
	Container interface {
		TryResolve(typ reflect.Type) (any, bool)
	}

	// ContainerFunc adapts a function to the Container capability.
	ContainerFunc func(typ reflect.Type) (any, bool)
)

func (f ContainerFunc) TryResolve(typ reflect.Type) (any, bool) {
	return f(typ)
}

// Registry is a minimal type-keyed Container, mainly for tests and
// single-binary wiring.  Instances registered under an interface
// type are returned for that exact type.
type Registry struct {
	instances map[reflect.Type]any
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{instances: make(map[reflect.Type]any)}
}

// Register stores an instance under its concrete type.
func (r *Registry) Register(instance any) *Registry {
	r.instances[reflect.TypeOf(instance)] = instance
	return r
}

// RegisterAs stores an instance under an explicit type, typically an
// interface type.
func (r *Registry) RegisterAs(typ reflect.Type, instance any) *Registry {
	r.instances[typ] = instance
	return r
}

func (r *Registry) TryResolve(typ reflect.Type) (any, bool) {
	if instance, ok := r.instances[typ]; ok {
		return instance, true
	}
	// fall back to assignability for interface requests
	if typ.Kind() == reflect.Interface {
		for t, instance := range r.instances {
			if t.Implements(typ) {
				return instance, true
			}
		}
	}
	return nil, false
}
