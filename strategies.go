package terminus

import (
	"context"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContextStrategy claims exactly the ambient context.Context
// parameter type, regardless of any argument sharing the parameter's
// name.
type ContextStrategy struct{}

func (ContextStrategy) CanBind(bc *BindingContext) bool {
	return bc.Param.Type == contextType
}

func (ContextStrategy) Bind(bc *BindingContext) (any, error) {
	if bc.Ctx != nil {
		return bc.Ctx, nil
	}
	return context.Background(), nil
}

// NamedValueStrategy claims a fixed allow-list of simple value types
// (and their pointer forms) and resolves them from the call's named
// arguments with type coercion.  Enum types participate after
// registration via RegisterEnum.
type NamedValueStrategy struct {
	enums map[reflect.Type]map[string]any
}

func NewNamedValueStrategy() *NamedValueStrategy {
	return &NamedValueStrategy{
		enums: make(map[reflect.Type]map[string]any),
	}
}

// RegisterEnum teaches the strategy the named cases of an enum type.
// Names parse case-insensitively.  The enum type is taken from the
// first value.
func (s *NamedValueStrategy) RegisterEnum(names map[string]any) *NamedValueStrategy {
	for name, value := range names {
		typ := reflect.TypeOf(value)
		cases := s.enums[typ]
		if cases == nil {
			cases = make(map[string]any, len(names))
			s.enums[typ] = cases
		}
		cases[strings.ToLower(name)] = value
	}
	return s
}

func (s *NamedValueStrategy) CanBind(bc *BindingContext) bool {
	return s.simple(derefType(bc.Param.Type))
}

func (s *NamedValueStrategy) Bind(bc *BindingContext) (any, error) {
	param := bc.Param
	raw, ok := bc.Args[param.Name]
	if !ok || raw == nil {
		if param.Type.Kind() == reflect.Ptr {
			return reflect.Zero(param.Type).Interface(), nil
		}
		return nil, &BindingError{
			Parameter: param.Name,
			Type:      param.Type,
			Reason:    "required parameter missing from arguments",
		}
	}
	return s.coerce(raw, param.Type, param.Name)
}

func (s *NamedValueStrategy) simple(t reflect.Type) bool {
	if _, ok := s.enums[t]; ok {
		return true
	}
	switch t {
	case timeType, uuidType, urlType:
		return true
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func (s *NamedValueStrategy) coerce(
	raw  any,
	t    reflect.Type,
	name string,
) (any, error) {
	rv := reflect.ValueOf(raw)
	if rv.Type() == t {
		return raw, nil
	}

	if t.Kind() == reflect.Ptr {
		value, err := s.coerce(raw, t.Elem(), name)
		if err != nil {
			return nil, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(reflect.ValueOf(value))
		return ptr.Interface(), nil
	}

	if cases, ok := s.enums[t]; ok {
		if label, ok := raw.(string); ok {
			if value, ok := cases[strings.ToLower(label)]; ok {
				return value, nil
			}
			return nil, convertError(raw, t, name)
		}
		if rv.Type().ConvertibleTo(t) && numericKind(rv.Kind()) {
			return rv.Convert(t).Interface(), nil
		}
		return nil, convertError(raw, t, name)
	}

	if str, ok := raw.(string); ok {
		if value, err := parseString(str, t); err == nil {
			return value, nil
		}
		return nil, convertError(raw, t, name)
	}

	if numericKind(rv.Kind()) && numericKind(t.Kind()) && rv.Type().ConvertibleTo(t) {
		return rv.Convert(t).Interface(), nil
	}

	return nil, convertError(raw, t, name)
}

func parseString(str string, t reflect.Type) (any, error) {
	switch t {
	case timeType:
		return time.Parse(time.RFC3339, str)
	case uuidType:
		return uuid.Parse(str)
	case urlType:
		u, err := url.Parse(str)
		if err != nil {
			return nil, err
		}
		return *u, nil
	case durationType:
		return time.ParseDuration(str)
	}
	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(str).Convert(t).Interface(), nil
	case reflect.Bool:
		b, err := strconv.ParseBool(str)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(b).Convert(t).Interface(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(str, 10, t.Bits())
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(n).Convert(t).Interface(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(str, 10, t.Bits())
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(n).Convert(t).Interface(), nil
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(str, t.Bits())
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(f).Convert(t).Interface(), nil
	}
	return nil, fmt.Errorf("unsupported target %v", t)
}

// ContainerStrategy is the universal fallback: it asks the owning
// service container for an instance of the parameter type, then the
// declared default, then nil for nilable types, and otherwise fails.
type ContainerStrategy struct {
	Container Container
}

func (s *ContainerStrategy) CanBind(*BindingContext) bool {
	return true
}

func (s *ContainerStrategy) Bind(bc *BindingContext) (any, error) {
	param := bc.Param
	if s.Container != nil {
		if instance, ok := s.Container.TryResolve(param.Type); ok {
			return instance, nil
		}
	}
	if param.HasDefault {
		return param.Default, nil
	}
	if nilable(param.Type.Kind()) {
		return reflect.Zero(param.Type).Interface(), nil
	}
	return nil, &BindingError{
		Parameter: param.Name,
		Type:      param.Type,
		Reason:    "not found in the arguments or the container",
	}
}

func convertError(raw any, t reflect.Type, name string) *BindingError {
	rv := reflect.ValueOf(raw)
	for rv.Kind() == reflect.Ptr && !rv.IsNil() {
		rv = rv.Elem()
	}
	return &BindingError{
		Parameter: name,
		Type:      t,
		Reason:    fmt.Sprintf("cannot convert %v (%T)", rv.Interface(), raw),
	}
}

func derefType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}

func numericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func nilable(k reflect.Kind) bool {
	switch k {
	case reflect.Ptr, reflect.Interface, reflect.Slice,
		reflect.Map, reflect.Chan, reflect.Func:
		return true
	}
	return false
}

var (
	contextType  = reflect.TypeFor[context.Context]()
	timeType     = reflect.TypeFor[time.Time]()
	durationType = reflect.TypeFor[time.Duration]()
	uuidType     = reflect.TypeFor[uuid.UUID]()
	urlType      = reflect.TypeFor[url.URL]()
)
