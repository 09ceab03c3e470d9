package terminus

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type Color int

const (
	ColorRed Color = iota
	ColorGreen
	ColorBlue
)

type Mailer interface {
	Send(to, body string) error
}

type smtpMailer struct{}

func (smtpMailer) Send(string, string) error { return nil }

type BindingTestSuite struct {
	suite.Suite
	resolver *Resolver
	registry *Registry
}

func (s *BindingTestSuite) SetupTest() {
	s.registry = NewRegistry()
	named := NewNamedValueStrategy().
		RegisterEnum(map[string]any{
			"Red":   ColorRed,
			"Green": ColorGreen,
			"Blue":  ColorBlue,
		})
	s.resolver = NewResolver(
		ContextStrategy{},
		named,
		&ContainerStrategy{Container: s.registry},
	)
}

func (s *BindingTestSuite) bind(
	name string,
	typ  reflect.Type,
	args map[string]any,
) (any, error) {
	return s.resolver.Resolve(&BindingContext{
		Param: Parameter{Name: name, Type: typ},
		Args:  args,
		Ctx:   context.Background(),
	})
}

func (s *BindingTestSuite) TestContextNeverShadowedByArguments() {
	ctx := context.WithValue(context.Background(), struct{}{}, "ambient")
	value, err := s.resolver.Resolve(&BindingContext{
		Param: Parameter{Name: "ctx", Type: reflect.TypeFor[context.Context]()},
		Args:  map[string]any{"ctx": "decoy"},
		Ctx:   ctx,
	})
	s.Nil(err)
	s.Equal(ctx, value)
}

func (s *BindingTestSuite) TestNamedValuePassThrough() {
	value, err := s.bind("id", reflect.TypeFor[int](), map[string]any{"id": 42})
	s.Nil(err)
	s.Equal(42, value)
}

func (s *BindingTestSuite) TestMissingRequiredFails() {
	_, err := s.bind("id", reflect.TypeFor[int](), map[string]any{})
	var be *BindingError
	s.ErrorAs(err, &be)
	s.Equal("id", be.Parameter)
	s.Equal(reflect.TypeFor[int](), be.Type)
}

func (s *BindingTestSuite) TestMissingNullableYieldsNil() {
	value, err := s.bind("id", reflect.TypeFor[*int](), map[string]any{})
	s.Nil(err)
	s.Nil(value)
}

func (s *BindingTestSuite) TestPresentNullableWraps() {
	value, err := s.bind("id", reflect.TypeFor[*int](), map[string]any{"id": 7})
	s.Nil(err)
	s.Equal(7, *(value.(*int)))
}

func (s *BindingTestSuite) TestPresentNullablePassesThrough() {
	seven := 7
	value, err := s.bind("id", reflect.TypeFor[*int](), map[string]any{"id": &seven})
	s.Nil(err)
	s.Same(&seven, value)
}

func (s *BindingTestSuite) TestEnumParsesCaseInsensitively() {
	value, err := s.bind("color", reflect.TypeFor[Color](), map[string]any{"color": "Blue"})
	s.Nil(err)
	s.Equal(ColorBlue, value)

	value, err = s.bind("color", reflect.TypeFor[Color](), map[string]any{"color": "gReEn"})
	s.Nil(err)
	s.Equal(ColorGreen, value)
}

func (s *BindingTestSuite) TestEnumUnknownNameFails() {
	_, err := s.bind("color", reflect.TypeFor[Color](), map[string]any{"color": "Mauve"})
	var be *BindingError
	s.ErrorAs(err, &be)
	s.Equal("color", be.Parameter)
}

func (s *BindingTestSuite) TestUUIDParsesCanonically() {
	id := uuid.New()
	value, err := s.bind("userId", reflect.TypeFor[uuid.UUID](),
		map[string]any{"userId": id.String()})
	s.Nil(err)
	s.Equal(id, value)
}

func (s *BindingTestSuite) TestTimeParsesRFC3339() {
	value, err := s.bind("when", reflect.TypeFor[time.Time](),
		map[string]any{"when": "2026-08-29T10:30:00Z"})
	s.Nil(err)
	s.Equal(time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC), value)
}

func (s *BindingTestSuite) TestDurationParses() {
	value, err := s.bind("timeout", reflect.TypeFor[time.Duration](),
		map[string]any{"timeout": "90s"})
	s.Nil(err)
	s.Equal(90*time.Second, value)
}

func (s *BindingTestSuite) TestNumericConversion() {
	value, err := s.bind("count", reflect.TypeFor[int64](), map[string]any{"count": 5})
	s.Nil(err)
	s.Equal(int64(5), value)

	value, err = s.bind("ratio", reflect.TypeFor[float32](), map[string]any{"ratio": 0.5})
	s.Nil(err)
	s.Equal(float32(0.5), value)
}

func (s *BindingTestSuite) TestStringConversionFailure() {
	_, err := s.bind("id", reflect.TypeFor[int](), map[string]any{"id": "abc"})
	var be *BindingError
	s.ErrorAs(err, &be)
	s.Contains(be.Reason, "abc")
}

func (s *BindingTestSuite) TestConversionFailureShowsPointee() {
	bad := "abc"
	_, err := s.bind("id", reflect.TypeFor[int](), map[string]any{"id": &bad})
	var be *BindingError
	s.ErrorAs(err, &be)
	s.Contains(be.Reason, "abc")
	s.NotContains(be.Reason, "0x")
}

func (s *BindingTestSuite) TestContainerResolvesService() {
	mailer := smtpMailer{}
	s.registry.RegisterAs(reflect.TypeFor[Mailer](), mailer)
	value, err := s.bind("mailer", reflect.TypeFor[Mailer](), map[string]any{})
	s.Nil(err)
	s.Equal(mailer, value)
}

func (s *BindingTestSuite) TestContainerMissUsesDefault() {
	value, err := s.resolver.Resolve(&BindingContext{
		Param: Parameter{
			Name:       "retries",
			Type:       reflect.TypeFor[[]string](),
			Default:    []string{"once"},
			HasDefault: true,
		},
		Args: map[string]any{},
	})
	s.Nil(err)
	s.Equal([]string{"once"}, value)
}

func (s *BindingTestSuite) TestContainerMissNilableYieldsNil() {
	value, err := s.bind("mailer", reflect.TypeFor[Mailer](), map[string]any{})
	s.Nil(err)
	s.Nil(value)
}

func (s *BindingTestSuite) TestUnresolvableFails() {
	type widget struct{ spokes int }
	_, err := s.bind("widget", reflect.TypeFor[widget](), map[string]any{})
	var be *BindingError
	s.ErrorAs(err, &be)
	s.Equal("widget", be.Parameter)
}

func (s *BindingTestSuite) TestResolveAllPreservesOrder() {
	s.registry.RegisterAs(reflect.TypeFor[Mailer](), smtpMailer{})
	values, err := s.resolver.ResolveAll(
		context.Background(),
		[]Parameter{
			{Name: "id", Type: reflect.TypeFor[int]()},
			{Name: "ctx", Type: reflect.TypeFor[context.Context]()},
			{Name: "mailer", Type: reflect.TypeFor[Mailer]()},
		},
		map[string]any{"id": 9},
	)
	s.Nil(err)
	s.Len(values, 3)
	s.Equal(9, values[0])
	s.NotNil(values[1])
	s.Equal(smtpMailer{}, values[2])
}

func TestBinding(t *testing.T) {
	suite.Run(t, new(BindingTestSuite))
}
