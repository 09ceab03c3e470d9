package validates

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/karlssberg/terminus"
)

type CreateUser struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
	Age   int    `validate:"gte=0,lte=130"`
}

type ValidatesTestSuite struct {
	suite.Suite
	chain *terminus.Chain
	calls int
}

func (s *ValidatesTestSuite) SetupTest() {
	s.chain = terminus.NewChain(New())
	s.calls = 0
}

func (s *ValidatesTestSuite) invoke(md terminus.Metadata, args ...terminus.Arg) error {
	inv := terminus.NewInvocation(terminus.Void, terminus.HandlerDescriptor{
		Method:   terminus.MethodID{Service: "Users", Name: "Create"},
		Metadata: md,
		Call: func(*terminus.Invocation) error {
			s.calls++
			return nil
		},
	}, args...)
	return s.chain.ProceedVoid(inv, terminus.TerminalVoid)
}

func (s *ValidatesTestSuite) TestValidArgumentsProceed() {
	err := s.invoke(nil, terminus.Arg{
		Name: "user",
		Value: CreateUser{
			Name:  "Ada",
			Email: "ada@example.com",
			Age:   36,
		},
	})
	s.Nil(err)
	s.Equal(1, s.calls)
}

func (s *ValidatesTestSuite) TestAccumulatesAllViolations() {
	err := s.invoke(nil, terminus.Arg{
		Name: "user",
		Value: CreateUser{
			Email: "not-an-email",
			Age:   -3,
		},
	})
	var ve *terminus.ValidationError
	s.ErrorAs(err, &ve)
	s.Len(ve.Violations(), 3, "required name, bad email, negative age")
	s.Equal(0, s.calls)
}

func (s *ValidatesTestSuite) TestViolationsAcrossArguments() {
	err := s.invoke(
		terminus.Attrs{ConstraintsProperty: map[string]string{"contact": "email"}},
		terminus.Arg{
			Name:  "user",
			Value: CreateUser{Name: "Ada", Email: "bad", Age: 1},
		},
		terminus.Arg{Name: "contact", Value: "also-bad"},
	)
	var ve *terminus.ValidationError
	s.ErrorAs(err, &ve)
	s.Len(ve.Violations(), 2)
	s.Equal(0, s.calls)
}

func (s *ValidatesTestSuite) TestNilArgumentsSkipped() {
	err := s.invoke(nil, terminus.Arg{Name: "user", Value: nil})
	s.Nil(err)
	s.Equal(1, s.calls)
}

func (s *ValidatesTestSuite) TestMetadataRulesOnSimpleArguments() {
	md := terminus.Attrs{
		ConstraintsProperty: map[string]string{"host": "ipv4"},
	}
	s.Nil(s.invoke(md, terminus.Arg{Name: "host", Value: "10.0.0.1"}))

	err := s.invoke(md, terminus.Arg{Name: "host", Value: "not-an-ip"})
	var ve *terminus.ValidationError
	s.ErrorAs(err, &ve)
	s.Len(ve.Violations(), 1)
	s.ErrorContains(ve.Violations()[0], "host")
}

func (s *ValidatesTestSuite) TestUnknownRuleReported() {
	md := terminus.Attrs{
		ConstraintsProperty: map[string]string{"host": "no-such-rule"},
	}
	err := s.invoke(md, terminus.Arg{Name: "host", Value: "anything"})
	var ve *terminus.ValidationError
	s.ErrorAs(err, &ve)
	s.ErrorContains(ve.Violations()[0], "no-such-rule")
}

func TestValidates(t *testing.T) {
	suite.Run(t, new(ValidatesTestSuite))
}
