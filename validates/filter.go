// Package validates provides the argument-validation interceptor.
// Struct-shaped arguments are validated through go-playground
// validator tag rules; simple arguments are checked against rule
// names declared in the method's metadata.  All violations across
// all arguments are accumulated before the call is aborted.
package validates

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"reflect"
	"strings"

	"github.com/asaskevich/govalidator"
	ut "github.com/go-playground/universal-translator"
	play "github.com/go-playground/validator/v10"

	"github.com/karlssberg/terminus"
)

// ConstraintsProperty names the metadata property carrying simple
// argument rules: a parameter-name to comma-separated rule list
// mapping, with rule names drawn from govalidator's tag map
// (e.g. "email", "numeric", "ipv4").
const ConstraintsProperty = "Constraints"

// Check validates every non-nil argument before the call proceeds.
type Check struct {
	validate   *play.Validate
	translator ut.Translator
}

// New creates the validation interceptor with a default validator.
func New() *Check {
	return &Check{validate: play.New()}
}

// NewWith creates the validation interceptor over a configured
// validator instance.
func NewWith(validate *play.Validate) *Check {
	return &Check{validate: validate}
}

// WithTranslator renders struct violations through the given
// translator instead of their default messages.
func (c *Check) WithTranslator(translator ut.Translator) *Check {
	c.translator = translator
	return c
}

func (c *Check) InterceptorName() string {
	return "validates"
}

func (c *Check) InterceptVoid(
	inv  *terminus.Invocation,
	next terminus.NextVoid,
) error {
	if err := c.check(inv); err != nil {
		return err
	}
	return next(inv)
}

func (c *Check) InterceptResult(
	inv  *terminus.Invocation,
	next terminus.NextResult,
) (any, error) {
	if err := c.check(inv); err != nil {
		return nil, err
	}
	return next(inv)
}

func (c *Check) InterceptAsync(
	ctx  context.Context,
	inv  *terminus.Invocation,
	next terminus.NextAsync,
) (any, error) {
	if err := c.check(inv); err != nil {
		return nil, err
	}
	return next(ctx, inv)
}

func (c *Check) InterceptStream(
	ctx  context.Context,
	inv  *terminus.Invocation,
	next terminus.NextStream,
) iter.Seq2[any, error] {
	if err := c.check(inv); err != nil {
		return terminus.FailStream(err)
	}
	return next(ctx, inv)
}

// check accumulates all violations across all arguments; it never
// fails fast.
func (c *Check) check(inv *terminus.Invocation) error {
	var violations []error
	rules := constraintRules(inv.Metadata)
	for _, arg := range inv.Args {
		if arg.Value == nil {
			continue
		}
		if structLike(arg.Value) {
			violations = append(violations, c.checkStruct(arg)...)
		}
		if ruleList, ok := rules[arg.Name]; ok {
			violations = append(violations, checkRules(arg, ruleList)...)
		}
	}
	if err := terminus.NewValidationError(violations...); err != nil {
		return err
	}
	return nil
}

func (c *Check) checkStruct(arg terminus.Arg) []error {
	err := c.validate.Struct(arg.Value)
	if err == nil {
		return nil
	}
	var fieldErrors play.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []error{err}
	}
	violations := make([]error, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		if c.translator != nil {
			violations = append(violations, errors.New(fe.Translate(c.translator)))
		} else {
			violations = append(violations, fe)
		}
	}
	return violations
}

func checkRules(arg terminus.Arg, ruleList string) []error {
	var violations []error
	value := fmt.Sprintf("%v", arg.Value)
	for _, rule := range strings.Split(ruleList, ",") {
		rule = strings.TrimSpace(rule)
		if rule == "" {
			continue
		}
		check, ok := govalidator.TagMap[rule]
		if !ok {
			violations = append(violations, fmt.Errorf(
				"argument %q declares unknown constraint %q", arg.Name, rule))
			continue
		}
		if !check(value) {
			violations = append(violations, fmt.Errorf(
				"argument %q (%v) violates constraint %q", arg.Name, arg.Value, rule))
		}
	}
	return violations
}

// constraintRules reads the ConstraintsProperty mapping from the
// method's metadata.
func constraintRules(m terminus.Metadata) map[string]string {
	if m == nil {
		return nil
	}
	value, ok := m.Lookup(ConstraintsProperty)
	if !ok {
		return nil
	}
	switch rules := value.(type) {
	case map[string]string:
		return rules
	case map[string]any:
		converted := make(map[string]string, len(rules))
		for name, rule := range rules {
			if s, ok := rule.(string); ok {
				converted[name] = s
			}
		}
		return converted
	}
	return nil
}

func structLike(value any) bool {
	t := reflect.TypeOf(value)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct && t.PkgPath() != "time"
}
