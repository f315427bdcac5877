package validate

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translation "github.com/go-playground/validator/v10/translations/en"
)

const defaultLocale = "en"

// FieldErrors maps a json field path to its messages, the same shape the backend
// returns with a 422.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e[f], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Validator validates request structs.
type Validator interface {
	Validate(interface{}) error
}

type Translation struct {
	Tag      string
	Message  string
	Override bool
	// WithParam passes the tag parameter as {0}.
	WithParam bool
}

type StructValidation struct {
	Type interface{}
	Func validator.StructLevelFunc
}

// Builder builds a validator with json field names and custom messages.
type Builder struct {
	structValidations []StructValidation
	translations      []Translation

	validate   *validator.Validate
	translator ut.Translator
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) WithTranslations(translations []Translation) *Builder {
	output := *b
	output.translations = translations
	return &output
}

func (b *Builder) WithStructValidations(structValidations []StructValidation) *Builder {
	output := *b
	output.structValidations = structValidations
	return &output
}

func (b *Builder) Build() (Validator, error) {
	universal := ut.New(en.New(), en.New())
	b.translator, _ = universal.GetTranslator(defaultLocale)

	b.validate = validator.New()
	b.validate.RegisterTagNameFunc(tagName)
	if err := en_translation.RegisterDefaultTranslations(b.validate, b.translator); err != nil {
		return nil, err
	}

	for _, s := range b.structValidations {
		b.validate.RegisterStructValidation(s.Func, s.Type)
	}

	for _, t := range b.translations {
		t := t
		register := func(trans ut.Translator) error {
			return trans.Add(t.Tag, t.Message, t.Override)
		}
		translate := func(trans ut.Translator, fe validator.FieldError) string {
			var out string
			if t.WithParam {
				out, _ = trans.T(fe.Tag(), fe.Param())
			} else {
				out, _ = trans.T(fe.Tag())
			}
			return out
		}
		if err := b.validate.RegisterTranslation(t.Tag, b.translator, register, translate); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// Validate returns FieldErrors keyed by the json path without the root struct name.
func (b *Builder) Validate(s interface{}) error {
	err := b.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(FieldErrors)
	for _, f := range validationErrs {
		field := f.Namespace()
		if parts := strings.SplitN(field, ".", 2); len(parts) == 2 {
			field = parts[1]
		}
		fieldErrors.Add(field, f.Translate(b.translator))
	}

	return fieldErrors
}

func tagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}
