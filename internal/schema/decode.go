// Package schema decodes and validates the raw parameters of an action.
//
// Each action declares a params struct. Fields are bound to parameter names
// with the `param` tag, validated with go-playground/validator `validate`
// tags, and may carry a `default` applied when the parameter is absent.
// Every offending field is reported, not just the first.
package schema

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	"github.com/aidanlsb/raven-actions/internal/paths"
)

const tagName = "param"

var (
	validate     *validator.Validate
	validateErr  error
	validateOnce sync.Once

	boolType       = reflect.TypeOf(Bool{})
	stringListType = reflect.TypeOf(StringList{})
	propertiesType = reflect.TypeOf(Properties{})
)

// Option adjusts a single Decode call.
type Option func(raw Params, errs *ValidationError)

// RequireCallbacks demands both x-success and x-error. Actions that only
// return data are useless over the URI transport without them.
func RequireCallbacks() Option {
	return func(raw Params, errs *ValidationError) {
		for _, key := range []string{"x-success", "x-error"} {
			if strings.TrimSpace(raw[key]) == "" {
				errs.Add(key, "required", "is required")
			}
		}
	}
}

// Decode turns raw parameters into a validated *P. On failure the error is a
// *ValidationError listing every rejected field.
func Decode[P any](raw Params, opts ...Option) (*P, error) {
	v, err := validatorInstance()
	if err != nil {
		return nil, err
	}

	p := new(P)
	in := withDefaults(raw, reflect.TypeOf(p).Elem())

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    tagName,
		Squash:     true,
		Result:     p,
		DecodeHook: decodeHook,
		MatchName:  func(mapKey, fieldName string) bool { return mapKey == fieldName },
	})
	if err != nil {
		return nil, fmt.Errorf("build decoder: %w", err)
	}

	errs := &ValidationError{}
	if err := dec.Decode(map[string]string(in)); err != nil {
		errs.Add("", "decode", err.Error())
	} else if err := v.Struct(p); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, fmt.Errorf("validate parameters: %w", err)
		}
		for _, e := range verrs {
			errs.Add(e.Field(), e.Tag(), ruleMessage(e))
		}
	}
	for _, opt := range opts {
		opt(raw, errs)
	}

	if errs.HasErrors() {
		errs.Sort()
		return nil, errs
	}
	return p, nil
}

func decodeHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	s := reflect.ValueOf(data).String()
	switch to {
	case boolType:
		return ParseBool(s), nil
	case stringListType:
		return ParseStringList(s), nil
	case propertiesType:
		return ParseProperties(s), nil
	}
	return data, nil
}

// withDefaults copies raw and fills in `default` tags for absent keys.
// A key that is present but empty keeps its empty value.
func withDefaults(raw Params, t reflect.Type) Params {
	in := raw.Clone()
	var walk func(reflect.Type)
	walk = func(t reflect.Type) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.Anonymous && f.Type.Kind() == reflect.Struct {
				walk(f.Type)
				continue
			}
			def, ok := f.Tag.Lookup("default")
			if !ok {
				continue
			}
			name := paramName(f)
			if _, present := in[name]; !present {
				in[name] = def
			}
		}
	}
	if t.Kind() == reflect.Struct {
		walk(t)
	}
	return in
}

func paramName(f reflect.StructField) string {
	name := f.Tag.Get(tagName)
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	return name
}

func validatorInstance() (*validator.Validate, error) {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			return paramName(fld)
		})

		validate.RegisterCustomTypeFunc(func(v reflect.Value) any {
			switch val := v.Interface().(type) {
			case Bool:
				return val.Token
			case StringList:
				return val.Raw
			case Properties:
				return val.Raw
			}
			return nil
		}, Bool{}, StringList{}, Properties{})

		rules := map[string]validator.Func{
			"booltoken": func(fl validator.FieldLevel) bool {
				return validBoolToken(fl.Field().String())
			},
			"jsonstrings": func(fl validator.FieldLevel) bool {
				return validStringList(fl.Field().String())
			},
			"jsonprops": func(fl validator.FieldLevel) bool {
				_, ok := decodeProperties(fl.Field().String())
				return ok
			},
			"notepath": func(fl validator.FieldLevel) bool {
				_, err := paths.SanitizeNotePath(fl.Field().String())
				return err == nil
			},
		}
		for name, fn := range rules {
			if err := validate.RegisterValidation(name, fn); err != nil {
				validateErr = fmt.Errorf("register rule %q: %w", name, err)
				return
			}
		}
	})
	return validate, validateErr
}

func ruleMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_unless", "required_if", "required_with":
		return "is required"
	case "url":
		return "must be a valid absolute URL"
	case "min":
		return "can't be empty"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", e.Param())
	case "booltoken":
		return "must be one of [true false yes no on off 1 0]"
	case "jsonstrings":
		return "must be a JSON array of strings"
	case "jsonprops":
		return "must be a JSON object of string, number, boolean or null values"
	case "notepath":
		return "must be a valid note path"
	default:
		return fmt.Sprintf("failed validation (%s)", e.Tag())
	}
}
