package interpolation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// TagName marks the struct fields InterpolateStruct expands. Nested structs
// and slices of structs must carry the tag too for their fields to be visited.
const TagName = "env_interpolation"

// InterpolateStruct expands the string fields tagged `env_interpolation:"yes"`
// of the struct v points to, in place.
func InterpolateStruct(v any) error {
	if v == nil {
		return nil
	}
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Pointer || val.IsNil() {
		return fmt.Errorf("expected a non-nil pointer to a struct, got %T", v)
	}
	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("expected a non-nil pointer to a struct, got %T", v)
	}
	return interpolateValue(val)
}

func interpolateValue(val reflect.Value) error {
	typ := val.Type()
	var errs []error
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		meta := typ.Field(i)
		if !field.CanSet() || strings.ToLower(meta.Tag.Get(TagName)) != "yes" {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			expanded, err := ExpandEnvVars(field.String())
			if err != nil {
				errs = append(errs, fmt.Errorf("field %s: %w", meta.Name, err))
				continue
			}
			field.SetString(expanded)

		case reflect.Struct:
			if err := interpolateValue(field); err != nil {
				errs = append(errs, fmt.Errorf("field %s: %w", meta.Name, err))
			}

		case reflect.Slice:
			for j := 0; j < field.Len(); j++ {
				elem := field.Index(j)
				var err error
				switch elem.Kind() {
				case reflect.String:
					var expanded string
					expanded, err = ExpandEnvVars(elem.String())
					if err == nil {
						elem.SetString(expanded)
					}
				case reflect.Struct:
					err = interpolateValue(elem)
				}
				if err != nil {
					errs = append(errs, fmt.Errorf("field %s[%d]: %w", meta.Name, j, err))
				}
			}
		}
	}
	return errors.Join(errs...)
}
