package fauxhttp

import (
	"encoding"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"time"

	"github.com/gorilla/schema"
)

var encoder = func() *schema.Encoder {
	enc := schema.NewEncoder()
	enc.SetAliasTag("json")
	enc.RegisterEncoder(time.Time{}, func(v reflect.Value) string {
		return v.Interface().(time.Time).Format(time.RFC3339)
	})
	return enc
}()

// formatValue renders a scalar parameter value. ok is false for nil values,
// which callers skip.
func formatValue(v any) (string, bool, error) {
	if v == nil {
		return "", false, nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false, nil
		}
		rv = rv.Elem()
	}

	candidates := []any{rv.Interface()}
	if rv.CanAddr() {
		candidates = append(candidates, rv.Addr().Interface())
	}
	for _, c := range candidates {
		switch x := c.(type) {
		case time.Time:
			return x.Format(time.RFC3339), true, nil
		case time.Duration:
			return x.String(), true, nil
		case encoding.TextMarshaler:
			b, err := x.MarshalText()
			if err != nil {
				return "", false, err
			}
			return string(b), true, nil
		case fmt.Stringer:
			return x.String(), true, nil
		}
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true, nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true, nil
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32), true, nil
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64), true, nil
	}

	return "", false, fmt.Errorf("%w: %s", ErrUnsupportedValue, rv.Type())
}

// SetHeader sets header name from v. Nil values leave the header unset;
// slices add one value per element.
func SetHeader(h http.Header, name string, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8 {
		h.Del(name)
		for i := 0; i < rv.Len(); i++ {
			s, ok, err := formatValue(rv.Index(i).Interface())
			if err != nil {
				return fmt.Errorf("header %s: %w", name, err)
			}
			if ok {
				h.Add(name, s)
			}
		}
		return nil
	}

	s, ok, err := formatValue(v)
	if err != nil {
		return fmt.Errorf("header %s: %w", name, err)
	}
	if ok {
		h.Set(name, s)
	}
	return nil
}

// AddQuery adds v to values under name. Structs are expanded into one
// parameter per field; slices repeat the parameter.
func AddQuery(values url.Values, name string, v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	if !rv.IsValid() {
		return nil
	}

	switch {
	case rv.Kind() == reflect.Struct && !isScalarStruct(rv):
		if err := encoder.Encode(rv.Interface(), values); err != nil {
			return fmt.Errorf("query %s: %w", name, err)
		}
		return nil

	case rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8:
		for i := 0; i < rv.Len(); i++ {
			s, ok, err := formatValue(rv.Index(i).Interface())
			if err != nil {
				return fmt.Errorf("query %s: %w", name, err)
			}
			if ok {
				values.Add(name, s)
			}
		}
		return nil
	}

	s, ok, err := formatValue(rv.Interface())
	if err != nil {
		return fmt.Errorf("query %s: %w", name, err)
	}
	if ok {
		values.Add(name, s)
	}
	return nil
}

// isScalarStruct reports struct types that format as a single value
func isScalarStruct(rv reflect.Value) bool {
	if _, ok := rv.Interface().(time.Time); ok {
		return true
	}
	if _, ok := rv.Interface().(encoding.TextMarshaler); ok {
		return true
	}
	if rv.CanAddr() {
		_, ok := rv.Addr().Interface().(encoding.TextMarshaler)
		return ok
	}
	return false
}

// HeaderValue reads response header name converted to T. A missing header
// yields the zero value; pointer targets are allocated only when present.
func HeaderValue[T any](resp *http.Response, name string) (T, error) {
	var out T
	if resp == nil {
		return out, nil
	}

	raw := resp.Header.Get(name)
	if raw == "" {
		return out, nil
	}

	if err := parseValue(raw, &out); err != nil {
		return out, fmt.Errorf("header %s: %w", name, err)
	}
	return out, nil
}

func parseValue(raw string, dst any) error {
	switch d := dst.(type) {
	case *time.Duration:
		v, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		*d = v
		return nil
	case encoding.TextUnmarshaler:
		return d.UnmarshalText([]byte(raw))
	}

	rv := reflect.ValueOf(dst).Elem()
	switch rv.Kind() {
	case reflect.Pointer:
		elem := reflect.New(rv.Type().Elem())
		if err := parseValue(raw, elem.Interface()); err != nil {
			return err
		}
		rv.Set(elem)
	case reflect.String:
		rv.SetString(raw)
	case reflect.Bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		rv.SetBool(v)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(raw, 10, rv.Type().Bits())
		if err != nil {
			return err
		}
		rv.SetInt(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseUint(raw, 10, rv.Type().Bits())
		if err != nil {
			return err
		}
		rv.SetUint(v)
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(raw, rv.Type().Bits())
		if err != nil {
			return err
		}
		rv.SetFloat(v)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedValue, rv.Type())
	}
	return nil
}
