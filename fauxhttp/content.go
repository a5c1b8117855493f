package fauxhttp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
)

// Content is an encoded request body
type Content struct {
	ContentType string
	Body        []byte
}

// JSONContent encodes v as application/json
func JSONContent(v any) (*Content, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode json body: %w", err)
	}
	return &Content{ContentType: "application/json", Body: b}, nil
}

// TextContent formats v as text/plain
func TextContent(v any) (*Content, error) {
	s, _, err := formatValue(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode text body: %w", err)
	}
	return &Content{ContentType: "text/plain; charset=utf-8", Body: []byte(s)}, nil
}

// RawContent sends v unchanged as application/octet-stream. v may be a byte
// slice, a string or an io.Reader.
func RawContent(v any) (*Content, error) {
	c := &Content{ContentType: "application/octet-stream"}

	switch x := v.(type) {
	case nil:
		return c, nil
	case []byte:
		c.Body = x
	case string:
		c.Body = []byte(x)
	case io.Reader:
		b, err := io.ReadAll(x)
		if err != nil {
			return nil, fmt.Errorf("failed to read raw body: %w", err)
		}
		c.Body = b
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() != reflect.Uint8 {
			return nil, fmt.Errorf("%w for raw body: %T", ErrUnsupportedValue, v)
		}
		c.Body = rv.Bytes()
	}

	return c, nil
}

// FormContent encodes v as application/x-www-form-urlencoded. Structs are
// encoded field by field using their json names.
func FormContent(v any) (*Content, error) {
	values := url.Values{}

	switch x := v.(type) {
	case nil:
	case url.Values:
		values = x
	case map[string]string:
		for k, s := range x {
			values.Set(k, s)
		}
	default:
		rv := reflect.ValueOf(v)
		for rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return nil, errors.New("nil form body")
			}
			rv = rv.Elem()
		}
		if rv.Kind() != reflect.Struct {
			return nil, fmt.Errorf("%w for form body: %T", ErrUnsupportedValue, v)
		}
		if err := encoder.Encode(rv.Interface(), values); err != nil {
			return nil, fmt.Errorf("failed to encode form body: %w", err)
		}
	}

	return &Content{
		ContentType: "application/x-www-form-urlencoded",
		Body:        []byte(values.Encode()),
	}, nil
}

// ReadJSON decodes the response body into T and closes it. An empty body
// yields the zero value.
func ReadJSON[T any](resp *http.Response) (T, error) {
	var out T
	if resp == nil || resp.Body == nil {
		return out, nil
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return out, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return out, nil
	}

	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("failed to decode json response: %w", err)
	}
	return out, nil
}

// ReadText returns the response body as text and closes it
func ReadText[T ~string](resp *http.Response) (T, error) {
	b, err := ReadRaw[[]byte](resp)
	return T(b), err
}

// ReadRaw returns the response body bytes and closes it
func ReadRaw[T ~[]byte](resp *http.Response) (T, error) {
	if resp == nil || resp.Body == nil {
		return nil, nil
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return T(b), nil
}
