package slack

import (
	"encoding"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// BoolEncoding selects how boolean parameters are written on the wire.
// Slack methods disagree: most accept "true"/"false", a few only "1"/"0".
type BoolEncoding int

const (
	BoolLiteral BoolEncoding = iota // true / false
	BoolNumeric                     // 1 / 0
)

func (b BoolEncoding) format(v bool) string {
	if b == BoolNumeric {
		if v {
			return "1"
		}
		return "0"
	}
	return strconv.FormatBool(v)
}

// Param is a single form-encoded request parameter.
type Param struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Params is an ordered parameter list. Order follows the request struct's
// field order so the encoded body is deterministic.
type Params []Param

// Get returns the value for key and whether it was present.
func (p Params) Get(key string) (string, bool) {
	for _, param := range p {
		if param.Key == key {
			return param.Value, true
		}
	}
	return "", false
}

// Keys returns the parameter names in order.
func (p Params) Keys() []string {
	keys := make([]string, len(p))
	for i, param := range p {
		keys[i] = param.Key
	}
	return keys
}

// Values converts the list to url.Values.
func (p Params) Values() url.Values {
	values := make(url.Values, len(p))
	for _, param := range p {
		values.Add(param.Key, param.Value)
	}
	return values
}

// Encode renders the list as an application/x-www-form-urlencoded body,
// keeping parameter order.
func (p Params) Encode() string {
	var sb strings.Builder
	for i, param := range p {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(param.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(param.Value))
	}
	return sb.String()
}

var textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()

// EncodeParams flattens a request struct into Params using `param:"name"`
// field tags. Nil pointers and nil slices are omitted, every other field is
// sent. Untagged fields and fields tagged "-" are skipped. A nil request
// (or a nil pointer to one) yields no parameters.
//
// Supported field types: string and bool kinds, integer and float kinds,
// encoding.TextMarshaler (Timestamp), and slices of any of these, which are
// joined with commas.
func EncodeParams(req any, bools BoolEncoding) (Params, error) {
	if req == nil {
		return nil, nil
	}
	v := reflect.ValueOf(req)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("slack: request must be a struct, got %s", v.Type())
	}

	var params Params
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name, ok := paramName(field)
		if !ok {
			continue
		}

		fv := v.Field(i)
		if fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		}
		if fv.Kind() == reflect.Slice && fv.IsNil() {
			continue
		}

		value, err := formatParam(fv, bools)
		if err != nil {
			return nil, fmt.Errorf("slack: parameter %q: %w", name, err)
		}
		params = append(params, Param{Key: name, Value: value})
	}
	return params, nil
}

func paramName(field reflect.StructField) (string, bool) {
	if !field.IsExported() {
		return "", false
	}
	tag := field.Tag.Get("param")
	if tag == "" || tag == "-" {
		return "", false
	}
	name, _, _ := strings.Cut(tag, ",")
	return name, name != ""
}

func formatParam(v reflect.Value, bools BoolEncoding) (string, error) {
	if v.Type().Implements(textMarshalerType) {
		text, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return "", err
		}
		return string(text), nil
	}

	switch v.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Bool:
		return bools.format(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, v.Type().Bits()), nil
	case reflect.Slice:
		parts := make([]string, v.Len())
		for i := range parts {
			elem := v.Index(i)
			if elem.Kind() == reflect.Slice {
				return "", fmt.Errorf("nested slice %s is not supported", v.Type())
			}
			s, err := formatParam(elem, bools)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return strings.Join(parts, ","), nil
	}
	return "", fmt.Errorf("unsupported type %s", v.Type())
}
