package cookiebridge

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strconv"
	"strings"
)

// maxBodySize caps the bytes ParseBody reads from a JSON or XML body.
const maxBodySize = 1 << 20

// ErrUnsupportedContentType is returned by ParseBody for bodies it cannot bind.
var ErrUnsupportedContentType = errors.New("cookiebridge: content type not supported")

// ParseBody parses the HTTP request body into the struct pointed to by dst,
// choosing the decoder from the media type of the Content-Type header
// (parameters such as charset are ignored).
//
// Supported content types:
//   - application/x-www-form-urlencoded, multipart/form-data:
//     fields are bound through `form:"name"` tags.
//   - application/json: `json` tags.
//   - application/xml, text/xml: `xml` tags.
//
// Form fields may be strings, signed and unsigned integers, floats, bools
// ("on"/"off", "yes"/"no", "1"/"0", "true"/"false") or slices of those. The
// only supported tag option is "required":
//
//	type setCookieForm struct {
//	    Name  string `form:"name,required"`
//	    Value string `form:"value"`
//	}
//
// Usage:
//
//	func handler(w cookiebridge.ResponseWriter, r *http.Request) {
//	    var req setCookieForm
//	    if err := cookiebridge.ParseBody(r, &req); err != nil {
//	        http.Error(w, err.Error(), http.StatusBadRequest)
//	        return
//	    }
//	    w.SetCookie(req.Name, req.Value, cookiebridge.Options{})
//	}
func ParseBody(r *http.Request, dst any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedContentType, err)
	}

	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		return parseBodyForm(r, mediaType, dst)
	case "application/json":
		return json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(dst)
	case "application/xml", "text/xml":
		return xml.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(dst)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedContentType, mediaType)
	}
}

func parseBodyForm(r *http.Request, mediaType string, dst any) error {
	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(maxBodySize)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return fmt.Errorf("failed to parse form: %w", err)
	}

	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return errors.New("destination must be a pointer to a struct")
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rv.NumField(); i++ {
		field := rv.Field(i)
		if !field.CanSet() {
			continue
		}

		tag := rt.Field(i).Tag.Get("form")
		if tag == "" || tag == "-" {
			continue
		}

		name, opts, _ := strings.Cut(tag, ",")
		values := r.Form[name]

		if len(values) == 0 {
			if opts == "required" {
				return fmt.Errorf("required field '%s' is missing", name)
			}
			continue
		}

		if err := bindField(field, values); err != nil {
			return fmt.Errorf("failed to bind field '%s': %w", name, err)
		}
	}

	return nil
}

func bindField(field reflect.Value, values []string) error {
	if field.Kind() == reflect.Slice {
		slice := reflect.MakeSlice(field.Type(), len(values), len(values))
		for i, v := range values {
			if err := bindValue(slice.Index(i), v); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
		field.Set(slice)
		return nil
	}
	return bindValue(field, values[0])
}

// bindValue leaves non-string fields at their zero value for empty input,
// which is what browsers send for blank number fields.
func bindValue(field reflect.Value, value string) error {
	if value == "" && field.Kind() != reflect.String {
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer value: %s", value)
		}
		field.SetInt(v)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid unsigned integer value: %s", value)
		}
		field.SetUint(v)

	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid float value: %s", value)
		}
		field.SetFloat(v)

	case reflect.Bool:
		switch strings.ToLower(value) {
		case "on", "1", "yes", "true":
			field.SetBool(true)
		case "off", "0", "no", "false", "":
			field.SetBool(false)
		default:
			return fmt.Errorf("invalid boolean value: %s", value)
		}

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}
