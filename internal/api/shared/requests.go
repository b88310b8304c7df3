package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

// MaxBodyBytes caps how much of a request body is read for parameters.
const MaxBodyBytes = 10 << 20

// ErrMalformedRequest is returned when the request body cannot be parsed or
// a parameter has an unusable shape (an object where a string is expected).
var ErrMalformedRequest = errors.New("malformed request")

// FieldErrors maps request parameter names to their validation messages.
type FieldErrors map[string][]string

// Add appends a message for field.
func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Error implements the error interface, listing fields in name order.
func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e[field], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Global validator instance for reuse
var validate = newValidator()

// newValidator reports fields under their "form" tag names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
	return v
}

// Bind fills dst from the request's query string and body, then validates it.
//
// Parameters are matched on "form" struct tags. The body may be JSON,
// application/x-www-form-urlencoded or multipart/form-data, whatever the
// method, and its values take precedence over the query string. When a key
// repeats, the last value wins.
//
// Bind returns an error wrapping ErrMalformedRequest for unreadable input
// and FieldErrors when validation fails.
func Bind(r *http.Request, dst any) error {
	_, err := BindPresent(r, dst)
	return err
}

// Present is the set of parameter names a request supplied.
type Present map[string]bool

// Has reports whether name was supplied, even as an explicit JSON null.
func (p Present) Has(name string) bool {
	return p[name]
}

// BindPresent works like Bind and also reports which parameters were
// supplied, so callers can tell a JSON null apart from an omitted key.
func BindPresent(r *http.Request, dst any) (Present, error) {
	params, err := requestParams(r)
	if err != nil {
		return nil, err
	}
	present := make(Present, len(params))
	for key := range params {
		present[key] = true
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "form",
		WeaklyTypedInput: true,
		Result:           dst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(params); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRequest, err)
	}

	if err := ValidateRequest(dst); err != nil {
		return nil, err
	}
	return present, nil
}

// ValidateRequest validates v with its "validate" struct tags and converts
// failures to FieldErrors.
func ValidateRequest(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrs := FieldErrors{}
	for _, fe := range validationErrs {
		fieldErrs.Add(fe.Field(), validationMessage(fe))
	}
	return fieldErrs
}

// validationMessage renders a validator failure the way the API reports
// field errors to clients.
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "uuid":
		return "Must be a valid UUID."
	case "datetime":
		return "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	case "boolean":
		return "Must be a valid boolean."
	case "number", "numeric":
		return "A valid integer is required."
	default:
		return "Invalid value."
	}
}

// requestParams merges query parameters with body parameters.
func requestParams(r *http.Request) (map[string]any, error) {
	params := make(map[string]any)
	mergeValues(params, r.URL.Query())

	if r.Body == nil || r.Body == http.NoBody {
		return params, nil
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return params, nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid content type: %w", ErrMalformedRequest, err)
	}

	switch mediaType {
	case "application/json":
		body, err := readBody(r)
		if err != nil {
			return nil, err
		}
		if len(strings.TrimSpace(string(body))) == 0 {
			return params, nil
		}
		var fields map[string]any
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil, fmt.Errorf("%w: invalid JSON body: %w", ErrMalformedRequest, err)
		}
		for key, value := range fields {
			params[key] = value
		}

	case "application/x-www-form-urlencoded":
		// Read directly: ParseForm ignores the body of GET and DELETE requests.
		body, err := readBody(r)
		if err != nil {
			return nil, err
		}
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid form body: %w", ErrMalformedRequest, err)
		}
		mergeValues(params, values)

	case "multipart/form-data":
		r.Body = http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
		if err := r.ParseMultipartForm(MaxBodyBytes); err != nil {
			return nil, fmt.Errorf("%w: invalid multipart body: %w", ErrMalformedRequest, err)
		}
		mergeValues(params, r.MultipartForm.Value)
	}

	return params, nil
}

// readBody reads the whole body, failing rather than truncating when it is
// larger than MaxBodyBytes.
func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrMalformedRequest, tooLarge.Limit)
		}
		return nil, fmt.Errorf("%w: failed to read body: %w", ErrMalformedRequest, err)
	}
	return body, nil
}

func mergeValues(params map[string]any, values map[string][]string) {
	for key, vals := range values {
		if len(vals) > 0 {
			params[key] = vals[len(vals)-1]
		}
	}
}
