// internal/design/validate.go
package design

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidDesign is matched (via errors.Is) by every SchemaValidationError.
var ErrInvalidDesign = errors.New("invalid design schema")

// Issue is a single field-level validation problem.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SchemaValidationError reports why a raw value is not a valid Design.
type SchemaValidationError struct {
	Issues []Issue
}

func (e *SchemaValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		if is.Field == "" {
			parts = append(parts, is.Message)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", is.Field, is.Message))
	}
	return fmt.Sprintf("%v: %s", ErrInvalidDesign, strings.Join(parts, "; "))
}

func (e *SchemaValidationError) Unwrap() error {
	return ErrInvalidDesign
}

func invalid(field, format string, args ...any) *SchemaValidationError {
	return &SchemaValidationError{Issues: []Issue{{Field: field, Message: fmt.Sprintf(format, args...)}}}
}

// validate is shared; validator.Validate caches struct metadata and is safe
// for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Parse decodes and validates a raw JSON design, applying defaults for
// absent optional fields. Unknown keys inside styles are rejected.
func Parse(raw []byte) (Design, error) {
	var envelope struct {
		Styles     json.RawMessage `json:"styles"`
		Layout     json.RawMessage `json:"layout"`
		Components json.RawMessage `json:"components"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Design{}, invalid("", "malformed design document: %v", err)
	}

	var d Design
	var issues []Issue

	if isAbsent(envelope.Styles) {
		issues = append(issues, Issue{Field: "styles", Message: "is required"})
	} else {
		styles, err := parseStyles(envelope.Styles)
		if err != nil {
			issues = append(issues, Issue{Field: "styles", Message: err.Error()})
		}
		d.Styles = styles
	}

	if isAbsent(envelope.Layout) {
		issues = append(issues, Issue{Field: "layout", Message: "is required"})
	} else {
		layout := Layout{Columns: DefaultColumns}
		if err := json.Unmarshal(envelope.Layout, &layout); err != nil {
			issues = append(issues, Issue{Field: "layout", Message: decodeMessage(err)})
		}
		d.Layout = layout
	}

	if isAbsent(envelope.Components) {
		issues = append(issues, Issue{Field: "components", Message: "is required"})
	} else if err := json.Unmarshal(envelope.Components, &d.Components); err != nil {
		issues = append(issues, Issue{Field: "components", Message: decodeMessage(err)})
	}

	if len(issues) > 0 {
		return Design{}, &SchemaValidationError{Issues: issues}
	}

	applyDefaults(&d)
	if err := Validate(d); err != nil {
		return Design{}, err
	}
	return d, nil
}

// ParseComponent decodes and validates a single component, defaulting props
// to an empty map.
func ParseComponent(raw []byte) (Component, error) {
	var c Component
	if isAbsent(raw) {
		return Component{}, invalid("", "component is required")
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return Component{}, invalid("", "%s", decodeMessage(err))
	}
	if c.Props == nil {
		c.Props = map[string]any{}
	}
	if err := validate.Struct(c); err != nil {
		return Component{}, fromValidator(err, "Component.")
	}
	return c, nil
}

// Validate checks an already-typed Design against every schema invariant.
func Validate(d Design) error {
	if err := validate.Struct(d); err != nil {
		return fromValidator(err, "Design.")
	}

	seen := make(map[string]int, len(d.Components))
	for i, c := range d.Components {
		if prev, dup := seen[c.ID]; dup {
			return invalid(fmt.Sprintf("components[%d].id", i), "duplicate id %q (also at components[%d])", c.ID, prev)
		}
		seen[c.ID] = i
	}
	return nil
}

func parseStyles(raw json.RawMessage) (Styles, error) {
	styles := DefaultStyles()
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&styles); err != nil {
		return styles, errors.New(decodeMessage(err))
	}
	return styles, nil
}

func applyDefaults(d *Design) {
	if d.Layout.Order == nil {
		d.Layout.Order = []string{}
	}
	for i := range d.Components {
		if d.Components[i].Props == nil {
			d.Components[i].Props = map[string]any{}
		}
	}
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func decodeMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("field %q must be %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value)
	}
	return err.Error()
}

// fromValidator converts validator field errors into a SchemaValidationError.
func fromValidator(err error, rootPrefix string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return invalid("", "%v", err)
	}
	out := &SchemaValidationError{Issues: make([]Issue, 0, len(verrs))}
	for _, fe := range verrs {
		out.Issues = append(out.Issues, Issue{
			Field:   strings.TrimPrefix(fe.Namespace(), rootPrefix),
			Message: describe(fe),
		})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %v", fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("must be at least %s, got %v", fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("must be at most %s, got %v", fe.Param(), fe.Value())
	case "max":
		return fmt.Sprintf("must contain at most %s entries", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
