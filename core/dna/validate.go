package dna

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Violation is one failed structural constraint: the JSON path of the
// offending field and a human-readable reason. The reasons are written for a
// model to self-correct against, so they state the constraint, not Go
// internals.
type Violation struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

func (v Violation) String() string {
	if v.Path == "" {
		return v.Reason
	}
	return v.Path + ": " + v.Reason
}

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

var schemaValidator = newSchemaValidator()

func newSchemaValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report paths by json tag so violations match the document the model
	// actually emitted.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// 6-digit hex only; the stock hexcolor tag also accepts #abc.
	_ = v.RegisterValidation("hexcolor6", func(fl validator.FieldLevel) bool {
		return hexColorPattern.MatchString(fl.Field().String())
	})

	return v
}

// Validate decides membership of d in the DNA type. It returns nil when the
// document satisfies every constraint, otherwise one Violation per violated
// constraint, all of them rather than just the first. Side-effect-free.
func Validate(d *DNA) []Violation {
	if d == nil {
		return []Violation{{Path: "", Reason: "document is missing"}}
	}

	err := schemaValidator.Struct(d)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []Violation{{Path: "", Reason: err.Error()}}
	}

	violations := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, Violation{
			Path:   fieldPath(fe),
			Reason: reasonFor(fe),
		})
	}
	return violations
}

// fieldPath converts the validator namespace ("DNA.content.data[0].value")
// into the document-relative path ("content.data[0].value").
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s character(s)", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s character(s)", fe.Param())
	case "url":
		return "must be a valid URL"
	case "hexcolor6":
		return "must be a 6-digit hex color like #1a1a2e"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return fmt.Sprintf("failed constraint %q", fe.Tag())
	}
}
