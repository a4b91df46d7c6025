package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ArionMiles/spendlens/pkg/api"
)

// Fields lists the validated fields in report order.
var Fields = []api.Field{api.FieldDescription, api.FieldAmount, api.FieldCategory, api.FieldDate}

// Report maps each validated field to its error messages. An empty slice
// means the field is valid.
type Report struct {
	Errors map[string][]string
}

// Valid reports whether every field passed.
func (r Report) Valid() bool {
	for _, errs := range r.Errors {
		if len(errs) > 0 {
			return false
		}
	}
	return true
}

// FieldErrors returns the messages for field, or nil.
func (r Report) FieldErrors(field api.Field) []string {
	return r.Errors[string(field)]
}

// Err folds the report into a single error, or returns nil when valid.
func (r Report) Err() error {
	if r.Valid() {
		return nil
	}
	return &Error{Report: r}
}

// MarshalJSON writes {"isValid": bool, "errors": {...}}.
func (r Report) MarshalJSON() ([]byte, error) {
	errs := r.Errors
	if errs == nil {
		errs = map[string][]string{}
	}
	return json.Marshal(struct {
		IsValid bool                `json:"isValid"`
		Errors  map[string][]string `json:"errors"`
	}{IsValid: r.Valid(), Errors: errs})
}

// Error is returned by Report.Err.
type Error struct {
	Report Report
}

func (e *Error) Error() string {
	var parts []string
	for _, f := range Fields {
		for _, msg := range e.Report.FieldErrors(f) {
			parts = append(parts, fmt.Sprintf("%s: %s", f, msg))
		}
	}
	return "invalid transaction: " + strings.Join(parts, "; ")
}
