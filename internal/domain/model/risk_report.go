package model

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// riskReportInput carries the validation rules for a RiskReport.
type riskReportInput struct {
	Title       string   `json:"title" validate:"notblank"`
	Description string   `json:"description" validate:"notblank"`
	Location    string   `json:"location"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags" validate:"dive,notblank"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(fmt.Sprintf("register notblank validation: %v", err))
	}
	return v
}

// RiskReport is an immutable description of a risk situation submitted for
// triage. Instances only come from NewRiskReport, so every non-zero
// RiskReport is valid.
type RiskReport struct {
	title       string
	description string
	location    string
	category    string
	tags        []string
}

// NewRiskReport validates the fields and builds a RiskReport. Location and
// category are free-form and may be empty; no defaults are substituted.
// Tags keep their order and content exactly as given.
func NewRiskReport(title, description, location, category string, tags []string) (RiskReport, error) {
	in := riskReportInput{
		Title:       title,
		Description: description,
		Location:    location,
		Category:    category,
		Tags:        tags,
	}
	if err := validate.Struct(in); err != nil {
		return RiskReport{}, toValidationError(err)
	}

	return RiskReport{
		title:       title,
		description: description,
		location:    location,
		category:    category,
		tags:        slices.Clone(tags),
	}, nil
}

func toValidationError(err error) *ValidationError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Reason: err.Error()}
	}

	fe := fieldErrs[0]
	field := strings.TrimPrefix(fe.Namespace(), "riskReportInput.")
	switch fe.Tag() {
	case "notblank":
		return &ValidationError{Field: field, Reason: "must not be empty"}
	default:
		return &ValidationError{Field: field, Reason: fmt.Sprintf("failed %q rule", fe.Tag())}
	}
}

// --- Accessors ---

func (r RiskReport) Title() string       { return r.title }
func (r RiskReport) Description() string { return r.description }
func (r RiskReport) Location() string    { return r.location }
func (r RiskReport) Category() string    { return r.category }

// Tags returns a copy of the tags in their original order.
func (r RiskReport) Tags() []string {
	return slices.Clone(r.tags)
}

// IsZero returns true for a RiskReport that was not built by NewRiskReport.
func (r RiskReport) IsZero() bool {
	return r.title == "" && r.description == ""
}

// Equal reports whether two reports carry identical field values.
func (r RiskReport) Equal(other RiskReport) bool {
	return r.title == other.title &&
		r.description == other.description &&
		r.location == other.location &&
		r.category == other.category &&
		slices.Equal(r.tags, other.tags)
}
