package dtos

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/justsurfingit/jobhunter/internal/apperrors"
	"github.com/justsurfingit/jobhunter/internal/models"
)

var validate = newValidator()

// Enum validators accept the empty string; emptiness is the job of the
// "required" tag.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	enums := map[string]func(string) bool{
		"status":     func(s string) bool { return models.Status(s).Valid() },
		"track":      func(s string) bool { return models.Track(s).Valid() },
		"employment": func(s string) bool { return models.EmploymentType(s).Valid() },
		"workmodel":  func(s string) bool { return models.WorkModel(s).Valid() },
		"seniority":  func(s string) bool { return models.Seniority(s).Valid() },
		"priority":   func(s string) bool { return models.Priority(s).Valid() },
		"isodate":    models.ValidDate,
	}
	for tag, ok := range enums {
		ok := ok
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || ok(s)
		}); err != nil {
			panic(err)
		}
	}
	return v
}

var enumChoices = map[string]string{
	"status":     joinEnum(models.Statuses),
	"track":      joinEnum(models.Tracks),
	"employment": joinEnum(models.EmploymentTypes),
	"workmodel":  joinEnum(models.WorkModels),
	"seniority":  joinEnum(models.Seniorities),
	"priority":   joinEnum(models.Priorities),
}

func joinEnum[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// Struct validates any request DTO and converts validator failures into an
// *apperrors.ValidationError carrying one entry per violated field.
func Struct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &apperrors.ValidationError{}
	for _, fe := range verrs {
		out.Add(fieldPath(fe.Namespace()), fieldMessage(fe))
	}
	return out
}

// fieldPath turns "ImportRequest.jobs[0].JobCreationRequest.title" into
// "jobs[0].title": the root struct and embedded struct names are dropped.
func fieldPath(namespace string) string {
	segments := strings.Split(namespace, ".")
	kept := segments[:0]
	for i, seg := range segments {
		if i == 0 || seg == "" || unicode.IsUpper(rune(seg[0])) {
			continue
		}
		kept = append(kept, seg)
	}
	return strings.Join(kept, ".")
}

func fieldMessage(fe validator.FieldError) string {
	if choices, ok := enumChoices[fe.Tag()]; ok {
		return "must be one of: " + choices
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "isodate":
		return "must be an ISO-8601 date or timestamp"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Param() == "1" {
			return "is required"
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "url":
		return "must be a valid URL"
	}
	return "is invalid"
}

// ValidateCreate checks a creation payload and fills its defaults: date falls
// back to now's calendar date, priority to P2, lists to empty.
func ValidateCreate(req *JobCreationRequest, now time.Time) error {
	req.normalize()
	if err := Struct(req); err != nil {
		return err
	}
	if req.Date == "" {
		req.Date = now.Format(models.DateLayout)
	}
	if req.Priority == "" {
		req.Priority = models.DefaultPriority
	}
	req.fillLists()
	return nil
}

// ValidatePatch applies the creation rules to the fields present in the patch.
func ValidatePatch(req *JobPatchRequest) error {
	req.normalize()
	return Struct(req)
}

// ValidateImport validates every record of an import; the error lists the
// violations of all records, each prefixed with its index.
func ValidateImport(req *ImportRequest, now time.Time) error {
	for i := range req.Jobs {
		req.Jobs[i].normalize()
	}
	if err := Struct(req); err != nil {
		return err
	}
	for i := range req.Jobs {
		if err := ValidateCreate(&req.Jobs[i].JobCreationRequest, now); err != nil {
			return err
		}
	}
	return nil
}

// trimmed returns a trimmed copy so the caller's string is never written.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
