package validator

import (
	"reflect"
	"strings"
	"time"

	"hospital-management/pkg/idgen"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()

	// Report fields by their JSON name so clients can map errors back to inputs.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("hms_id", validateHMSID)
	v.RegisterValidation("dept_code", validateDeptCode)
	v.RegisterValidation("date_ymd", validateDate)
	v.RegisterValidation("clock", validateClock)

	return &CustomValidator{
		validator: v,
	}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// ValidateVar validates a single value against a tag, e.g. ("PAT-202506-001", "hms_id=patient").
func (cv *CustomValidator) ValidateVar(value interface{}, tag string) error {
	return cv.validator.Var(value, tag)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = field + " is required"
			case "email":
				errors[field] = field + " must be a valid email address"
			case "min":
				errors[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				errors[field] = field + " must be at most " + e.Param() + " characters"
			case "len":
				errors[field] = field + " must be exactly " + e.Param() + " characters"
			case "gte":
				errors[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				errors[field] = field + " must be less than or equal to " + e.Param()
			case "gt":
				errors[field] = field + " must be greater than " + e.Param()
			case "oneof":
				errors[field] = field + " must be one of [" + e.Param() + "]"
			case "hms_id":
				errors[field] = field + " must be a valid " + strings.ReplaceAll(e.Param(), "_", " ") + " ID"
			case "dept_code":
				errors[field] = field + " must be 2-6 uppercase letters"
			case "date_ymd":
				errors[field] = field + " must be a date in YYYY-MM-DD format"
			case "clock":
				errors[field] = field + " must be a time in HH:MM format"
			case "uuid", "uuid4":
				errors[field] = field + " must be a valid UUID"
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}

func validateHMSID(fl validator.FieldLevel) bool {
	kind, ok := idgen.ParseKind(fl.Param())
	if !ok {
		return false
	}
	return idgen.Validate(kind, fl.Field().String())
}

func validateDeptCode(fl validator.FieldLevel) bool {
	return idgen.IsDepartmentCode(fl.Field().String())
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

func validateClock(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if len(value) != 5 {
		return false
	}
	_, err := time.Parse("15:04", value)
	return err == nil
}
