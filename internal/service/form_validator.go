package service

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

const (
	filledTag       = "filled"
	minCharsTag     = "min_chars"
	studentEmailTag = "student_email"
)

// emailSpace is the browser's whitespace class, which is wider than RE2's ASCII \s.
const emailSpace = `\s\v\x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}`

var studentEmailRegex = regexp.MustCompile(`^[^` + emailSpace + `@]+@[^` + emailSpace + `@]+\.[^` + emailSpace + `@]+$`)

// fieldLabels are the human names used in form messages, keyed by JSON field name.
var fieldLabels = map[string]string{
	"name":           "Name",
	"email":          "Email",
	"role":           "Role",
	"region":         "Region",
	"avatar":         "Avatar",
	"enrollmentDate": "Enrollment date",
}

// profileFields is the validated subset of a student draft.
type profileFields struct {
	Name   string `json:"name" validate:"filled,min_chars=3"`
	Email  string `json:"email" validate:"filled,student_email"`
	Region string `json:"region" validate:"filled"`
	Role   string `json:"role" validate:"filled"`
}

// FormValidator validates student drafts and renders field messages in English.
type FormValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewFormValidator registers the form's custom tags and messages on validate (a fresh one when nil).
func NewFormValidator(validate *validator.Validate) (*FormValidator, error) {
	if validate == nil {
		validate = validator.New()
	}
	locale := en.New()
	uni := ut.New(locale, locale)
	translator, _ := uni.GetTranslator("en")

	if err := enTranslations.RegisterDefaultTranslations(validate, translator); err != nil {
		return nil, err
	}
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := validate.RegisterValidation(filledTag, filledValidation); err != nil {
		return nil, err
	}
	if err := validate.RegisterValidation(minCharsTag, minCharsValidation); err != nil {
		return nil, err
	}
	if err := validate.RegisterValidation(studentEmailTag, studentEmailValidation); err != nil {
		return nil, err
	}

	messages := map[string]string{
		filledTag:       "{0} is required",
		minCharsTag:     "{0} must be at least {1} characters",
		studentEmailTag: "Invalid email",
	}
	for tag, text := range messages {
		if err := registerTranslation(validate, translator, tag, text); err != nil {
			return nil, err
		}
	}

	return &FormValidator{validate: validate, translator: translator}, nil
}

// Validate returns one message per failing field; an empty map means the draft is valid.
func (v *FormValidator) Validate(fields profileFields) (map[string]string, error) {
	errs := make(map[string]string)
	err := v.validate.Struct(fields)
	if err == nil {
		return errs, nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil, err
	}
	for _, fe := range ve {
		if _, seen := errs[fe.Field()]; seen {
			continue
		}
		errs[fe.Field()] = fe.Translate(v.translator)
	}
	return errs, nil
}

// ValidateEmail reports whether value is an address the form accepts.
func ValidateEmail(value string) bool {
	return studentEmailRegex.MatchString(value)
}

func registerTranslation(validate *validator.Validate, translator ut.Translator, tag, text string) error {
	return validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, err := t.T(tag, label(fe.Field()), fe.Param())
			if err != nil {
				return fe.Error()
			}
			return s
		},
	)
}

func label(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}

// filledValidation rejects empty and whitespace-only strings.
func filledValidation(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func studentEmailValidation(fl validator.FieldLevel) bool {
	return ValidateEmail(fl.Field().String())
}

// minCharsValidation measures length in UTF-16 code units, the way the browser form counts.
func minCharsValidation(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(utf16.Encode([]rune(fl.Field().String()))) >= limit
}
