package dto

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"
)

type RegisterForm struct {
	Username  string `form:"username" validate:"required,max=20,username"`
	Password  string `form:"password" validate:"required,password"`
	Email     string `form:"email" validate:"required,email,max=50"`
	FirstName string `form:"first_name" validate:"required,max=30"`
	LastName  string `form:"last_name" validate:"required,max=30"`
}

func (f *RegisterForm) normalize() {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
}

type LoginForm struct {
	Username string `form:"username" validate:"required,max=20"`
	Password string `form:"password" validate:"required"`
}

func (f *LoginForm) normalize() { f.Username = strings.TrimSpace(f.Username) }

type FeedbackForm struct {
	Title   string `form:"title" validate:"required,max=100"`
	Content string `form:"content" validate:"required"`
}

func (f *FeedbackForm) normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Content = strings.TrimSpace(f.Content)
}

// FieldErrors maps a form field name to a human readable message. The empty
// key holds errors that belong to the form as a whole.
type FieldErrors map[string]string

func (fe FieldErrors) Add(field, msg string) FieldErrors {
	fe[field] = msg
	return fe
}

var (
	decoder  = form.NewDecoder()
	validate = newValidator()

	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("form")
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	})
	return v
}

type normalizer interface{ normalize() }

// Decode parses the request form into dst and validates it. A non-nil
// FieldErrors means the input was rejected; err is reserved for requests
// that could not be read at all.
func Decode(r *http.Request, dst normalizer) (FieldErrors, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	if err := decoder.Decode(dst, r.PostForm); err != nil {
		return nil, fmt.Errorf("decode form: %w", err)
	}
	return Check(dst), nil
}

// Check trims dst the way form input is trimmed and validates it. It serves
// input that does not arrive as an HTTP form.
func Check(dst normalizer) FieldErrors {
	dst.normalize()
	return Validate(dst)
}

// Validate runs the struct's validate tags and returns nil when it passes.
func Validate(v any) FieldErrors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"": err.Error()}
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	case "email":
		return "Invalid email address."
	case "username":
		return "Only letters, digits, '.', '_' and '-' are allowed."
	case "password":
		return fmt.Sprintf("Must be at most %d bytes.", MaxPasswordBytes)
	default:
		return "Invalid value."
	}
}
