package validators

import (
	"edhub/middleware"
	courseModels "edhub/models/course"
	stderrors "errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

const (
	categoryTag      = "category"
	levelTag         = "level"
	lessonTypeTag    = "lesson_type"
	codeLanguageTag  = "code_language"
	correctOptionTag = "correct_option"
	requiredTag      = "required"
	requiredText     = "{0} is required"
)

func init() {
	english := en.New()
	translator, _ = ut.New(english, english).GetTranslator("en")
	validate = validator.New()
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON (or query string) tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})

	registerEnum(categoryTag, courseModels.Categories, "{0} must be one of: "+strings.Join(courseModels.Categories, ", "))
	registerEnum(levelTag, courseModels.Levels, "{0} must be one of: "+strings.Join(courseModels.Levels, ", "))
	registerEnum(lessonTypeTag, courseModels.LessonTypes, "{0} must be one of: "+strings.Join(courseModels.LessonTypes, ", "))
	registerEnum(codeLanguageTag, courseModels.CodeLanguages, "{0} must be one of: "+strings.Join(courseModels.CodeLanguages, ", "))
	RegisterCustomTranslation(requiredTag, requiredText, true)

	// The field must index into the sibling Options slice
	_ = validate.RegisterValidation(correctOptionTag, func(fl validator.FieldLevel) bool {
		opts := reflect.Indirect(fl.Parent()).FieldByName("Options")
		if !opts.IsValid() || opts.Kind() != reflect.Slice {
			return false
		}
		return fl.Field().Int() < int64(opts.Len())
	})
	RegisterCustomTranslation(correctOptionTag, "{0} must be the index of one of the options")
}

func registerEnum(tag string, values []string, text string) {
	allowed := make(map[string]struct{}, len(values))
	for _, v := range values {
		allowed[v] = struct{}{}
	}
	_ = validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		_, ok := allowed[fl.Field().String()]
		return ok
	})
	RegisterCustomTranslation(tag, text)
}

// RegisterCustomTranslation registers the English message of a validation tag
func RegisterCustomTranslation(tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Struct validates v and returns the translated message of each failing field keyed by its JSON path
func Struct(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return map[string]string{"body": err.Error()}
	}
	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[jsonPath(fe.Namespace())] = fe.Translate(translator)
	}
	return out
}

// jsonPath drops the root struct name from a validator namespace
func jsonPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// ParseBody parses the JSON body into req and validates it, writing the error response itself.
// It reports whether the handler chain may continue.
func ParseBody(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if errs := Struct(req); len(errs) > 0 {
		return false, middleware.ValidationErrorResponse(c, errs)
	}
	return true, nil
}

// IDParam validates a positive numeric route parameter and stores it in the context under the same name
func IDParam(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Params(name))
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+name+"!", nil)
		}
		c.Locals(name, uint(id))
		return c.Next()
	}
}
