package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidator makes gin's validator report json/form tag names
// instead of Go field names and adds the email_or_blank rule
func RegisterValidator() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return field.Name
		})
		// email_or_blank: 빈 문자열은 값 삭제로 허용
		_ = v.RegisterValidation("email_or_blank", func(fl validator.FieldLevel) bool {
			value := strings.TrimSpace(fl.Field().String())
			return value == "" || v.Var(value, "email") == nil
		})
	})
}

// FieldErrors converts gin binding errors into a json-field -> message map.
// Non-validation errors (malformed JSON) are reported under "body".
func FieldErrors(err error) map[string]string {
	fields := map[string]string{}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fe := range validationErrs {
			fields[fieldPath(fe)] = fieldMessage(fe)
		}
		return fields
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		fields[typeErr.Field] = "형식이 올바르지 않습니다"
		return fields
	}

	fields["body"] = "요청 본문을 해석할 수 없습니다"
	return fields
}

// fieldPath strips the request struct name: "CreateTagRequest.name" -> "name"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		ns = ns[idx+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "필수 항목입니다"
	case "min":
		return fmt.Sprintf("최소 %s 이상이어야 합니다", fe.Param())
	case "max":
		return fmt.Sprintf("최대 %s 이하여야 합니다", fe.Param())
	case "email", "email_or_blank":
		return "이메일 형식이 올바르지 않습니다"
	case "uuid", "uuid4":
		return "ID 형식이 올바르지 않습니다"
	case "oneof":
		return fmt.Sprintf("%s 중 하나여야 합니다", fe.Param())
	case "eqfield":
		return "값이 일치하지 않습니다"
	}
	return "값이 올바르지 않습니다"
}
