package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// payloadValidate is shared by the API client and the mock API.
var payloadValidate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a payload against its `validate` tags and returns a single
// readable error naming every failing field.
func Validate(v any) error {
	err := payloadValidate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", jsonFieldName(fe.Field())))
		default:
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", jsonFieldName(fe.Field()), fe.Tag(), fe.Param()))
		}
	}
	return errors.New("invalid payload: " + strings.Join(parts, "; "))
}

func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	switch field {
	case "MenuID":
		return "menuId"
	case "ParentID":
		return "parentId"
	}
	return strings.ToLower(field[:1]) + field[1:]
}
