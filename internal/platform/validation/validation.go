// Package validation checks request DTOs with go-playground/validator and
// renders field errors in the caller's language.
package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	fr_translations "github.com/go-playground/validator/v10/translations/fr"

	"github.com/isi/clinic/internal/platform/apperr"
	"github.com/isi/clinic/internal/platform/i18n"
	"github.com/isi/clinic/pkg/localtime"
)

// Validator validates structs and translates failures through the catalog.
type Validator struct {
	validate *validator.Validate
	catalog  *i18n.Catalog
}

func New(catalog *i18n.Catalog) (*Validator, error) {
	v := validator.New()

	// Report fields by their JSON name so messages match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		switch d := field.Interface().(type) {
		case localtime.Date:
			return d.Time
		case localtime.DateTime:
			return d.Time
		}
		return nil
	}, localtime.Date{}, localtime.DateTime{})

	if err := fr_translations.RegisterDefaultTranslations(v, catalog.Translator("fr")); err != nil {
		return nil, fmt.Errorf("register fr translations: %w", err)
	}
	if err := en_translations.RegisterDefaultTranslations(v, catalog.Translator("en")); err != nil {
		return nil, fmt.Errorf("register en translations: %w", err)
	}

	return &Validator{validate: v, catalog: catalog}, nil
}

// Validate satisfies echo.Validator. Messages use the catalog's default locale.
func (v *Validator) Validate(i interface{}) error {
	return v.ValidateCtx(context.Background(), i)
}

// ValidateCtx validates i and returns an *apperr.ValidationError whose
// messages are in the locale carried by ctx.
func (v *Validator) ValidateCtx(ctx context.Context, i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate %T: %w", i, err)
	}

	locale := i18n.LocaleFromContext(ctx)
	if locale == "" {
		locale = v.catalog.DefaultLocale()
	}
	trans := v.catalog.Translator(locale)

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		key := fmt.Sprintf("validation.%s.%s", fe.Field(), fe.Tag())
		if v.catalog.Has(locale, key) {
			fields[fe.Field()] = v.catalog.Resolve(locale, key)
			continue
		}
		fields[fe.Field()] = fe.Translate(trans)
	}

	return &apperr.ValidationError{
		Message: v.catalog.Resolve(locale, i18n.KeyInvalidRequest),
		Fields:  fields,
	}
}
