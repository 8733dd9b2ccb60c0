// Package i18n resolves localized, parameterized messages ("patient.notfound"
// with the offending id) against the caller's locale.
package i18n

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/fr"
	ut "github.com/go-playground/universal-translator"
)

// Message keys used by the services.
const (
	KeyPatientNotFound = "patient.notfound"
	KeyMedecinNotFound = "medecin.notfound"
	KeyRdvNotFound     = "rdv.notfound"
	KeyInvalidRequest  = "request.invalid"
)

// Resolver turns a key and positional parameters into a message for locale.
type Resolver interface {
	Resolve(locale, key string, params ...interface{}) string
}

var messages = map[string]map[string]string{
	"fr": {
		KeyPatientNotFound: "Le patient avec l'identifiant {0} est introuvable",
		KeyMedecinNotFound: "Le médecin avec l'identifiant {0} est introuvable",
		KeyRdvNotFound:     "Le rendez-vous avec l'identifiant {0} est introuvable",
		KeyInvalidRequest:  "La requête est invalide",

		"validation.nom.required":           "Le nom est obligatoire",
		"validation.prenom.required":        "Le prenom est obligatoire",
		"validation.dateNaissance.required": "La date de naissance est obligatoire",
		"validation.sexe.required":          "Le sexe est obligatoire",
		"validation.adresse.required":       "L'adresse est obligatoire",
		"validation.telephone.required":     "Le telephone est obligatoire",
		"validation.email.required":         "L'email est obligatoire",
		"validation.email.email":            "L'email est invalide",
		"validation.specialite.required":    "La specialite est obligatoire",
		"validation.lieuTravail.required":   "Le lieu de travail est obligatoire",
		"validation.patientId.required":     "L'identifiant du patient est obligatoire",
		"validation.medecinId.required":     "L'identifiant du médecin est obligatoire",
		"validation.date.required":          "La date du rendez-vous est obligatoire",
	},
	"en": {
		KeyPatientNotFound: "Patient with id {0} not found",
		KeyMedecinNotFound: "Doctor with id {0} not found",
		KeyRdvNotFound:     "Appointment with id {0} not found",
		KeyInvalidRequest:  "The request is invalid",

		"validation.nom.required":           "Last name is required",
		"validation.prenom.required":        "First name is required",
		"validation.dateNaissance.required": "Birth date is required",
		"validation.sexe.required":          "Sex is required",
		"validation.adresse.required":       "Address is required",
		"validation.telephone.required":     "Phone number is required",
		"validation.email.required":         "Email is required",
		"validation.email.email":            "Email is invalid",
		"validation.specialite.required":    "Specialty is required",
		"validation.lieuTravail.required":   "Work location is required",
		"validation.patientId.required":     "Patient id is required",
		"validation.medecinId.required":     "Doctor id is required",
		"validation.date.required":          "Appointment date is required",
	},
}

// Catalog is a Resolver backed by go-playground universal translators.
type Catalog struct {
	uni           *ut.UniversalTranslator
	defaultLocale string
}

// NewCatalog loads the French and English messages. Unknown locales resolve
// against defaultLocale.
func NewCatalog(defaultLocale string) (*Catalog, error) {
	frLocale := fr.New()
	uni := ut.New(frLocale, frLocale, en.New())

	for locale, entries := range messages {
		trans, ok := uni.GetTranslator(locale)
		if !ok {
			return nil, fmt.Errorf("no translator for locale %q", locale)
		}
		for key, text := range entries {
			if err := trans.Add(key, text, false); err != nil {
				return nil, fmt.Errorf("add %s/%s: %w", locale, key, err)
			}
		}
	}

	if _, ok := uni.GetTranslator(defaultLocale); !ok {
		return nil, fmt.Errorf("unsupported default locale %q", defaultLocale)
	}
	return &Catalog{uni: uni, defaultLocale: defaultLocale}, nil
}

// Translator returns the translator for locale, falling back to the default.
func (c *Catalog) Translator(locale string) ut.Translator {
	if trans, ok := c.uni.GetTranslator(locale); ok {
		return trans
	}
	trans, _ := c.uni.GetTranslator(c.defaultLocale)
	return trans
}

// DefaultLocale is the locale used when the caller expresses no preference.
func (c *Catalog) DefaultLocale() string {
	return c.defaultLocale
}

// Has reports whether key is defined for locale.
func (c *Catalog) Has(locale, key string) bool {
	_, ok := messages[c.Translator(locale).Locale()][key]
	return ok
}

// Resolve returns the message for key with params substituted positionally
// ({0}, {1}, ...). An unknown key resolves to the key itself.
func (c *Catalog) Resolve(locale, key string, params ...interface{}) string {
	trans := c.Translator(locale)
	text, ok := messages[trans.Locale()][key]
	if !ok {
		return key
	}
	// T indexes params by placeholder, so never hand it fewer than the text uses.
	args := make([]string, max(len(params), strings.Count(text, "{")))
	for i, p := range params {
		args[i] = formatParam(p)
	}
	msg, err := trans.T(key, args...)
	if err != nil {
		return key
	}
	return msg
}

func formatParam(p interface{}) string {
	switch v := p.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
