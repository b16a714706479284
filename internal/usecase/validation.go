package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateLeadInput vérifie une fiche lead entrante (formulaire public ou
// création staff). Seul l'email est strictement obligatoire; le reste est
// contrôlé quand renseigné.
func ValidateLeadInput(input LeadInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if input.FullName == "" && input.Prenom == "" && input.Nom == "" {
		errors = append(errors, ValidationError{"full_name", "a name is required"})
	}

	if input.Phone != "" && !isValidPhoneFR(input.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid french phone number"})
	}
	if input.Portable != "" && !isValidPhoneFR(input.Portable) {
		errors = append(errors, ValidationError{"portable", "must be a valid french phone number"})
	}

	if input.Siret != "" && !isValidSiret(input.Siret) {
		errors = append(errors, ValidationError{"siret", "must be a valid 14-digit SIRET"})
	}

	if input.CodePostal != "" && !isValidCodePostal(input.CodePostal) {
		errors = append(errors, ValidationError{"code_postal", "must be a 5-digit postal code"})
	}

	return errors
}

func isValidPhoneFR(phone string) bool {
	cleaned := regexp.MustCompile(`\D`).ReplaceAllString(phone, "")
	// 0X XX XX XX XX ou préfixe +33 déjà déshabillé de ses symboles.
	if strings.HasPrefix(cleaned, "33") {
		cleaned = "0" + cleaned[2:]
	}
	return len(cleaned) == 10 && cleaned[0] == '0'
}

// isValidSiret: 14 chiffres, somme de Luhn valide (règle INSEE).
func isValidSiret(siret string) bool {
	cleaned := regexp.MustCompile(`\D`).ReplaceAllString(siret, "")
	if len(cleaned) != 14 {
		return false
	}
	return luhnCheck(cleaned)
}

func luhnCheck(num string) bool {
	sum := 0
	isEven := false

	for i := len(num) - 1; i >= 0; i-- {
		digit := int(num[i] - '0')

		if isEven {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}

		sum += digit
		isEven = !isEven
	}

	return sum%10 == 0
}

func isValidCodePostal(cp string) bool {
	return regexp.MustCompile(`^\d{5}$`).MatchString(cp)
}
