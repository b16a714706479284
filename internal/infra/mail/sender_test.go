package mail

import (
	"testing"

	"github.com/preventia/duerp-crm/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestRenderSubstitutesClientFields(t *testing.T) {
	tpl := &entity.EmailTemplate{
		Key:     "bienvenue",
		Subject: "Bienvenue {{.Prenom}} !",
		Body:    "<p>Bonjour {{.Prenom}} {{.Nom}}, votre DUERP pour {{.CompanyName}} est prêt.</p>",
	}
	client := &entity.Client{
		Prenom:      "Jean",
		Nom:         "Martin",
		CompanyName: "Boulangerie Martin",
		Email:       "jean@martin.fr",
	}

	subject, body, err := Render(tpl, client)

	assert.NoError(t, err)
	assert.Equal(t, "Bienvenue Jean !", subject)
	assert.Contains(t, body, "Jean Martin")
	assert.Contains(t, body, "Boulangerie Martin")
}

func TestRenderRejectsBrokenTemplate(t *testing.T) {
	tpl := &entity.EmailTemplate{
		Key:     "casse",
		Subject: "{{.Prenom",
		Body:    "ok",
	}

	_, _, err := Render(tpl, &entity.Client{})

	assert.Error(t, err)
}

func TestRenderEmptyFieldsStayEmpty(t *testing.T) {
	tpl := &entity.EmailTemplate{
		Key:     "relance",
		Subject: "Relance {{.CompanyName}}",
		Body:    "Bonjour {{.Prenom}}",
	}

	subject, body, err := Render(tpl, &entity.Client{})

	assert.NoError(t, err)
	assert.Equal(t, "Relance ", subject)
	assert.Equal(t, "Bonjour ", body)
}
