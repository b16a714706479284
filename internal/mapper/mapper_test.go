package mapper

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ns(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func TestMapLeadDefaultsNullFields(t *testing.T) {
	raw := RawRecord{
		ID:        42,
		Email:     ns("contact@entreprise.fr"),
		CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	lead := MapLead(raw)

	assert.Equal(t, int64(42), lead.ID)
	assert.Equal(t, "contact@entreprise.fr", lead.Email)
	assert.Equal(t, "", lead.Phone)
	assert.Equal(t, "", lead.CompanyName)
	assert.Equal(t, "France", lead.Pays)
	assert.False(t, lead.BulkImported)
	assert.Nil(t, lead.StatusID)
	assert.Equal(t, "Aucun statut", lead.StatusLabel)
}

func TestMapLeadNameSplitHeuristic(t *testing.T) {
	raw := RawRecord{ID: 1, FullName: ns("Jean Paul Martin")}

	lead := MapLead(raw)

	assert.Equal(t, "Jean", lead.Prenom)
	assert.Equal(t, "Paul Martin", lead.Nom)
	assert.Equal(t, "Jean Paul Martin", lead.FullName)
}

func TestMapLeadKeepsDiscreteNamesOverFullName(t *testing.T) {
	raw := RawRecord{
		ID:       1,
		FullName: ns("Jean Paul Martin"),
		Prenom:   ns("Jean-Paul"),
		Nom:      ns("Martin"),
	}

	lead := MapLead(raw)

	assert.Equal(t, "Jean-Paul", lead.Prenom)
	assert.Equal(t, "Martin", lead.Nom)
}

func TestMapLeadComposesFullNameWhenAbsent(t *testing.T) {
	raw := RawRecord{ID: 1, Prenom: ns("Claire"), Nom: ns("Dubois")}

	lead := MapLead(raw)

	assert.Equal(t, "Claire Dubois", lead.FullName)
}

func TestMapLeadSingleWordFullName(t *testing.T) {
	raw := RawRecord{ID: 1, FullName: ns("Madonna")}

	lead := MapLead(raw)

	assert.Equal(t, "Madonna", lead.Prenom)
	assert.Equal(t, "", lead.Nom)
}

func TestMapIsIdempotent(t *testing.T) {
	raw := RawRecord{
		ID:       7,
		Email:    ns("x@y.fr"),
		FullName: ns("Anne Sophie Bernard"),
		StatusID: sql.NullInt64{Int64: 3, Valid: true},
		Status: &RawStatus{
			ID:    sql.NullInt64{Int64: 3, Valid: true},
			Name:  ns("Relance"),
			Color: ns("#f59e0b"),
		},
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	first := MapLead(raw)
	second := MapLead(raw)

	assert.Equal(t, first, second)
}

func TestMapClientStatusJoined(t *testing.T) {
	raw := RawRecord{
		ID:       9,
		Email:    ns("c@d.fr"),
		StatusID: sql.NullInt64{Int64: 5, Valid: true},
		Status: &RawStatus{
			ID:    sql.NullInt64{Int64: 5, Valid: true},
			Name:  ns("Signé"),
			Color: ns("#22c55e"),
		},
	}

	c := MapClient(raw)

	if assert.NotNil(t, c.StatusID) {
		assert.Equal(t, int64(5), *c.StatusID)
	}
	assert.Equal(t, "Signé", c.StatusLabel)
	assert.Equal(t, "#22c55e", c.StatusColor)
}

func TestMapClientNullStatusRoundTrip(t *testing.T) {
	raw := RawRecord{ID: 10, Email: ns("c@d.fr")}

	c := MapClient(raw)

	assert.Nil(t, c.StatusID)
	assert.Equal(t, "Aucun statut", c.StatusLabel)
}

func TestMapClientPresenceFields(t *testing.T) {
	seen := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)
	raw := RawRecord{
		ID:             11,
		IsOnline:       sql.NullBool{Bool: true, Valid: true},
		LastConnection: sql.NullTime{Time: seen, Valid: true},
	}

	c := MapClient(raw)

	assert.True(t, c.IsOnline)
	if assert.NotNil(t, c.LastConnection) {
		assert.Equal(t, seen, *c.LastConnection)
	}
}
