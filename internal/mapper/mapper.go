// Package mapper normalise les lignes brutes du store (snake_case,
// colonnes nullables) vers les records de l'application, tous champs
// défaultés pour que le code appelant n'ait jamais à tester nil.
// Les fonctions sont pures: appliquer deux fois la même ligne donne
// deux records structurellement égaux.
package mapper

import (
	"database/sql"
	"strings"
	"time"

	"github.com/preventia/duerp-crm/internal/entity"
)

const defaultPays = "France"

// RawStatus est la ligne jointe de la table statuses.
type RawStatus struct {
	ID    sql.NullInt64
	Name  sql.NullString
	Color sql.NullString
}

// RawRecord est la forme commune des lignes leads/clients.
type RawRecord struct {
	ID            int64
	Email         sql.NullString
	FullName      sql.NullString
	Prenom        sql.NullString
	Nom           sql.NullString
	Phone         sql.NullString
	Portable      sql.NullString
	CompanyName   sql.NullString
	Siret         sql.NullString
	Activite      sql.NullString
	Adresse       sql.NullString
	Ville         sql.NullString
	CodePostal    sql.NullString
	Pays          sql.NullString
	Vendeur       sql.NullString
	Consultant    sql.NullString
	Source        sql.NullString
	Qualification sql.NullString
	StatusID      sql.NullInt64
	Status        *RawStatus

	ClientPassword       sql.NullString
	ClientAccountCreated sql.NullBool
	BulkImported         sql.NullBool
	IsOnline             sql.NullBool
	LastConnection       sql.NullTime
	CreatedAt            time.Time
}

// MapLead normalise une ligne de la table leads.
func MapLead(raw RawRecord) *entity.Lead {
	prenom, nom, fullName := names(raw)
	statusID, label, color := status(raw)

	return &entity.Lead{
		ID:             raw.ID,
		Email:          str(raw.Email),
		FullName:       fullName,
		Prenom:         prenom,
		Nom:            nom,
		Phone:          str(raw.Phone),
		Portable:       str(raw.Portable),
		CompanyName:    str(raw.CompanyName),
		Siret:          str(raw.Siret),
		Activite:       str(raw.Activite),
		Adresse:        str(raw.Adresse),
		Ville:          str(raw.Ville),
		CodePostal:     str(raw.CodePostal),
		Pays:           pays(raw.Pays),
		Vendeur:        str(raw.Vendeur),
		Consultant:     str(raw.Consultant),
		Source:         str(raw.Source),
		Qualification:  str(raw.Qualification),
		StatusID:       statusID,
		StatusLabel:    label,
		StatusColor:    color,
		ClientPassword: str(raw.ClientPassword),
		BulkImported:   raw.BulkImported.Valid && raw.BulkImported.Bool,
		CreatedAt:      raw.CreatedAt,
	}
}

// MapClient normalise une ligne de la table clients.
func MapClient(raw RawRecord) *entity.Client {
	prenom, nom, fullName := names(raw)
	statusID, label, color := status(raw)

	var lastConn *time.Time
	if raw.LastConnection.Valid {
		t := raw.LastConnection.Time
		lastConn = &t
	}

	return &entity.Client{
		ID:                   raw.ID,
		Email:                str(raw.Email),
		FullName:             fullName,
		Prenom:               prenom,
		Nom:                  nom,
		Phone:                str(raw.Phone),
		Portable:             str(raw.Portable),
		CompanyName:          str(raw.CompanyName),
		Siret:                str(raw.Siret),
		Activite:             str(raw.Activite),
		Adresse:              str(raw.Adresse),
		Ville:                str(raw.Ville),
		CodePostal:           str(raw.CodePostal),
		Pays:                 pays(raw.Pays),
		Vendeur:              str(raw.Vendeur),
		Consultant:           str(raw.Consultant),
		Source:               str(raw.Source),
		Qualification:        str(raw.Qualification),
		StatusID:             statusID,
		StatusLabel:          label,
		StatusColor:          color,
		ClientPassword:       str(raw.ClientPassword),
		ClientAccountCreated: raw.ClientAccountCreated.Valid && raw.ClientAccountCreated.Bool,
		IsOnline:             raw.IsOnline.Valid && raw.IsOnline.Bool,
		LastConnection:       lastConn,
		CreatedAt:            raw.CreatedAt,
	}
}

// names applique l'heuristique de découpage documentée: si prenom/nom
// manquent, le premier mot de full_name devient le prénom et le reste le
// nom. Connu faux pour certains prénoms composés; c'est le contrat des
// données historiques.
func names(raw RawRecord) (prenom, nom, fullName string) {
	prenom = str(raw.Prenom)
	nom = str(raw.Nom)
	fullName = str(raw.FullName)

	if prenom == "" && nom == "" && fullName != "" {
		parts := strings.Fields(fullName)
		if len(parts) > 0 {
			prenom = parts[0]
			nom = strings.Join(parts[1:], " ")
		}
	}

	if fullName == "" {
		fullName = strings.TrimSpace(prenom + " " + nom)
	}

	return prenom, nom, fullName
}

func status(raw RawRecord) (id *int64, label, color string) {
	if !raw.StatusID.Valid {
		return nil, entity.NoStatusLabel, ""
	}

	v := raw.StatusID.Int64
	label = entity.NoStatusLabel
	if raw.Status != nil {
		if raw.Status.Name.Valid && raw.Status.Name.String != "" {
			label = raw.Status.Name.String
		}
		color = str(raw.Status.Color)
	}
	return &v, label, color
}

func str(s sql.NullString) string {
	if s.Valid {
		return s.String
	}
	return ""
}

func pays(s sql.NullString) string {
	if s.Valid && s.String != "" {
		return s.String
	}
	return defaultPays
}
