package mail

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/preventia/duerp-crm/internal/entity"
	"gopkg.in/gomail.v2"
)

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

// Render instancie sujet et corps d'un template avec les champs du client
// ({{.Prenom}}, {{.CompanyName}}, ...).
func Render(tpl *entity.EmailTemplate, client *entity.Client) (subject, body string, err error) {
	subject, err = renderOne("subject", tpl.Subject, client)
	if err != nil {
		return "", "", err
	}
	body, err = renderOne("body", tpl.Body, client)
	if err != nil {
		return "", "", err
	}
	return subject, body, nil
}

func renderOne(name, text string, client *entity.Client) (string, error) {
	t, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("template %s invalide: %w", name, err)
	}

	var out bytes.Buffer
	if err := t.Execute(&out, client); err != nil {
		return "", fmt.Errorf("rendu du template %s: %w", name, err)
	}
	return out.String(), nil
}

// Send envoie via SMTP direct; c'est le chemin de repli quand aucune
// fonction d'envoi hébergée n'est configurée.
func (s *EmailSender) Send(ctx context.Context, client *entity.Client, tpl *entity.EmailTemplate) error {
	subject, body, err := Render(tpl, client)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", client.Email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("envoi SMTP en échec: %w", err)
	}

	return nil
}
