package mail

// FunctionResponse est la réponse de la fonction d'envoi hébergée.
type FunctionResponse struct {
	Success   bool   `json:"success"`
	Recipient string `json:"recipient"`
	Error     string `json:"error,omitempty"`
}

// FunctionRequest est le contrat d'invocation: l'id du client et la clé
// du template, le rendu étant fait côté fonction.
type FunctionRequest struct {
	ClientID    int64  `json:"clientId"`
	TemplateKey string `json:"templateKey"`
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
