package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/preventia/duerp-crm/internal/entity"
	"github.com/rs/zerolog/log"
)

// FunctionClient invoque la fonction HTTP d'envoi transactionnel,
// authentifiée par la clé anonyme publiée.
type FunctionClient struct {
	httpClient *resty.Client
}

func NewFunctionClient(baseURL, anonKey string) (*FunctionClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("mail function URL cannot be empty")
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(anonKey).
		SetTimeout(10 * time.Second)

	log.Info().Str("baseURL", baseURL).Msg("Mail function client configured")

	return &FunctionClient{httpClient: client}, nil
}

func (c *FunctionClient) Send(ctx context.Context, client *entity.Client, tpl *entity.EmailTemplate) error {
	req := FunctionRequest{ClientID: client.ID, TemplateKey: tpl.Key}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&FunctionResponse{}).
		Post("")

	if err != nil {
		return fmt.Errorf("invocation de la fonction mail en échec: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("fonction mail: status %s, body: %s", resp.Status(), resp.String())
	}

	result := resp.Result().(*FunctionResponse)
	if !result.Success {
		return fmt.Errorf("fonction mail: refus pour %s: %s", result.Recipient, result.Error)
	}

	log.Info().Str("recipient", result.Recipient).Str("template", tpl.Key).Msg("Email envoyé via la fonction hébergée")
	return nil
}
