package service

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Mailer delivers one rendered email. Implemented against the external
// transactional-mail provider; faked in tests.
type Mailer interface {
	Send(to, asunto, html string) error
}

// MailerClient HTTP client for the mail provider's send endpoint.
type MailerClient struct {
	httpClient *resty.Client
	from       string
	logger     *zap.Logger
}

type mailSendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type mailSendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func NewMailerClient(baseURL, apiKey, from string, logger *zap.Logger) *MailerClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(apiKey)

	return &MailerClient{httpClient: client, from: from, logger: logger}
}

var _ Mailer = (*MailerClient)(nil)

func (c *MailerClient) Send(to, asunto, html string) error {
	var out mailSendResponse
	resp, err := c.httpClient.R().
		SetBody(mailSendRequest{From: c.from, To: to, Subject: asunto, HTML: html}).
		SetResult(&out).
		Post("/v1/send")
	if err != nil {
		return fmt.Errorf("mail send failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("mail send failed: status %d: %s", resp.StatusCode(), resp.String())
	}
	c.logger.Debug("mail sent", zap.String("to", to), zap.String("provider_id", out.ID))
	return nil
}
