package services

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// SMSSender delivers text messages.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

type TwilioService struct {
	client *twilio.RestClient
	from   string
	logger *zap.Logger
}

// NewTwilioService creates a new Twilio service instance
func NewTwilioService(accountSID, authToken, from string, logger *zap.Logger) (*TwilioService, error) {
	if accountSID == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("missing Twilio credentials")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioService{client: client, from: from, logger: logger}, nil
}

// SendSMS sends a plain SMS via Twilio. The REST client does not take a
// context, so ctx only guards against sending after cancellation.
func (t *TwilioService) SendSMS(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(to)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		t.logger.Error("failed to send sms", zap.String("to", to), zap.Error(err))
		return err
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	t.logger.Info("sms sent", zap.String("sid", sid))
	return nil
}

var _ SMSSender = (*TwilioService)(nil)
