package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// TwilioClient sends SMS through Twilio's messaging API.
type TwilioClient struct {
	api  messageCreator
	from string
}

func NewTwilioClient(accountSID, authToken, from string) *TwilioClient {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioClient{api: client.Api, from: from}
}

// SendSMS texts body to every number in to. The first failure stops the loop.
func (c *TwilioClient) SendSMS(ctx context.Context, body string, to []string) error {
	for _, number := range to {
		if err := ctx.Err(); err != nil {
			return err
		}

		params := &openapi.CreateMessageParams{}
		params.SetTo(number)
		params.SetFrom(c.from)
		params.SetBody(body)

		msg, err := c.api.CreateMessage(params)
		if err != nil {
			return fmt.Errorf("twilio send to %s: %w", number, err)
		}
		if msg != nil && msg.Sid != nil {
			log.Info().Str("messageSid", *msg.Sid).Msg("Successfully sent SMS via Twilio")
		}
	}
	return nil
}
