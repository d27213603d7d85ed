package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/LuisIslasAcosta/apiVini/pkg/errx"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

var sesErrors = errx.NewRegistry("NOTIFY")

var CodeSendFailed = sesErrors.Register("SEND_FAILED", errx.TypeExternal, http.StatusBadGateway, "Notification delivery failed")

// SESNotifier delivers welcome mails through AWS SES.
type SESNotifier struct {
	client *ses.Client
	sender string
}

func NewSESNotifier(client *ses.Client, sender string) *SESNotifier {
	return &SESNotifier{client: client, sender: sender}
}

func (n *SESNotifier) SendWelcome(ctx context.Context, email, nombre string) error {
	subject := "Bienvenido a apiVini"
	body := fmt.Sprintf("Hola %s,\n\nTu cuenta fue registrada exitosamente.\n", nombre)

	input := &ses.SendEmailInput{
		Source: aws.String(n.sender),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(body),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	if _, err := n.client.SendEmail(ctx, input); err != nil {
		return sesErrors.NewWithCause(CodeSendFailed, err).WithDetail("to", email)
	}
	return nil
}

var _ Notifier = (*SESNotifier)(nil)
