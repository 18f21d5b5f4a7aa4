// Package email sends transactional mail through Amazon SES.
package email

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Sender sends password-reset emails through SES. The reset link is
// built from the configured base URL plus the signed token.
type Sender struct {
	client       *ses.Client
	senderAddr   string
	resetURLBase string
}

// NewSender builds an SES client. When accessKey and secretKey are set
// they are used as static credentials; otherwise the default AWS
// credential chain applies.
func NewSender(ctx context.Context, region, accessKey, secretKey, senderAddr, resetURLBase string) (*Sender, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	return &Sender{
		client:       ses.NewFromConfig(cfg),
		senderAddr:   senderAddr,
		resetURLBase: resetURLBase,
	}, nil
}

// SendPasswordReset emails a reset link to the recipient.
func (s *Sender) SendPasswordReset(ctx context.Context, recipient, resetToken string) error {
	link := fmt.Sprintf("%s/%s", s.resetURLBase, resetToken)
	body := fmt.Sprintf(
		"We received a request to reset your password.\n\n"+
			"Open the link below to choose a new one. The link expires in 15 minutes.\n\n%s\n\n"+
			"If you did not request a reset, you can ignore this email.", link)

	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(s.senderAddr),
		Destination: &types.Destination{
			ToAddresses: []string{recipient},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String("Password reset request"),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(body),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	return nil
}
