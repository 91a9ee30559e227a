package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"
)

// PostmarkSender delivers through the Postmark API. Replies go to the
// support address.
type PostmarkSender struct {
	client  *postmark.Client
	from    string
	replyTo string
}

// NewPostmarkClient reports every missing or malformed setting at once.
func NewPostmarkClient(cfg Config) (*PostmarkSender, error) {
	var problems []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Errorf(format, args...))
		}
	}
	check(cfg.PostmarkServerToken != "", "POSTMARK_SERVER_TOKEN is required")
	check(cfg.PostmarkAccountToken != "", "POSTMARK_ACCOUNT_TOKEN is required")
	for name, addr := range map[string]string{"SENDER_EMAIL": cfg.SenderEmail, "SUPPORT_EMAIL": cfg.SupportEmail} {
		check(emailRegex.MatchString(addr), "%s %q is not a valid address", name, addr)
	}
	if len(problems) > 0 {
		return nil, errors.Join(append([]error{ErrInvalidConfig}, problems...)...)
	}

	return &PostmarkSender{
		client:  postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		from:    cfg.SenderEmail,
		replyTo: cfg.SupportEmail,
	}, nil
}

func (s *PostmarkSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:       s.from,
		ReplyTo:    s.replyTo,
		To:         params.SendTo,
		Subject:    params.Subject,
		Tag:        params.Tag,
		HTMLBody:   params.BodyHTML,
		TextBody:   params.BodyText,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	})
	switch {
	case err != nil:
		return errors.Join(ErrFailedToSendEmail, err)
	case resp.ErrorCode != 0:
		return fmt.Errorf("%w: postmark code %d: %s", ErrFailedToSendEmail, resp.ErrorCode, resp.Message)
	}
	return nil
}
