package email_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bookspace/pkg/email"
)

func postmarkConfig() email.Config {
	return email.Config{
		PostmarkServerToken:  "server-token",
		PostmarkAccountToken: "account-token",
		SenderEmail:          "bookings@example.com",
		SupportEmail:         "help@example.com",
	}
}

func TestNewPostmarkClient(t *testing.T) {
	t.Parallel()

	sender, err := email.NewPostmarkClient(postmarkConfig())
	require.NoError(t, err)
	assert.NotNil(t, sender)

	_, err = email.NewPostmarkClient(email.Config{SenderEmail: "nope"})
	require.ErrorIs(t, err, email.ErrInvalidConfig)
	for _, want := range []string{"POSTMARK_SERVER_TOKEN", "POSTMARK_ACCOUNT_TOKEN", `SENDER_EMAIL "nope"`, "SUPPORT_EMAIL"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestPostmarkSender_RejectsInvalidParams(t *testing.T) {
	t.Parallel()

	sender, err := email.NewPostmarkClient(postmarkConfig())
	require.NoError(t, err)

	err = sender.SendEmail(context.Background(), email.SendEmailParams{SendTo: "not-an-address", Subject: "x", BodyHTML: "x"})
	assert.ErrorIs(t, err, email.ErrInvalidParams)
}
