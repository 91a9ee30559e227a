// Package email sends transactional messages.
//
// EmailSender is implemented by a Postmark client for production and by
// DevSender, which writes each message to disk for local development.
// NewSender chooses between them based on Config.
//
//	sender, err := email.NewSender(cfg)
//	if err != nil {
//		return err
//	}
//	err = sender.SendEmail(ctx, email.SendEmailParams{
//		SendTo:   "guest@example.com",
//		Subject:  "Your booking is confirmed",
//		BodyHTML: html,
//		BodyText: text,
//		Tag:      "booking",
//	})
//
// Parameter validation failures wrap ErrInvalidParams; transport failures
// wrap ErrFailedToSendEmail.
package email
