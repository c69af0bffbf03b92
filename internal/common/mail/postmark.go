package mail

import (
	"context"
	"fmt"

	"github.com/keighl/postmark"
)

type postmarkAPI interface {
	SendEmail(email postmark.Email) (postmark.EmailResponse, error)
}

type PostmarkSender struct {
	client postmarkAPI
	from   string
}

func NewPostmarkSender(serverToken, from string) *PostmarkSender {
	return &PostmarkSender{client: postmark.NewClient(serverToken, ""), from: from}
}

func (s *PostmarkSender) Name() string { return "postmark" }

// Send ignores ctx once the request starts; the postmark client has no context support.
func (s *PostmarkSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	resp, err := s.client.SendEmail(postmark.Email{
		From:     fromOr(msg, s.from),
		To:       msg.To,
		Subject:  msg.Subject,
		HtmlBody: msg.HTML,
		TextBody: msg.Text,
	})
	if err != nil {
		return fmt.Errorf("postmark send failed: %w", err)
	}
	if resp.ErrorCode != 0 {
		return fmt.Errorf("postmark rejected message: %d %s", resp.ErrorCode, resp.Message)
	}
	return nil
}
