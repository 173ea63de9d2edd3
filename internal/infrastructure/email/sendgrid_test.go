package email

import (
	"context"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent     []*mail.SGMailV3
	response *rest.Response
	err      error
}

func (f *fakeSender) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, email)
	return f.response, f.err
}

func TestSendGridMailer_Send(t *testing.T) {
	fake := &fakeSender{response: &rest.Response{StatusCode: 202}}
	m := &SendGridMailer{fromEmail: "no-reply@helperhive.app", fromName: "HelperHive", client: fake}

	err := m.Send(context.Background(), "sara@example.test", "Reset your password", "plain", "<p>html</p>")
	require.NoError(t, err)

	require.Len(t, fake.sent, 1)
	msg := fake.sent[0]
	assert.Equal(t, "Reset your password", msg.Subject)
	assert.Equal(t, "no-reply@helperhive.app", msg.From.Address)
	assert.Equal(t, "sara@example.test", msg.Personalizations[0].To[0].Address)
	assert.Len(t, msg.Content, 2)
}

func TestSendGridMailer_RejectedStatus(t *testing.T) {
	fake := &fakeSender{response: &rest.Response{StatusCode: 401, Body: "unauthorized"}}
	m := &SendGridMailer{client: fake}

	err := m.Send(context.Background(), "sara@example.test", "s", "p", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
