package service

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nareo/internal/logger"
	"nareo/internal/models"
)

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestEmailServiceDisabled(t *testing.T) {
	svc, err := NewEmailService(context.Background(), "eu-west-1", "", "Nareo", "https://app", logger.NewNop())
	require.NoError(t, err)
	assert.False(t, svc.IsEnabled())

	err = svc.SendStreakReminder(context.Background(), models.Profile{UserID: "u", Email: "a@b.c"}, models.StreakResult{}, 10)
	assert.NoError(t, err)
}

func TestSendStreakReminder(t *testing.T) {
	ses := &fakeSES{}
	svc := newEmailService(ses, "hello@nareo.app", "Nareo", "https://app.nareo", logger.NewNop())

	p := models.Profile{UserID: "user-1", Email: "ada@example.com"}
	st := models.StreakResult{CurrentStreak: 12, FreezesAvailable: 1, AtRisk: true}
	require.NoError(t, svc.SendStreakReminder(context.Background(), p, st, 7.5))

	require.NotNil(t, ses.input)
	assert.Equal(t, "Nareo <hello@nareo.app>", aws.ToString(ses.input.FromEmailAddress))
	assert.Equal(t, []string{"ada@example.com"}, ses.input.Destination.ToAddresses)
	assert.Equal(t, "Your 12-day streak ends tonight", aws.ToString(ses.input.Content.Simple.Subject.Data))
	assert.Contains(t, aws.ToString(ses.input.Content.Simple.Body.Text.Data), "About 8 more activity units")
	assert.Contains(t, aws.ToString(ses.input.Content.Simple.Body.Html.Data), "https://app.nareo/review")
}

func TestSendStreakReminderError(t *testing.T) {
	svc := newEmailService(&fakeSES{err: errors.New("throttled")}, "hello@nareo.app", "", "https://app", logger.NewNop())
	err := svc.SendStreakReminder(context.Background(), models.Profile{Email: "a@b.c"}, models.StreakResult{CurrentStreak: 2}, 1)
	assert.ErrorContains(t, err, "throttled")
}
