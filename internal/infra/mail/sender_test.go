package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func settings() Settings {
	return Settings{
		Host:     "smtp.example.com",
		Port:     587,
		From:     "crm@example.com",
		NotifyTo: "owner@example.com",
	}
}

func int64p(v int64) *int64 { return &v }

func TestNotifyDealClosed(t *testing.T) {
	d := &fakeDialer{}
	s := NewEmailSender(settings(), zaptest.NewLogger(t)).WithDialer(d)

	err := s.NotifyDealClosed(context.Background(), entity.PipelineEvent{
		Type:       entity.EventDealStageChanged,
		DealID:     int64p(42),
		Stage:      entity.StageCompleted,
		OccurredAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	m := d.sent[0]
	assert.Equal(t, []string{"crm@example.com"}, m.GetHeader("From"))
	assert.Equal(t, []string{"owner@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Deal #42 Completed"}, m.GetHeader("Subject"))

	var raw bytes.Buffer
	_, err = m.WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), "completed")
}

func TestNotifyConnectionOnboarded(t *testing.T) {
	d := &fakeDialer{}
	s := NewEmailSender(settings(), zaptest.NewLogger(t)).WithDialer(d)

	err := s.NotifyConnectionOnboarded(context.Background(), entity.PipelineEvent{
		Type:         entity.EventDealConverted,
		DealID:       int64p(3),
		ConnectionID: int64p(9),
		Name:         "Acme",
	})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)
	assert.Equal(t, []string{"New connection: Acme"}, d.sent[0].GetHeader("Subject"))
}

func TestSend_DisabledWithoutHost(t *testing.T) {
	s := NewEmailSender(Settings{NotifyTo: "owner@example.com"}, zaptest.NewLogger(t))
	assert.False(t, s.Enabled())

	err := s.NotifyConnectionOnboarded(context.Background(), entity.PipelineEvent{Name: "Acme"})
	assert.NoError(t, err)
}

func TestSend_DisabledWithoutRecipient(t *testing.T) {
	d := &fakeDialer{}
	cfg := settings()
	cfg.NotifyTo = ""
	s := NewEmailSender(cfg, zaptest.NewLogger(t)).WithDialer(d)

	require.NoError(t, s.NotifyDealClosed(context.Background(), entity.PipelineEvent{Stage: entity.StageUnsuccessful}))
	assert.Empty(t, d.sent)
}

func TestSend_DialError(t *testing.T) {
	boom := errors.New("connection refused")
	s := NewEmailSender(settings(), zaptest.NewLogger(t)).WithDialer(&fakeDialer{err: boom})

	err := s.NotifyDealClosed(context.Background(), entity.PipelineEvent{Stage: entity.StageCompleted})
	assert.ErrorIs(t, err, boom)
}

func TestSend_CanceledContext(t *testing.T) {
	d := &fakeDialer{}
	s := NewEmailSender(settings(), zaptest.NewLogger(t)).WithDialer(d)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.NotifyDealClosed(ctx, entity.PipelineEvent{Stage: entity.StageCompleted})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, d.sent)
}

func TestDealClosedData(t *testing.T) {
	won := dealClosedData(entity.PipelineEvent{DealID: int64p(1), Stage: entity.StageCompleted})
	assert.True(t, won.Won)
	assert.Equal(t, "1", won.DealID)

	lost := dealClosedData(entity.PipelineEvent{Stage: entity.StageUnsuccessful})
	assert.False(t, lost.Won)
	assert.Empty(t, lost.DealID)
}
