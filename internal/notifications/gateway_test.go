package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"bailemos/internal/models"
	"bailemos/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPush struct {
	mu     sync.Mutex
	tokens []string
	msgs   []PushMessage
	err    error
}

func (p *recordingPush) Enabled() bool { return true }

func (p *recordingPush) Send(_ context.Context, token string, msg PushMessage) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return false, p.err
	}
	if token == "" {
		return false, nil
	}
	p.tokens = append(p.tokens, token)
	p.msgs = append(p.msgs, msg)
	return true, nil
}

type panickingPush struct{}

func (panickingPush) Enabled() bool { return true }
func (panickingPush) Send(context.Context, string, PushMessage) (bool, error) {
	panic("push sdk exploded")
}

type recordingEmail struct {
	mu   sync.Mutex
	msgs []EmailMessage
	err  error
	wait bool
}

func (e *recordingEmail) Enabled() bool { return true }

func (e *recordingEmail) Send(ctx context.Context, msg EmailMessage) (bool, error) {
	if e.wait {
		<-ctx.Done()
		return false, ctx.Err()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return false, e.err
	}
	e.msgs = append(e.msgs, msg)
	return true, nil
}

type fakeArtifacts struct {
	link    *string
	content []byte
}

func (f fakeArtifacts) ResolveURL(storage.Ref) *string { return f.link }
func (f fakeArtifacts) Open(string) ([]byte, error) {
	if f.content == nil {
		return nil, errors.New("missing")
	}
	return f.content, nil
}

var (
	academyContact = models.Contact{UserID: "academy-1", Name: "Salsa Club", Email: "club@example.com", DeviceToken: "academy-device"}
	applicant      = Applicant{EnrollmentID: "e-1", FullName: "Ana Ruiz", Email: "ana@example.com", Phone: "+34600000000", IDNumber: "X1234567"}
)

func TestGateway_NotifyNewEnrollment_AllChannels(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sub := rdb.Subscribe(context.Background(), UserChannel("academy-1"))
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)

	push := &recordingPush{}
	email := &recordingEmail{}
	link := "https://api.example.com/uploads/enrollments/e-1.png"
	gw := NewGateway(push, email, NewNotifier(rdb), fakeArtifacts{link: &link, content: []byte("png")}, time.Second)
	gw.SetVoucherAttachments(func(string) bool { return true })

	d := gw.NotifyNewEnrollment(context.Background(), academyContact, applicant, storage.Ref{Path: "uploads/enrollments/e-1.png"})
	assert.Equal(t, Delivery{Push: true, Email: true, Realtime: true}, d)

	require.Len(t, push.msgs, 1)
	assert.Equal(t, "New enrollment", push.msgs[0].Title)
	assert.Equal(t, "e-1", push.msgs[0].Data["enrollmentId"])

	require.Len(t, email.msgs, 1)
	assert.Equal(t, "New enrollment – Ana Ruiz", email.msgs[0].Subject)
	assert.Contains(t, email.msgs[0].Text, link)
	require.Len(t, email.msgs[0].Attachments, 1)
	assert.Equal(t, "e-1.png", email.msgs[0].Attachments[0].Filename)

	msg, err := sub.ReceiveMessage(context.Background())
	require.NoError(t, err)
	var ev Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
	assert.Equal(t, EventEnrollmentCreated, ev.Type)
}

func TestGateway_NotifyNewEnrollment_PlaceholderWithoutVoucher(t *testing.T) {
	email := &recordingEmail{}
	gw := NewGateway(nil, email, nil, fakeArtifacts{}, time.Second)

	d := gw.NotifyNewEnrollment(context.Background(), academyContact, applicant, storage.Ref{})
	assert.Equal(t, Delivery{Email: true}, d)
	require.Len(t, email.msgs, 1)
	assert.Contains(t, email.msgs[0].Text, "Voucher: "+NoVoucherText)
	assert.Empty(t, email.msgs[0].Attachments)
}

func TestGateway_ChannelFailuresAreIsolated(t *testing.T) {
	push := &recordingPush{err: errors.New("fcm down")}
	email := &recordingEmail{}
	gw := NewGateway(push, email, nil, fakeArtifacts{}, time.Second)

	d := gw.NotifyDecision(context.Background(), models.Contact{UserID: "u-1", Email: "ana@example.com", DeviceToken: "t"}, "Salsa Club", true)
	assert.False(t, d.Push)
	assert.True(t, d.Email)
	require.Len(t, email.msgs, 1)
	assert.Equal(t, "Enrollment approved – Salsa Club", email.msgs[0].Subject)
}

func TestGateway_PanickingChannelReportsNotSent(t *testing.T) {
	email := &recordingEmail{}
	gw := NewGateway(panickingPush{}, email, nil, fakeArtifacts{}, time.Second)

	var d Delivery
	require.NotPanics(t, func() {
		d = gw.NotifyDecision(context.Background(), models.Contact{UserID: "u-1", Email: "ana@example.com", DeviceToken: "t"}, "Salsa Club", true)
	})
	assert.False(t, d.Push)
	assert.True(t, d.Email)
	require.Len(t, email.msgs, 1)
}

func TestGateway_StalledChannelIsBounded(t *testing.T) {
	push := &recordingPush{}
	gw := NewGateway(push, &recordingEmail{wait: true}, nil, fakeArtifacts{}, 30*time.Millisecond)

	start := time.Now()
	d := gw.NotifyDecision(context.Background(), models.Contact{Email: "ana@example.com", DeviceToken: "t"}, "Salsa Club", false)
	assert.Less(t, time.Since(start), time.Second)
	assert.True(t, d.Push)
	assert.False(t, d.Email)
	require.Len(t, push.msgs, 1)
	assert.Equal(t, "Enrollment not approved", push.msgs[0].Title)
	assert.Equal(t, "rejected", push.msgs[0].Data["status"])
}

func TestGateway_DisabledChannelsReportFalse(t *testing.T) {
	gw := NewGateway(nil, nil, nil, nil, 0)
	d := gw.NotifyNewEnrollment(context.Background(), academyContact, applicant, storage.Ref{})
	assert.Equal(t, Delivery{}, d)
}
