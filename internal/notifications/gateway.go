package notifications

import (
	"context"
	"fmt"
	"path"
	"runtime/debug"
	"sync"
	"time"

	"bailemos/internal/middleware"
	"bailemos/internal/models"
	"bailemos/internal/observability"
	"bailemos/internal/storage"
)

const (
	EventEnrollmentCreated  = "enrollment.created"
	EventEnrollmentDecision = "enrollment.decision"

	channelPush     = "push"
	channelEmail    = "email"
	channelRealtime = "realtime"

	// NoVoucherText stands in for the voucher link when nothing was attached.
	NoVoucherText = "No voucher attached"

	defaultNotifyTimeout = 10 * time.Second
)

// Applicant is the summary of an enrollment sent to the academy.
type Applicant struct {
	EnrollmentID string `json:"enrollmentId"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	IDNumber     string `json:"idNumber"`
}

// Delivery reports which channels accepted a notification.
type Delivery struct {
	Push     bool
	Email    bool
	Realtime bool
}

// ArtifactSource resolves and reads stored vouchers.
type ArtifactSource interface {
	ResolveURL(ref storage.Ref) *string
	Open(ref string) ([]byte, error)
}

// Gateway fans an enrollment event out to every configured channel. Channel
// failures are logged and reported as false; they never reach the caller.
type Gateway struct {
	push      PushSender
	email     EmailSender
	realtime  *Notifier
	artifacts ArtifactSource
	timeout   time.Duration

	attachVouchers func(academyID string) bool
}

// NewGateway wires the channels. Nil senders are treated as disabled.
func NewGateway(push PushSender, email EmailSender, realtime *Notifier, artifacts ArtifactSource, timeout time.Duration) *Gateway {
	if push == nil {
		push = disabledPush{}
	}
	if email == nil {
		email = disabledEmail{}
	}
	if timeout <= 0 {
		timeout = defaultNotifyTimeout
	}
	return &Gateway{
		push:      push,
		email:     email,
		realtime:  realtime,
		artifacts: artifacts,
		timeout:   timeout,
	}
}

// SetVoucherAttachments makes the academy email carry the stored voucher file
// whenever enabled returns true for the receiving academy.
func (g *Gateway) SetVoucherAttachments(enabled func(academyID string) bool) {
	g.attachVouchers = enabled
}

// NotifyNewEnrollment alerts the academy about a new application.
func (g *Gateway) NotifyNewEnrollment(ctx context.Context, academy models.Contact, a Applicant, voucher storage.Ref) Delivery {
	ctx, span := observability.StartServiceSpan(ctx, "notifications", "NotifyNewEnrollment")
	defer span.End()

	link := NoVoucherText
	if g.artifacts != nil {
		if resolved := g.artifacts.ResolveURL(voucher); resolved != nil {
			link = *resolved
		}
	}

	msg := newEnrollmentEmail(academy.Email, a, link)
	if voucher.Path != "" && g.attachVouchers != nil && g.attachVouchers(academy.UserID) && g.artifacts != nil {
		if content, err := g.artifacts.Open(voucher.Path); err == nil {
			msg.Attachments = []Attachment{{Filename: path.Base(voucher.Path), Content: content}}
		} else {
			middleware.Logger.WarnContext(ctx, "voucher attachment skipped", "enrollment_id", a.EnrollmentID, "error", err)
		}
	}

	push := PushMessage{
		Title: defaultPushTitle,
		Body:  a.FullName + " wants to join " + academy.Name,
		Data: map[string]string{
			"type":         EventEnrollmentCreated,
			"enrollmentId": a.EnrollmentID,
		},
	}
	event := Event{Type: EventEnrollmentCreated, Payload: a}

	return g.fanOut(ctx, EventEnrollmentCreated, academy, push, msg, event)
}

// NotifyDecision tells the applicant whether the academy accepted them.
func (g *Gateway) NotifyDecision(ctx context.Context, applicant models.Contact, academyName string, approved bool) Delivery {
	ctx, span := observability.StartServiceSpan(ctx, "notifications", "NotifyDecision")
	defer span.End()

	status := models.EnrollmentStatusRejected
	title := "Enrollment not approved"
	body := "Your enrollment at " + academyName + " was not approved."
	if approved {
		status = models.EnrollmentStatusApproved
		title = "Enrollment approved"
		body = "Your enrollment at " + academyName + " has been approved."
	}

	push := PushMessage{
		Title: title,
		Body:  body,
		Data: map[string]string{
			"type":   EventEnrollmentDecision,
			"status": string(status),
		},
	}
	event := Event{Type: EventEnrollmentDecision, Payload: map[string]string{
		"academyName": academyName,
		"status":      string(status),
	}}

	return g.fanOut(ctx, EventEnrollmentDecision, applicant, push, decisionEmail(applicant.Email, academyName, approved), event)
}

// fanOut attempts each channel once, concurrently, each bounded by the
// gateway timeout.
func (g *Gateway) fanOut(ctx context.Context, eventName string, to models.Contact, push PushMessage, mail EmailMessage, event Event) Delivery {
	var (
		wg sync.WaitGroup
		d  Delivery
	)

	attempt := func(channel string, out *bool, send func(context.Context) (bool, error)) {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("channel panicked: %v", r)
				observability.RecordDelivery(channel, eventName, false, err)
				middleware.Logger.ErrorContext(ctx, "notification channel panicked",
					"channel", channel, "event", eventName, "user_id", to.UserID,
					"panic", r, "stack", string(debug.Stack()))
			}
		}()
		cctx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()

		sent, err := send(cctx)
		observability.RecordDelivery(channel, eventName, sent, err)
		if err != nil {
			middleware.Logger.WarnContext(ctx, "notification delivery failed",
				"channel", channel, "event", eventName, "user_id", to.UserID, "error", err)
			return
		}
		*out = sent
	}

	wg.Add(3)
	go attempt(channelPush, &d.Push, func(c context.Context) (bool, error) {
		return g.push.Send(c, to.DeviceToken, push)
	})
	go attempt(channelEmail, &d.Email, func(c context.Context) (bool, error) {
		return g.email.Send(c, mail)
	})
	go attempt(channelRealtime, &d.Realtime, func(c context.Context) (bool, error) {
		if !g.realtime.Enabled() || to.UserID == "" {
			return false, nil
		}
		if err := g.realtime.PublishEvent(c, to.UserID, event); err != nil {
			return false, err
		}
		return true, nil
	})
	wg.Wait()

	middleware.Logger.InfoContext(ctx, "notification fan-out finished",
		"event", eventName, "user_id", to.UserID, "push", d.Push, "email", d.Email, "realtime", d.Realtime)
	return d
}
