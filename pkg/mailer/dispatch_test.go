package mailer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	tpl "github.com/oksasatya/booking-api/pkg/mailer/templates"
)

type captured struct {
	to, subject, text, html string
}

type fakeSender struct {
	sent []captured
	err  error
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, captured{to, subject, text, html})
	return nil
}

func TestDeliverTemplate(t *testing.T) {
	at := time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)
	job := EmailJob{
		To:       "jane@example.com",
		Template: tpl.Welcome,
		Data:     tpl.ToMap(tpl.NewEmailData("Booking", "Jane", "jane@example.com", at)),
	}
	s := &fakeSender{}
	require.NoError(t, Deliver(context.Background(), s, job))
	require.Len(t, s.sent, 1)
	require.Equal(t, "jane@example.com", s.sent[0].to)
	require.Equal(t, "Booking: welcome aboard, Jane", s.sent[0].subject)
	require.Contains(t, s.sent[0].text, "04 March 2025, 10:30 UTC")
	require.Contains(t, s.sent[0].html, "<strong>jane@example.com</strong>")
}

func TestDeliverRawAndErrors(t *testing.T) {
	s := &fakeSender{}
	require.NoError(t, Deliver(context.Background(), s, EmailJob{To: "a@example.com", Subject: "Hi", Text: "body"}))
	require.Equal(t, "Hi", s.sent[0].subject)

	require.ErrorIs(t, Deliver(context.Background(), s, EmailJob{To: "a@example.com"}), ErrEmptyJob)
	require.Error(t, Deliver(context.Background(), s, EmailJob{Subject: "x", Text: "y"}))
	require.Error(t, Deliver(context.Background(), s, EmailJob{To: "a@example.com", Template: "missing"}))

	s.err = errors.New("mailgun down")
	require.EqualError(t, Deliver(context.Background(), s, EmailJob{To: "a@example.com", Subject: "Hi", Text: "b"}), "mailgun down")
}

func TestMailgunRequiresConfig(t *testing.T) {
	err := NewMailgun("", "", "").Send(context.Background(), "a@example.com", "s", "t", "")
	require.ErrorIs(t, err, ErrMailgunNotConfigured)
	require.Nil(t, NewMailgun("", "", "x").WithAPIBase("http://ignored").client)
}

func TestMailgunSendsThroughAPIBase(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/messages") {
			_ = r.ParseMultipartForm(1 << 20)
			got = r.PostForm
			if r.MultipartForm != nil {
				got = r.MultipartForm.Value
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"<1@mg.example.com>","message":"Queued. Thank you."}`))
	}))
	defer srv.Close()

	m := NewMailgun("mg.example.com", "key", "Booking <no-reply@example.com>").WithAPIBase(srv.URL + "/v3")
	require.NoError(t, m.Send(context.Background(), "jane@example.com", "Hi", "plain", "<p>html</p>"))
	require.Equal(t, []string{"jane@example.com"}, got["to"])
	require.Equal(t, []string{"Hi"}, got["subject"])
	require.Equal(t, []string{"<p>html</p>"}, got["html"])
}
