package helpers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/booking-api/pkg/mailer"
)

func TestLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "booking-api", "production")
	require.Equal(t, logrus.InfoLevel, l.GetLevel())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "booking-api", entry["app"])

	buf.Reset()
	LogError(l, "boom", errors.New("cause"), logrus.Fields{"user_id": 7})
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "cause", entry["error"])
	require.Equal(t, "error", entry["level"])

	dev := newLogger(&buf, "booking-api", "development")
	require.Equal(t, logrus.DebugLevel, dev.GetLevel())

	LogError(nil, "ignored", nil, nil)
	LogInfo(nil, "ignored", nil)
}

func TestCookiePairAndClear(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	m := NewCookie("example.com", true)
	m.SetPair(c, "a", time.Now().Add(time.Minute), "r", time.Now().Add(time.Hour))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)
	require.Equal(t, AccessCookie, cookies[0].Name)
	require.True(t, cookies[0].HttpOnly)
	require.True(t, cookies[0].Secure)
	require.Equal(t, RefreshCookie, cookies[1].Name)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	m.Clear(c)
	for _, ck := range w.Result().Cookies() {
		require.Empty(t, ck.Value)
		require.Less(t, ck.MaxAge, 0)
	}
	require.Equal(t, 0, maxAgeFrom(time.Now().Add(-time.Hour)))
}

func TestEmailJobDefaults(t *testing.T) {
	job := &mailer.EmailJob{To: "a@example.com", Data: map[string]any{"CompanyName": "Set"}}
	EnsureRecipientAndEmail(job)
	ApplyDefaults(job, map[string]string{"CompanyName": "Acme", "SupportURL": "https://help", "LoginURL": ""})
	require.Equal(t, "a@example.com", job.Data["Email"])
	require.Equal(t, "Set", job.Data["CompanyName"])
	require.Equal(t, "https://help", job.Data["SupportURL"])
	require.NotContains(t, job.Data, "LoginURL")

	empty := &mailer.EmailJob{To: "b@example.com"}
	ApplyDefaults(empty, map[string]string{"AppName": "Booking"})
	require.Equal(t, "Booking", empty.Data["AppName"])
	require.True(t, strings.HasSuffix(empty.To, "example.com"))
}

func TestJSONPublishing(t *testing.T) {
	msg, err := jsonPublishing(mailer.EmailJob{To: "a@example.com", Template: "welcome"})
	require.NoError(t, err)
	require.Equal(t, "application/json", msg.ContentType)
	require.Equal(t, "email.welcome", msg.Type)
	require.NotEmpty(t, msg.MessageId)
	require.JSONEq(t, `{"to":"a@example.com","template":"welcome"}`, string(msg.Body))

	msg, err = jsonPublishing(map[string]int{"n": 1})
	require.NoError(t, err)
	require.Empty(t, msg.Type)

	_, err = jsonPublishing(func() {})
	require.Error(t, err)
}
