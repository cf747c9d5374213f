package channels

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/findin/findin-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmailSenderSelectsNoopWithoutHost(t *testing.T) {
	cfg := &config.Config{}
	assert.IsType(t, Noop{}, NewEmailSender(cfg))

	cfg = &config.Config{SMTPHost: "smtp.example.com", SMTPPort: "465", SMTPUser: "alerts@example.com"}
	assert.IsType(t, &SMTPSender{}, NewEmailSender(cfg))
}

func TestNewSMSSenderSelectsNoopWithoutGateway(t *testing.T) {
	cfg := &config.Config{}
	assert.IsType(t, Noop{}, NewSMSSender(cfg))

	cfg = &config.Config{SMSGatewayURL: "https://gateway.example.com/send", SMSAPIKey: "key"}
	assert.IsType(t, &SMSSender{}, NewSMSSender(cfg))
}

func TestEmailSenderDefaultsFromToUser(t *testing.T) {
	cfg := &config.Config{SMTPHost: "smtp.example.com", SMTPPort: "465", SMTPUser: "alerts@example.com"}
	sender := NewEmailSender(cfg).(*SMTPSender)
	assert.Equal(t, "alerts@example.com", sender.from)
}

func TestSMSSenderPostsGatewayForm(t *testing.T) {
	var gotForm map[string]string
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotKey = r.Header.Get("apikey")
		gotForm = map[string]string{
			"senderid": r.PostFormValue("senderid"),
			"msgType":  r.PostFormValue("msgType"),
			"msg":      r.PostFormValue("msg"),
			"mobile":   r.PostFormValue("mobile"),
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sender := NewSMSSender(&config.Config{
		SMSGatewayURL: srv.URL,
		SMSAPIKey:     "secret",
		SMSSenderID:   "FINDIN",
	})
	err := sender.Send(context.Background(), "+15550100", "", "Search radius expanded")
	require.NoError(t, err)

	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "FINDIN", gotForm["senderid"])
	assert.Equal(t, "text", gotForm["msgType"])
	assert.Equal(t, "Search radius expanded", gotForm["msg"])
	assert.Equal(t, "+15550100", gotForm["mobile"])
}

func TestSMSSenderRejectsGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	sender := NewSMSSender(&config.Config{SMSGatewayURL: srv.URL})
	err := sender.Send(context.Background(), "+15550100", "", "hello")
	assert.ErrorContains(t, err, "status 401")
}
