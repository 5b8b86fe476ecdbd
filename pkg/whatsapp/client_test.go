package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	c := NewClient("http://gateway", "", "", "")

	tests := []struct {
		in   string
		want string
	}{
		{"040 123 4567", "358401234567"},
		{"+358 40 123 4567", "358401234567"},
		{"00358401234567", "358401234567"},
		{"358401234567", "358401234567"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.NormalizePhone(tt.in), tt.in)
	}
}

func TestSendMessage(t *testing.T) {
	var got SendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/device1/send/message", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "user", user)
		assert.Equal(t, "secret", pass)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"success":true,"message":"ok","data":{"message_id":"m1","status":"sent"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "user", "secret", "/device1/")
	resp, err := c.SendMessage(context.Background(), "040 123 4567", "hello")
	require.NoError(t, err)
	assert.Equal(t, "m1", resp.Data.MessageID)
	assert.Equal(t, "358401234567@s.whatsapp.net", got.Phone)
	assert.Equal(t, "hello", got.Message)
}

func TestSendMessageRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"not on whatsapp"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "", "", "").SendTextMessage(context.Background(), "0401234567", "hi")
	assert.ErrorContains(t, err, "not on whatsapp")
}

func TestSendMessageHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "", "", "").SendTextMessage(context.Background(), "0401234567", "hi")
	assert.ErrorContains(t, err, "502")
}

func TestSendMessageInvalidPhone(t *testing.T) {
	err := NewClient("http://gateway", "", "", "").SendTextMessage(context.Background(), "n/a", "hi")
	assert.Error(t, err)
}
