package framehub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestValidate(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/validateMessage", r.URL.Path)
		assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))
		gotBody, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"valid": true,
			"message": map[string]any{
				"data": map[string]any{
					"fid": 42,
					"frameActionBody": map[string]any{
						"buttonIndex":   1,
						"inputText":     base64.StdEncoding.EncodeToString([]byte("0.02")),
						"transactionId": base64.StdEncoding.EncodeToString([]byte{0xab, 0xcd}),
						"address":       base64.StdEncoding.EncodeToString([]byte{0x12, 0x34}),
					},
				},
			},
		})
	}))
	defer srv.Close()

	v := NewValidator(srv.URL, time.Second, zap.NewNop())
	action, err := v.Validate(context.Background(), "0a0b")
	require.NoError(t, err)

	assert.Equal(t, []byte{0x0a, 0x0b}, gotBody)
	assert.Equal(t, &Action{
		FID:           42,
		ButtonIndex:   1,
		InputText:     "0.02",
		TransactionID: "0xabcd",
		Address:       "0x1234",
	}, action)
}

func TestValidate_Invalid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"valid":false}`))
	}))
	defer srv.Close()

	v := NewValidator(srv.URL, time.Second, zap.NewNop())
	_, err := v.Validate(context.Background(), "0x0a")
	assert.ErrorIs(t, err, ErrInvalidMessage)

	_, err = v.Validate(context.Background(), "zz")
	assert.ErrorIs(t, err, ErrInvalidMessage)
}

func TestValidate_Disabled(t *testing.T) {
	v := NewValidator("", 0, zap.NewNop())
	assert.Nil(t, v)
	_, err := v.Validate(context.Background(), "0x0a")
	assert.ErrorIs(t, err, ErrDisabled)
}
