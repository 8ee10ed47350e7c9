package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return New(srv.URL, 5*time.Second), srv
}

func TestClient_Login(t *testing.T) {
	client, srv := testClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "jdoe", body["username"])

		json.NewEncoder(w).Encode(LoginResult{
			Token: "upstream-token",
			User:  User{ID: "u1", Username: "jdoe", RoleName: "agent", CommissionTypeID: "ct-1"},
		})
	})
	defer srv.Close()

	result, err := client.Login(context.Background(), "jdoe", "secret")
	require.NoError(t, err)
	assert.Equal(t, "upstream-token", result.Token)
	assert.Equal(t, "ct-1", result.User.CommissionTypeID)
}

func TestClient_AttachesBearerToken(t *testing.T) {
	client, srv := testClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	})
	defer srv.Close()

	_, err := client.Filters(context.Background(), "tok-123", "developers")
	assert.NoError(t, err)
}

func TestClient_CreateDeal(t *testing.T) {
	client, srv := testClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/deals", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": "deal-9", "statusId": "s1"}`))
	})
	defer srv.Close()

	record, err := client.CreateDeal(context.Background(), "tok", &DealPayload{AgentID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "deal-9", record.ID)
	assert.Equal(t, "s1", record.Fields["statusId"])
}

func TestClient_DealRecordNumericID(t *testing.T) {
	var record DealRecord
	require.NoError(t, json.Unmarshal([]byte(`{"id": 42}`), &record))
	assert.Equal(t, "42", record.ID)
}

func TestClient_ErrorMessagePrecedence(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"message first", `{"message": "from message", "error": "from error", "detail": "from detail"}`, "from message"},
		{"error second", `{"error": "from error", "detail": "from detail"}`, "from error"},
		{"detail third", `{"detail": "from detail"}`, "from detail"},
		{"raw body fallback", `plain text failure`, "plain text failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, srv := testClient(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tt.body))
			})
			defer srv.Close()

			_, err := client.GetDeal(context.Background(), "tok", "d1")
			require.Error(t, err)

			apiErr, ok := err.(*APIError)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
			assert.Equal(t, tt.expected, apiErr.Message)
		})
	}
}

func TestClient_IsUnauthorized(t *testing.T) {
	client, srv := testClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "token expired"}`))
	})
	defer srv.Close()

	_, err := client.GetDeal(context.Background(), "tok", "d1")
	assert.True(t, IsUnauthorized(err))
}

func TestClient_ListDealsForwardsParams(t *testing.T) {
	client, srv := testClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "s1", r.URL.Query().Get("statusId"))
		w.Write([]byte(`[{"id": "d1"}]`))
	})
	defer srv.Close()

	params := url.Values{}
	params.Set("statusId", "s1")
	deals, err := client.ListDeals(context.Background(), "tok", params)
	require.NoError(t, err)
	assert.Len(t, deals, 1)
}
