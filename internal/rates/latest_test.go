package rates_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"regionprice/internal/pricing"
	"regionprice/internal/rates"
)

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestLatest(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock http client
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: the request targets the base currency and carries custom headers
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "http://rates.local/v6/latest/USD", req.URL.String())
			require.Equal(t, "bar", req.Header.Get("foo"))
			return jsonResponse(http.StatusOK, `{"result":"success","base_code":"USD","rates":{"USD":1,"JPY":151.2,"EUR":0.92,"BAD":"x"}}`), nil
		}).
		Times(1)

	client := rates.NewClient(
		rates.WithHTTPClient(httpClient),
		rates.WithBaseURL("http://rates.local/"),
		rates.WithHeader(http.Header{"foo": []string{"bar"}}),
	)

	// Act
	table, err := client.Latest(t.Context(), "usd")

	// Assert
	require.NoError(t, err)
	require.Equal(t, pricing.RateTable{"USD": 1, "JPY": 151.2, "EUR": 0.92}, table)
}

func TestLatest_EmptyBaseURLKeepsDefault(t *testing.T) {
	t.Parallel()

	// Arrange
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "https://open.er-api.com/v6/latest/EUR", req.URL.String())
			return jsonResponse(http.StatusOK, `{"result":"success","rates":{"EUR":1}}`), nil
		})

	// Act
	_, err := rates.NewClient(rates.WithHTTPClient(httpClient), rates.WithBaseURL("")).Latest(t.Context(), "EUR")

	// Assert
	require.NoError(t, err)
}

func TestLatest_Failures(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		res *http.Response
		err error
	}{
		"transport":   {err: errors.New("dial tcp: connection refused")},
		"status":      {res: jsonResponse(http.StatusBadGateway, ``)},
		"rate limit":  {res: jsonResponse(http.StatusTooManyRequests, ``)},
		"not json":    {res: jsonResponse(http.StatusOK, `<html>`)},
		"api error":   {res: jsonResponse(http.StatusOK, `{"result":"error","error-type":"unsupported-code"}`)},
		"empty rates": {res: jsonResponse(http.StatusOK, `{"result":"success","rates":{}}`)},
		"no rates":    {res: jsonResponse(http.StatusOK, `{"result":"success"}`)},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			httpClient := NewMockHTTPClient(ctrl)
			httpClient.EXPECT().Do(gomock.Any()).Return(tc.res, tc.err).Times(1)

			_, err := rates.NewClient(rates.WithHTTPClient(httpClient)).Latest(t.Context(), "USD")
			require.ErrorIs(t, err, rates.ErrUnavailable)
		})
	}
}

func TestLatest_AgainstServer(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v6/latest/GBP", r.URL.Path)
		_, _ = w.Write([]byte(`{"result":"success","rates":{"GBP":1,"usd":1.27}}`))
	}))
	t.Cleanup(srv.Close)

	table, err := rates.NewClient(rates.WithBaseURL(srv.URL)).Latest(t.Context(), "GBP")
	require.NoError(t, err)
	rate, ok := table.Rate("USD")
	require.True(t, ok)
	require.InDelta(t, 1.27, rate, 1e-9)
}
