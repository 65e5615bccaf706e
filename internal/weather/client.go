package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client is a thin pass-through to the third-party weather API the
// dashboard renders. The provider payload is relayed verbatim; the backend
// never interprets it.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL: os.Getenv("WEATHER_API_URL"),
		apiKey:  os.Getenv("WEATHER_API_KEY"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// CurrentByCoords fetches the provider's current-weather response for the
// given coordinates and returns the raw body along with the upstream status
// code.
func (c *Client) CurrentByCoords(ctx context.Context, lat, lon string) (int, []byte, error) {
	query := url.Values{}
	query.Set("lat", lat)
	query.Set("lon", lon)
	query.Set("appid", c.apiKey)

	targetURL := fmt.Sprintf("%s/weather?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return 0, nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}

	return resp.StatusCode, body, nil
}
