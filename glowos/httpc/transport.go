//go:build !tinygo

package httpc

import (
	"io"
	"net/http"
	"time"
)

// fetchTimeout bounds one GET including body download.
const fetchTimeout = 10 * time.Second

var httpClient = &http.Client{Timeout: fetchTimeout}

func defaultTransport(url string) (int, []byte, error) {
	resp, err := httpClient.Get(url)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}
