package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Adapter converts a subscription's source URL into normalized records for
// one platform family. Fetch never returns an error: any network, lookup, or
// parse failure for a single source degrades to an empty result so one bad
// subscription cannot abort a run.
type Adapter interface {
	CanHandle(url string) bool
	Fetch(ctx context.Context, url string) []Record
}

func fetchBytes(ctx context.Context, client *http.Client, url, userAgent string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
