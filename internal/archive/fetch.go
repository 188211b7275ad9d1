package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
)

// fetchBytes downloads one binary with bounded retry and fixed backoff.
// The last error is returned once attempts are exhausted.
func fetchBytes(ctx context.Context, client *http.Client, url string, attempts uint, delay time.Duration) ([]byte, error) {
	return retry.DoWithData(
		func() ([]byte, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return nil, retry.Unrecoverable(err)
			}
			resp, err := client.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
			}
			return io.ReadAll(resp.Body)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
}
