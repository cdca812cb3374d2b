package delivery

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxBlobSize caps pre-fetched blobs.
const maxBlobSize = 256 << 20

// FetchBlob downloads url into a payload. Failures come back as
// *NetworkError and are not retried.
func FetchBlob(ctx context.Context, client *http.Client, url, mime, filename string) (Payload, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Payload{}, &NetworkError{URL: url, Err: err}
	}
	resp, err := client.Do(req)
	if err != nil {
		return Payload{}, &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Payload{}, &NetworkError{URL: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBlobSize+1))
	if err != nil {
		return Payload{}, &NetworkError{URL: url, Err: err}
	}
	if len(data) > maxBlobSize {
		return Payload{}, &NetworkError{URL: url, Err: fmt.Errorf("blob exceeds %d bytes", maxBlobSize)}
	}

	return Payload{Data: data, MIME: mime, Filename: filename}, nil
}
