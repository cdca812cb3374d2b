// Package qr calls the external QR image endpoint. There is no retry or
// fallback; the endpoint is a hard runtime dependency.
package qr

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/abhisek/swipematch/internal/delivery"
)

// DefaultEndpoint is the public QR image service.
const DefaultEndpoint = "https://api.qrserver.com/v1/create-qr-code/"

// URL builds {endpoint}?size={w}x{h}&data={urlencoded data}.
func URL(endpoint string, w, h int, data string) string {
	return fmt.Sprintf("%s?size=%dx%d&data=%s", endpoint, w, h, url.QueryEscape(data))
}

// Fetch downloads the QR image for data as a qr.png payload.
func Fetch(ctx context.Context, client *http.Client, endpoint string, size int, data string) (delivery.Payload, error) {
	return delivery.FetchBlob(ctx, client, URL(endpoint, size, size, data), delivery.MIMEPNG, delivery.QRFilename)
}
