// Package util holds small helpers shared by the service and CLI.
package util

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/nats-io/nuid"
	"github.com/pkg/errors"
	hashids "github.com/speps/go-hashids"
)

var (
	once      sync.Once
	netClient *http.Client
)

// newNetClient returns the process-wide http client so connections are
// reused across benchmark fetches.
func newNetClient() *http.Client {
	once.Do(func() {
		netTransport := &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: 10 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: 2 * time.Second,
		}
		netClient = &http.Client{
			Timeout:   5 * time.Second,
			Transport: netTransport,
		}
	})
	return netClient
}

// GenerateName returns a short random service name (a hashid). On failure
// it falls back to "readlevel".
func GenerateName() string {
	name := "readlevel"

	n, err := rand.Int(rand.Reader, big.NewInt(10000000))
	if err != nil {
		slog.Warn("auto-generating service name", "error", err)
		return name
	}

	hd := hashids.NewData()
	hd.Salt = "readlevel service name generator"
	hd.MinLength = 5
	h, err := hashids.NewWithData(hd)
	if err != nil {
		slog.Warn("auto-generating service name", "error", err)
		return name
	}
	e, err := h.EncodeInt64([]int64{n.Int64()})
	if err != nil {
		slog.Warn("encoding service name", "error", err)
		return name
	}
	return e
}

// GenerateID returns a unique service instance id (a nuid).
func GenerateID() string {
	return nuid.Next()
}

// Fetch performs an HTTP request and returns the response body. Any
// status other than 200 is an error.
func Fetch(ctx context.Context, method, url string, header map[string]string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	for key, value := range header {
		req.Header.Add(key, value)
	}

	res, err := newNetClient().Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, url)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errors.New(fmt.Sprintf("%s %s: unexpected status %d", method, url, res.StatusCode))
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}
	return data, nil
}
