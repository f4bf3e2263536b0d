package helpers

import (
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

// ESOptions configures the search cluster connection.
type ESOptions struct {
	Addrs    []string
	Username string
	Password string
	Timeout  time.Duration
	// Transport replaces the default HTTP transport; tests use it to fake the cluster.
	Transport http.RoundTripper
}

// NewESClient builds a client with bounded dial and header timeouts.
func NewESClient(opts ESOptions) (*elasticsearch.Client, error) {
	if len(opts.Addrs) == 0 {
		return nil, errors.New("elasticsearch: no addresses")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	transport := opts.Transport
	if transport == nil {
		transport = &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: opts.Timeout,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: opts.Timeout}).DialContext,
		}
	}
	return elasticsearch.NewClient(elasticsearch.Config{
		Addresses:  opts.Addrs,
		Username:   opts.Username,
		Password:   opts.Password,
		Transport:  transport,
		MaxRetries: 2,
	})
}
