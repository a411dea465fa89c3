// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package source

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/blobmig/pkg/config"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// 🌐 HTTPConnector authenticates against document-library endpoints over
// HTTP, using one of the two supported credential variants for the whole run.
type HTTPConnector struct {
	args config.SourceArgs
}

// 🏭 NewHTTPConnector creates a connector for the configured credential variant
func NewHTTPConnector(args config.SourceArgs) *HTTPConnector {
	return &HTTPConnector{args: args}
}

// 🔑 Connect establishes an authenticated session with the endpoint at address
func (c *HTTPConnector) Connect(ctx context.Context, address string) (Session, error) {
	logger := zerolog.Ctx(ctx)

	base, err := url.Parse(address)
	if err != nil {
		return nil, errors.Errorf("parsing endpoint address: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.Errorf("endpoint address %q is not an absolute URL", address)
	}

	var client *http.Client
	switch c.args.Variant {
	case config.VariantPrincipal:
		client, err = c.principalClient(ctx)
	case config.VariantDelegated:
		client, err = c.delegatedClient(ctx)
	default:
		err = errors.Errorf("unknown credential variant %q", c.args.Variant)
	}
	if err != nil {
		return nil, errors.Errorf("building %s client: %w", c.args.Variant, err)
	}

	// Probe the endpoint so an auth failure surfaces at Connect time, not
	// in the middle of the transfer loop.
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, base.String(), nil)
	if err != nil {
		return nil, errors.Errorf("creating probe request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Errorf("probing endpoint %s: %w", address, err)
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, errors.Errorf("endpoint %s rejected credentials: status %d", address, resp.StatusCode)
	}

	logger.Debug().Str("site", address).Str("variant", c.args.Variant).Msg("session established")

	return &httpSession{base: base, client: client}, nil
}

// 🔐 principalClient builds a client for the service-principal variant:
// client-credentials token exchange over a TLS connection presenting the
// principal's certificate.
func (c *HTTPConnector) principalClient(ctx context.Context) (*http.Client, error) {
	cert, err := tls.LoadX509KeyPair(c.args.CertPath, c.args.CertPath)
	if err != nil {
		return nil, errors.Errorf("loading principal certificate: %w", err)
	}

	tlsClient := &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{Certificates: []tls.Certificate{cert}},
		},
	}

	cc := clientcredentials.Config{
		ClientID: c.args.ClientID,
		TokenURL: c.args.TokenURL,
	}

	// Token exchange rides on the certificate-bearing client
	return cc.Client(context.WithValue(ctx, oauth2.HTTPClient, tlsClient)), nil
}

// 👤 delegatedClient builds a client for the delegated-credential variant:
// a resource-owner token minted from the stored user credentials.
func (c *HTTPConnector) delegatedClient(ctx context.Context) (*http.Client, error) {
	conf := oauth2.Config{
		ClientID: c.args.ClientID,
		Endpoint: oauth2.Endpoint{TokenURL: c.args.TokenURL},
	}

	token, err := conf.PasswordCredentialsToken(ctx, c.args.Username, c.args.Password)
	if err != nil {
		return nil, errors.Errorf("exchanging delegated credentials: %w", err)
	}

	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(token)), nil
}

// 📡 httpSession is a live session bound to one endpoint
type httpSession struct {
	base   *url.URL
	client *http.Client
}

// 📥 Fetch downloads remotePath into localDir under localName
func (s *httpSession) Fetch(ctx context.Context, remotePath, localDir, localName string) error {
	target, err := s.resolve(remotePath)
	if err != nil {
		return errors.Errorf("resolving remote path: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return errors.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := os.MkdirAll(localDir, 0o755); err != nil {
		return errors.Errorf("creating local directory: %w", err)
	}

	dest := filepath.Join(localDir, localName)
	out, err := os.Create(dest)
	if err != nil {
		return errors.Errorf("creating local file: %w", err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		// A truncated body must not leave a partial file behind; the
		// caller only cleans up after a successful download.
		out.Close()
		if rmErr := os.Remove(dest); rmErr != nil {
			return errors.Errorf("writing local file: %w (partial copy not removed: %v)", err, rmErr)
		}
		return errors.Errorf("writing local file: %w", err)
	}

	if err := out.Close(); err != nil {
		return errors.Errorf("closing local file: %w", err)
	}

	return nil
}

// 🚪 Close tears the session down
func (s *httpSession) Close(ctx context.Context) error {
	s.client.CloseIdleConnections()
	return nil
}

// resolve turns a remote path or absolute URI into a fetchable URL on this
// session's endpoint
func (s *httpSession) resolve(remotePath string) (string, error) {
	u, err := url.Parse(remotePath)
	if err != nil {
		return "", errors.Errorf("parsing %q: %w", remotePath, err)
	}
	if u.IsAbs() {
		return u.String(), nil
	}
	return s.base.ResolveReference(u).String(), nil
}
