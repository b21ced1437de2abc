// Copyright (C) 2019-2025 Algorand, Inc.
// This file is part of go-sysgov
//
// go-sysgov is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-sysgov is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-sysgov.  If not, see <https://www.gnu.org/licenses/>.

// Package client talks to the sysgovd REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/go-querystring/query"

	"github.com/sysgov/go-sysgov/daemon/sysgovd/api"
	"github.com/sysgov/go-sysgov/data/basics"
	"github.com/sysgov/go-sysgov/data/bookkeeping"
	"github.com/sysgov/go-sysgov/ledger/journal"
	"github.com/sysgov/go-sysgov/protocol"
)

const maxRawResponseBytes = 50e6

// unauthorizedRequestError is returned on a 401 answer.
type unauthorizedRequestError struct {
	errorString string
	url         string
}

func (e unauthorizedRequestError) Error() string {
	return fmt.Sprintf("unauthorized request to `%s`: %s", e.url, e.errorString)
}

// HTTPError is any other non-2xx answer.
type HTTPError struct {
	StatusCode  int
	Status      string
	ErrorString string
	Kind        string
}

// Error formats an error string.
func (e HTTPError) Error() string {
	return fmt.Sprintf("HTTP %s: %s", e.Status, e.ErrorString)
}

// RestClient manages the REST interface for a calling user.
type RestClient struct {
	serverURL  url.URL
	apiToken   string
	httpClient *http.Client
}

// MakeRestClient is the factory for constructing a RestClient for a given
// endpoint. apiToken is only sent with block submissions.
func MakeRestClient(serverURL url.URL, apiToken string) RestClient {
	return RestClient{
		serverURL:  serverURL,
		apiToken:   apiToken,
		httpClient: &http.Client{},
	}
}

// filterASCII keeps the printable ASCII characters of a server supplied string.
func filterASCII(unfiltered string) string {
	var b bytes.Buffer
	for _, r := range unfiltered {
		if r >= 0x20 && r <= 0x7e {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// extractError turns a non-2xx response into an error.
func extractError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	errorBuf, _ := io.ReadAll(resp.Body)
	var errorJSON api.ErrorResponse
	errorString := string(errorBuf)
	if json.Unmarshal(errorBuf, &errorJSON) == nil && errorJSON.Message != "" {
		errorString = errorJSON.Message
	}
	errorString = filterASCII(errorString)

	if resp.StatusCode == http.StatusUnauthorized {
		return unauthorizedRequestError{errorString, resp.Request.URL.String()}
	}
	return HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, ErrorString: errorString, Kind: errorJSON.Kind}
}

func (client RestClient) submitForm(ctx context.Context, response interface{}, method, path string, params interface{}, body []byte) error {
	queryURL := client.serverURL
	queryURL.Path = path
	if params != nil {
		v, err := query.Values(params)
		if err != nil {
			return err
		}
		queryURL.RawQuery = v.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, queryURL.String(), bodyReader)
	if err != nil {
		return err
	}
	if method == http.MethodPost {
		req.Header.Set(api.TokenHeader, client.apiToken)
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body = http.MaxBytesReader(nil, resp.Body, maxRawResponseBytes)
	defer resp.Body.Close()

	if err := extractError(resp); err != nil {
		return err
	}
	if response == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return protocol.DecodeJSON(data, response)
}

func (client RestClient) get(ctx context.Context, response interface{}, path string, params interface{}) error {
	return client.submitForm(ctx, response, http.MethodGet, path, params, nil)
}

type limitParams struct {
	Limit int `url:"limit,omitempty"`
}

// Health checks that the daemon answers.
func (client RestClient) Health(ctx context.Context) error {
	return client.get(ctx, nil, "/health", nil)
}

// Status returns the last committed block.
func (client RestClient) Status(ctx context.Context) (response api.NodeStatus, err error) {
	err = client.get(ctx, &response, "/v1/status", nil)
	return
}

// GlobalState returns the global state table.
func (client RestClient) GlobalState(ctx context.Context) (response basics.GlobalState, err error) {
	err = client.get(ctx, &response, "/v1/global", nil)
	return
}

// Producers lists up to limit producers by total votes; 0 uses the server default.
func (client RestClient) Producers(ctx context.Context, limit int) (response []basics.Producer, err error) {
	err = client.get(ctx, &response, "/v1/producers", limitParams{Limit: limit})
	return
}

// Producer returns one producer.
func (client RestClient) Producer(ctx context.Context, name basics.Name) (response basics.Producer, err error) {
	err = client.get(ctx, &response, "/v1/producers/"+name.String(), nil)
	return
}

// Voter returns one voter.
func (client RestClient) Voter(ctx context.Context, name basics.Name) (response basics.Voter, err error) {
	err = client.get(ctx, &response, "/v1/voters/"+name.String(), nil)
	return
}

// Bids lists up to limit open name auctions.
func (client RestClient) Bids(ctx context.Context, limit int) (response []basics.NameBid, err error) {
	err = client.get(ctx, &response, "/v1/bids", limitParams{Limit: limit})
	return
}

// Bid returns the auction for one name.
func (client RestClient) Bid(ctx context.Context, name basics.Name) (response basics.NameBid, err error) {
	err = client.get(ctx, &response, "/v1/bids/"+name.String(), nil)
	return
}

// Resources returns the resource quotas of an account.
func (client RestClient) Resources(ctx context.Context, name basics.Name) (response basics.UserResources, err error) {
	err = client.get(ctx, &response, "/v1/resources/"+name.String(), nil)
	return
}

// Balance returns the balance of name in the token with the given code.
func (client RestClient) Balance(ctx context.Context, code string, name basics.Name) (response api.BalanceResponse, err error) {
	err = client.get(ctx, &response, "/v1/balances/"+url.PathEscape(code)+"/"+name.String(), nil)
	return
}

// Schedule returns the last proposed producer schedule.
func (client RestClient) Schedule(ctx context.Context) (response basics.ProducerSchedule, err error) {
	err = client.get(ctx, &response, "/v1/schedule", nil)
	return
}

// Journal returns the latest journal entries.
func (client RestClient) Journal(ctx context.Context, limit int) (response []journal.Entry, err error) {
	err = client.get(ctx, &response, "/v1/journal", limitParams{Limit: limit})
	return
}

// SubmitBlock applies blk on the daemon and returns its receipts.
func (client RestClient) SubmitBlock(ctx context.Context, blk bookkeeping.Block) (response api.BlockResponse, err error) {
	err = client.submitForm(ctx, &response, http.MethodPost, "/v1/blocks", nil, protocol.EncodeJSON(blk))
	return
}
