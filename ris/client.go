// Package ris calls the real-time-status SOAP services of a call-control cluster.
package ris

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/moyoez/risport-go/envelope"
	"github.com/moyoez/risport-go/normalize"
	"github.com/moyoez/risport-go/tool"
	"github.com/moyoez/risport-go/types"
)

const (
	OpSelectCmDeviceExt = "selectCmDeviceExt"
	OpGetServerInfo     = "getServerInfo"
)

// Client issues RIS calls. Each call makes exactly one attempt with the config it is
// given; the client itself only holds the outbound rate limiter and is safe for concurrent use.
type Client struct {
	limiter *rate.Limiter
}

// NewClient returns a client that sends at most requestsPerMinute calls per minute.
// Zero or less disables pacing.
func NewClient(requestsPerMinute int) *Client {
	return &Client{limiter: rate.NewLimiter(perMinute(requestsPerMinute), 1)}
}

// SetRequestsPerMinute changes the pacing of calls that have not started waiting yet.
func (c *Client) SetRequestsPerMinute(requestsPerMinute int) {
	c.limiter.SetLimit(perMinute(requestsPerMinute))
}

func perMinute(n int) rate.Limit {
	if n <= 0 {
		return rate.Inf
	}
	return rate.Every(time.Minute / time.Duration(n))
}

// SelectCmDeviceExt queries device status and returns one group per cluster node.
func (c *Client) SelectCmDeviceExt(ctx context.Context, cfg types.ClientConfig, criteria types.QueryCriteria) ([]types.ServerGroup, error) {
	if err := criteria.Validate(); err != nil {
		return nil, &Error{Kind: KindUnclassified, Op: OpSelectCmDeviceExt, Err: err}
	}
	if cfg.Host == "" {
		return nil, &Error{Kind: KindUnclassified, Op: OpSelectCmDeviceExt, Err: ErrNoHost}
	}
	doc, err := envelope.BuildSelectCmDeviceExt(criteria)
	if err != nil {
		return nil, &Error{Kind: KindUnclassified, Op: OpSelectCmDeviceExt, Err: fmt.Errorf("failed to build envelope: %v", err)}
	}

	url := tool.BuildSelectCmDeviceURL(cfg.Host, cfg.Port)
	body, err := c.Invoke(ctx, cfg, OpSelectCmDeviceExt, url, doc)
	if err != nil {
		return nil, err
	}
	groups, err := normalize.DeviceGroups(body)
	if err != nil {
		return nil, &Error{Kind: KindParse, Op: OpSelectCmDeviceExt, URL: url, Err: err}
	}

	devices := 0
	for _, g := range groups {
		devices += len(g.Devices)
	}
	tool.DefaultLogger.Infof("selectCmDeviceExt: %d device(s) on %d node(s) from %s", devices, len(groups), cfg.Host)
	return groups, nil
}

// GetServerInfo returns one record per server named in the query.
func (c *Client) GetServerInfo(ctx context.Context, cfg types.ClientConfig, query types.ServerQuery) ([]types.ServerInfoRecord, error) {
	if err := query.Validate(); err != nil {
		return nil, &Error{Kind: KindUnclassified, Op: OpGetServerInfo, Err: err}
	}
	if cfg.Host == "" {
		return nil, &Error{Kind: KindUnclassified, Op: OpGetServerInfo, Err: ErrNoHost}
	}
	doc, err := envelope.BuildGetServerInfo(query)
	if err != nil {
		return nil, &Error{Kind: KindUnclassified, Op: OpGetServerInfo, Err: fmt.Errorf("failed to build envelope: %v", err)}
	}

	url := tool.BuildServerInfoURL(cfg.Host, cfg.Port)
	body, err := c.Invoke(ctx, cfg, OpGetServerInfo, url, doc)
	if err != nil {
		return nil, err
	}
	records, err := normalize.ServerInfo(body)
	if err != nil {
		return nil, &Error{Kind: KindParse, Op: OpGetServerInfo, URL: url, Err: err}
	}
	tool.DefaultLogger.Infof("getServerInfo: %d server(s) from %s", len(records), cfg.Host)
	return records, nil
}

// Invoke POSTs the envelope to url once and returns the response body.
// Non-2xx answers, network and TLS failures come back as *Error.
func (c *Client) Invoke(ctx context.Context, cfg types.ClientConfig, op, url string, doc []byte) ([]byte, error) {
	logger := tool.DefaultLogger.With("op", op, "request", tool.GenerateRequestID())

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &Error{Kind: KindTransport, Op: op, URL: url, Err: fmt.Errorf("waiting for rate limiter: %w", err)}
	}

	httpClient, err := tool.NewHTTPClient(cfg)
	if err != nil {
		return nil, &Error{Kind: KindUnclassified, Op: op, URL: url, Err: err}
	}
	defer httpClient.CloseIdleConnections()
	if cfg.InsecureSkipVerify {
		logger.Warn("TLS certificate verification is disabled for this call")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(doc))
	req, err = tool.NewHTTPReqWithSOAP(req, err, cfg.SOAPAction, cfg.Username, cfg.Password)
	if err != nil {
		return nil, &Error{Kind: KindUnclassified, Op: op, URL: url, Err: err}
	}

	logger.Debugf("POST %s (%d bytes)", url, len(doc))
	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		risErr := &Error{Kind: classifyTransport(err), Op: op, URL: url, Err: err}
		if risErr.Kind == KindTLSVerification {
			risErr.PeerCert = tool.CertificateFingerprint(peerCertificate(err))
		}
		logger.Errorf("%s call failed (%s): %v", op, risErr.Kind, err)
		return nil, risErr
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Errorf("Failed to close response body: %v", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: op, URL: url, Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		fault := soapFault(body)
		logger.Errorf("%s call rejected: %s %s", op, resp.Status, fault)
		return nil, &Error{Kind: KindHTTPStatus, Op: op, URL: url, StatusCode: resp.StatusCode, Status: resp.Status, Fault: fault}
	}
	if !utf8.Valid(body) {
		return nil, &Error{Kind: KindParse, Op: op, URL: url, Err: fmt.Errorf("response body is not valid UTF-8")}
	}

	logger.Debugf("%s answered %s in %v (%d bytes)", op, resp.Status, time.Since(start).Round(time.Millisecond), len(body))
	return body, nil
}

// soapFault extracts faultstring from an error body, or "" when there is none.
func soapFault(body []byte) string {
	root, err := normalize.Parse(body)
	if err != nil {
		return ""
	}
	faults := root.FindAll(func(n *normalize.Node) bool { return n.Local == "faultstring" })
	if len(faults) == 0 {
		return ""
	}
	return strings.TrimSpace(faults[0].Text)
}
