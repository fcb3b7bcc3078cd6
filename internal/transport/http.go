package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"raybrowser/internal/api"
	"raybrowser/internal/log"
)

// ErrUnexpectedStatus is returned for non-2xx responses
var ErrUnexpectedStatus = errors.New("unexpected status")

const (
	requestIDHeader = "X-Request-Id"
	maxBodyBytes    = 64 << 20
)

// HTTPTransport talks to the web service with one GET per request
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

// NewHTTPTransport creates a transport. client may be nil.
func NewHTTPTransport(baseURL string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &HTTPTransport{baseURL: baseURL, client: client}
}

type windowBody struct {
	Map      int                     `json:"map"`
	Section  int                     `json:"section"`
	Region   int                     `json:"region"`
	Location int                     `json:"location"`
	Vertices []api.PositionedElement `json:"vertices"`
}

type describeBody struct {
	Map     int                     `json:"map"`
	Section int                     `json:"section"`
	Start   int                     `json:"start"`
	Regions []api.RegionDescription `json:"regions"`
}

type detailBody struct {
	Map      int                `json:"map"`
	Sequence string             `json:"sequence"`
	Vertices []api.VertexDetail `json:"vertices"`
}

// Do performs the exchange and decodes the reply matching req
func (t *HTTPTransport) Do(ctx context.Context, req api.Request) (api.Reply, error) {
	query, err := encodeQuery(req)
	if err != nil {
		return nil, err
	}

	requestURL, err := url.Parse(t.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", t.baseURL, err)
	}
	requestURL.RawQuery = query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	requestID := uuid.New().String()
	httpReq.Header.Set(requestIDHeader, requestID)
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s request %s: %w", req.Tag(), requestID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%s request %s: %w: %s", req.Tag(), requestID, ErrUnexpectedStatus, resp.Status)
	}

	reply, err := decodeReply(req, io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%s request %s: %w", req.Tag(), requestID, err)
	}

	log.Debug("TRANSPORT: reply", "tag", req.Tag(), "request_id", requestID, "elapsed", time.Since(start))
	return reply, nil
}

func encodeQuery(req api.Request) (url.Values, error) {
	q := url.Values{}
	q.Set("tag", string(req.Tag()))

	switch req := req.(type) {
	case api.GetWindow:
		q.Set("map", strconv.Itoa(req.Key.Map))
		q.Set("section", strconv.Itoa(req.Key.Section))
		q.Set("region", strconv.Itoa(req.Key.Region))
		q.Set("location", strconv.Itoa(req.Location))
		q.Set("count", strconv.Itoa(req.Count))
	case api.GetElementDetail:
		q.Set("map", strconv.Itoa(req.Map))
		q.Set("object", req.Sequence)
		q.Set("depth", strconv.Itoa(req.Count))
	case api.DescribeRegion:
		q.Set("map", strconv.Itoa(req.Map))
		q.Set("section", strconv.Itoa(req.Section))
		q.Set("start", strconv.Itoa(req.Start))
		q.Set("count", strconv.Itoa(req.Count))
	default:
		return nil, fmt.Errorf("unsupported request %T", req)
	}
	return q, nil
}

func decodeReply(req api.Request, body io.Reader) (api.Reply, error) {
	decoder := json.NewDecoder(body)

	switch req := req.(type) {
	case api.GetWindow:
		var b windowBody
		if err := decoder.Decode(&b); err != nil {
			return nil, fmt.Errorf("failed to decode window: %w", err)
		}
		return &api.WindowReply{
			Key:      api.RegionKey{Map: b.Map, Section: b.Section, Region: b.Region},
			Location: b.Location,
			Vertices: b.Vertices,
		}, nil
	case api.GetElementDetail:
		var b detailBody
		if err := decoder.Decode(&b); err != nil {
			return nil, fmt.Errorf("failed to decode detail: %w", err)
		}
		if b.Sequence == "" {
			b.Sequence = req.Sequence
		}
		return &api.DetailReply{Map: b.Map, Sequence: b.Sequence, Vertices: b.Vertices}, nil
	case api.DescribeRegion:
		var b describeBody
		if err := decoder.Decode(&b); err != nil {
			return nil, fmt.Errorf("failed to decode regions: %w", err)
		}
		return &api.DescribeReply{Map: b.Map, Section: b.Section, Start: b.Start, Regions: b.Regions}, nil
	default:
		return nil, fmt.Errorf("unsupported request %T", req)
	}
}
