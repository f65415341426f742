package tokenapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/manikadiri/healthnav/internal/domain"
	"github.com/manikadiri/healthnav/internal/version"
)

const (
	DefaultBaseURL        = "http://127.0.0.1:5000"
	DefaultRequestTimeout = 10 * time.Second

	tokensPath       = "/api/tokens"
	maxResponseBytes = 1 << 20
)

// Client talks to the portal's token endpoints.
type Client struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	UserAgent      string
}

type bookRequest struct {
	HospitalID json.RawMessage `json:"hospital_id"`
	SessionID  string          `json:"session_id"`
}

type bookResponse struct {
	Token         string          `json:"token"`
	HospitalID    json.RawMessage `json:"hospital_id"`
	HospitalName  string          `json:"hospital_name"`
	PeopleAhead   optionalInt     `json:"people_ahead"`
	EstimatedWait optionalInt     `json:"estimated_wait"`
	CurrentToken  string          `json:"current_token"`
	Error         string          `json:"error"`
}

type statusResponse struct {
	Token         string      `json:"token"`
	PeopleAhead   optionalInt `json:"people_ahead"`
	EstimatedWait optionalInt `json:"estimated_wait"`
	Status        string      `json:"status"`
	Error         string      `json:"error"`
}

func (c Client) Book(ctx context.Context, hospitalID domain.HospitalID, sessionID domain.SessionID) (domain.Token, error) {
	endpoint, err := buildAPIURL(c.BaseURL, tokensPath)
	if err != nil {
		return domain.Token{}, err
	}

	body, err := json.Marshal(bookRequest{HospitalID: encodeHospitalID(hospitalID), SessionID: string(sessionID)})
	if err != nil {
		return domain.Token{}, fmt.Errorf("encode booking request: %w", err)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Token{}, fmt.Errorf("create booking request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return domain.Token{}, fmt.Errorf("%w: request booking: %w", domain.ErrServiceUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var payload bookResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload)
	if decodeErr == nil && strings.TrimSpace(payload.Error) != "" {
		return domain.Token{}, &domain.BookingRejectedError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(payload.Error)}
	}
	if !isSuccess(resp.StatusCode) {
		return domain.Token{}, fmt.Errorf("%w: request booking: status %d", domain.ErrServiceUnavailable, resp.StatusCode)
	}
	if decodeErr != nil {
		return domain.Token{}, fmt.Errorf("%w: decode booking response: %w", domain.ErrServiceUnavailable, decodeErr)
	}

	code, err := domain.ParseTokenCode(payload.Token)
	if err != nil {
		return domain.Token{}, fmt.Errorf("%w: booking response: %w", domain.ErrServiceUnavailable, err)
	}
	if !payload.PeopleAhead.set || !payload.EstimatedWait.set {
		return domain.Token{}, fmt.Errorf("%w: booking response missing queue position", domain.ErrServiceUnavailable)
	}

	return domain.Token{
		Code:                 code,
		HospitalID:           decodeHospitalID(payload.HospitalID),
		HospitalName:         payload.HospitalName,
		PeopleAhead:          payload.PeopleAhead.value,
		EstimatedWaitMinutes: payload.EstimatedWait.value,
	}, nil
}

func (c Client) Status(ctx context.Context, code domain.TokenCode) (domain.QueueStatus, error) {
	if !code.Valid() {
		return domain.QueueStatus{}, fmt.Errorf("%w: %q", domain.ErrInvalidTokenCode, code)
	}

	endpoint, err := buildAPIURL(c.BaseURL, tokensPath, string(code), "status")
	if err != nil {
		return domain.QueueStatus{}, err
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.QueueStatus{}, fmt.Errorf("create status request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return domain.QueueStatus{}, fmt.Errorf("%w: request queue status: %w", domain.ErrServiceUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp.StatusCode) {
		return domain.QueueStatus{}, fmt.Errorf("%w: request queue status: status %d", domain.ErrServiceUnavailable, resp.StatusCode)
	}

	var payload statusResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return domain.QueueStatus{}, fmt.Errorf("%w: decode queue status: %w", domain.ErrServiceUnavailable, err)
	}

	return domain.QueueStatus{
		PeopleAhead:          payload.PeopleAhead.ptr(),
		EstimatedWaitMinutes: payload.EstimatedWait.ptr(),
		Phase:                payload.Status,
	}, nil
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func (c Client) setHeaders(req *http.Request) {
	userAgent := c.UserAgent
	if userAgent == "" {
		userAgent = version.UserAgent()
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
}

func isSuccess(statusCode int) bool {
	return statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices
}

// encodeHospitalID sends numeric ids as JSON numbers, which is what the
// portal's hospital directory hands out.
func encodeHospitalID(id domain.HospitalID) json.RawMessage {
	trimmed := strings.TrimSpace(string(id))
	if _, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return json.RawMessage(trimmed)
	}

	quoted, _ := json.Marshal(trimmed)
	return quoted
}

func decodeHospitalID(raw json.RawMessage) domain.HospitalID {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}

	var asString string
	if err := json.Unmarshal(trimmed, &asString); err == nil {
		return domain.HospitalID(strings.TrimSpace(asString))
	}
	if _, err := strconv.ParseInt(string(trimmed), 10, 64); err == nil {
		return domain.HospitalID(trimmed)
	}

	return ""
}

func buildAPIURL(baseURL string, elems ...string) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	return parsed.JoinPath(elems...).String(), nil
}
