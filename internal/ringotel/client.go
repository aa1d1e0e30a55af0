// sentiric-softphone-service/internal/ringotel/client.go
package ringotel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sentiric/sentiric-softphone-service/internal/observability/metrics"
	"github.com/sentiric/sentiric-softphone-service/internal/reliability/retry"
	"github.com/sentiric/sentiric-softphone-service/internal/service/softphone"
)

const maxErrorBody = 4 << 10

// Config, Ringotel API istemcisinin ayarlarıdır.
type Config struct {
	URL         string
	Token       string
	Timeout     time.Duration
	MaxAttempts int
}

// Client speaks the Ringotel admin API: every call is a POST of {method, params}
// answered with {result} or {error}.
type Client struct {
	httpClient *http.Client
	url        string
	token      string
	timeout    time.Duration
	retry      *retry.Config
	tracer     trace.Tracer
	log        zerolog.Logger
}

func NewClient(cfg Config, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	rc := retry.DefaultConfig()
	if cfg.MaxAttempts > 0 {
		rc.MaxAttempts = cfg.MaxAttempts
	}
	rc.Retryable = isTemporary
	return &Client{
		httpClient: httpClient,
		url:        strings.TrimRight(cfg.URL, "/"),
		token:      cfg.Token,
		timeout:    cfg.Timeout,
		retry:      rc,
		tracer:     otel.Tracer("sentiric-softphone-service/ringotel"),
		log:        log.With().Str("component", "ringotel").Logger(),
	}
}

type request struct {
	Method string `json:"method"`
	Params any    `json:"params"`
}

type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// call issues method and decodes the result into out when out is non-nil.
// The raw result is returned either way.
func (c *Client) call(ctx context.Context, method string, params any, out any) (json.RawMessage, error) {
	if params == nil {
		params = struct{}{}
	}
	body, err := json.Marshal(request{Method: method, Params: params})
	if err != nil {
		return nil, fmt.Errorf("ringotel %s: encode params: %w", method, err)
	}

	ctx, span := c.tracer.Start(ctx, "ringotel."+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("rpc.system", "ringotel"), attribute.String("rpc.method", method)),
	)
	defer span.End()

	start := time.Now()
	result, err := retry.Do(ctx, c.retry, c.log, method, func(ctx context.Context) (json.RawMessage, error) {
		return callWithTimeout(ctx, c.timeout, func(ctx context.Context) (json.RawMessage, error) {
			return c.do(ctx, method, body)
		})
	})
	if err != nil {
		outcome := "error"
		var fault *softphone.RemoteFault
		if errors.As(err, &fault) && fault.Err == nil {
			outcome = "fault"
		}
		metrics.ObserveRemoteCall(method, outcome, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.log.Error().Err(err).Str("method", method).Msg("Ringotel çağrısı başarısız")
		return nil, err
	}
	metrics.ObserveRemoteCall(method, "ok", time.Since(start))

	if out != nil && len(result) > 0 && !bytes.Equal(result, []byte("null")) {
		if err := json.Unmarshal(result, out); err != nil {
			span.RecordError(err)
			return nil, &softphone.RemoteFault{Method: method, StatusCode: http.StatusOK, Message: "undecodable result", Err: err}
		}
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, method string, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, &softphone.RemoteFault{Method: method, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &softphone.RemoteFault{Method: method, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &softphone.RemoteFault{Method: method, StatusCode: resp.StatusCode, Err: err}
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if env.Error != nil {
		return nil, &softphone.RemoteFault{
			Method:     method,
			StatusCode: resp.StatusCode,
			Code:       env.Error.Code,
			Message:    env.Error.Message,
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &softphone.RemoteFault{
			Method:     method,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(truncate(raw, maxErrorBody))),
		}
	}
	if decodeErr != nil {
		return nil, &softphone.RemoteFault{Method: method, StatusCode: resp.StatusCode, Message: "malformed response envelope", Err: decodeErr}
	}
	return env.Result, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}

func isTemporary(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var fault *softphone.RemoteFault
	if errors.As(err, &fault) {
		return fault.Temporary()
	}
	return false
}
