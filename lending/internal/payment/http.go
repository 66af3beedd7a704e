package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/pkg/circuit_breaker"
)

type Config struct {
	Host      string        `envconfig:"PAYMENT_HTTP_HOST"`
	Port      string        `envconfig:"PAYMENT_HTTP_PORT"`
	Timeout   time.Duration `envconfig:"PAYMENT_TIMEOUT" default:"10s"`
	Simulated bool          `envconfig:"PAYMENT_SIMULATED" default:"true"`
}

var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

type HTTPGateway struct {
	log     *zap.Logger
	client  *http.Client
	baseURL string
	cb      circuit_breaker.CircuitBreaker
}

func NewHTTPGateway(cfg Config, log *zap.Logger) *HTTPGateway {
	return &HTTPGateway{
		log:     log.Named("payment"),
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: fmt.Sprintf("http://%s", net.JoinHostPort(cfg.Host, cfg.Port)),
		cb:      circuit_breaker.New(100, 5*time.Second, 0.2, 2),
	}
}

func (g *HTTPGateway) CB() circuit_breaker.CircuitBreaker {
	return g.cb
}

func (g *HTTPGateway) ProcessPayment(ctx context.Context, patronID string, amount float64, description string) (Charge, error) {
	req := struct {
		PatronID    string  `json:"patronId"`
		Amount      float64 `json:"amount"`
		Description string  `json:"description"`
	}{
		PatronID:    patronID,
		Amount:      amount,
		Description: description,
	}
	var charge Charge
	err := g.cb.Call(func() error {
		return g.post(ctx, "/api/v1/payments", req, &charge)
	})
	if err != nil {
		g.log.Warn("ProcessPayment", zap.String("patronId", patronID), zap.Error(err))
		return Charge{}, err
	}
	return charge, nil
}

func (g *HTTPGateway) RefundPayment(ctx context.Context, transactionID string, amount float64) (Refund, error) {
	req := struct {
		TransactionID string  `json:"transactionId"`
		Amount        float64 `json:"amount"`
	}{
		TransactionID: transactionID,
		Amount:        amount,
	}
	var refund Refund
	err := g.cb.Call(func() error {
		return g.post(ctx, "/api/v1/refunds", req, &refund)
	})
	if err != nil {
		g.log.Warn("RefundPayment", zap.String("transactionId", transactionID), zap.Error(err))
		return Refund{}, err
	}
	return refund, nil
}

// post sends body as JSON and decodes the answer into out. Only transport
// failures and 5xx answers are errors; a decline comes back as a 2xx/4xx body.
func (g *HTTPGateway) post(ctx context.Context, path string, body, out any) error {
	b := bytes.NewBuffer(nil)
	if err := json.NewEncoder(b).Encode(body); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, b)
	if err != nil {
		return err
	}
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	resp, err := g.client.Do(req)
	if err != nil {
		return errors.Wrap(ErrGatewayUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return errors.Wrapf(ErrGatewayUnavailable, "status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode gateway response")
	}
	return nil
}
