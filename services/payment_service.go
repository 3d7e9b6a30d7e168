package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// PaymentInit is what the gateway needs to open a checkout session.
type PaymentInit struct {
	Email            string            `json:"email"`
	AmountMinorUnits int64             `json:"amount"`
	Reference        string            `json:"reference"`
	CallbackURL      string            `json:"callback_url,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// PaymentVerification is the gateway's answer for one reference.
type PaymentVerification struct {
	Success          bool
	AmountMinorUnits int64
	Reference        string
}

// PaymentGateway abstracts the external checkout provider. The funding
// service never trusts a callback without a Verify round trip.
type PaymentGateway interface {
	Initialize(ctx context.Context, init PaymentInit) (authorizationURL string, err error)
	Verify(ctx context.Context, reference string) (PaymentVerification, error)
}

// PaystackGateway talks to the Paystack REST API.
type PaystackGateway struct {
	client    *http.Client
	baseURL   string
	secretKey string
}

func NewPaystackGateway() *PaystackGateway {
	return &PaystackGateway{
		client:    &http.Client{Timeout: 15 * time.Second},
		baseURL:   "https://api.paystack.co",
		secretKey: os.Getenv("PAYSTACK_SECRET_KEY"),
	}
}

func (p *PaystackGateway) Initialize(ctx context.Context, init PaymentInit) (string, error) {
	if p.secretKey == "" {
		return "", fmt.Errorf("PAYSTACK_SECRET_KEY not set")
	}
	if init.CallbackURL == "" {
		init.CallbackURL = os.Getenv("PAYSTACK_CALLBACK_URL")
	}

	body, err := json.Marshal(init)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("paystack request error: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read paystack response error: %w", err)
	}

	var parsed struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			AuthorizationURL string `json:"authorization_url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return "", fmt.Errorf("unexpected paystack response: %s", string(respBytes))
	}
	if resp.StatusCode != http.StatusOK || !parsed.Status {
		return "", fmt.Errorf("paystack initialize failed: %s", parsed.Message)
	}
	return parsed.Data.AuthorizationURL, nil
}

func (p *PaystackGateway) Verify(ctx context.Context, reference string) (PaymentVerification, error) {
	if p.secretKey == "" {
		return PaymentVerification{}, fmt.Errorf("PAYSTACK_SECRET_KEY not set")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return PaymentVerification{}, err
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return PaymentVerification{}, fmt.Errorf("paystack request error: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return PaymentVerification{}, fmt.Errorf("read paystack response error: %w", err)
	}

	var parsed struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			Status    string `json:"status"`
			Amount    int64  `json:"amount"`
			Reference string `json:"reference"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return PaymentVerification{}, fmt.Errorf("unexpected paystack response: %s", string(respBytes))
	}
	if resp.StatusCode != http.StatusOK || !parsed.Status {
		return PaymentVerification{}, fmt.Errorf("paystack verify failed: %s", parsed.Message)
	}

	return PaymentVerification{
		Success:          parsed.Data.Status == "success",
		AmountMinorUnits: parsed.Data.Amount,
		Reference:        parsed.Data.Reference,
	}, nil
}
