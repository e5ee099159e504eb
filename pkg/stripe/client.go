package stripe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/stripe/stripe-go/v84"
	checkoutsession "github.com/stripe/stripe-go/v84/checkout/session"

	"github.com/rohanverma/vastra-backend/pkg/config"
	pkgerrors "github.com/rohanverma/vastra-backend/pkg/errors"
	"github.com/rohanverma/vastra-backend/pkg/logger"
)

const (
	testEnv = "test"
	liveEnv = "live"
)

var (
	errAPIKeyRequired   = errors.New("stripe api key is required")
	errSecretRequired   = errors.New("stripe callback secret is required")
	errInvalidStripeEnv = fmt.Errorf("stripe environment must be %q or %q", testEnv, liveEnv)
)

// Client wraps Stripe's API client plus env-specific metadata.
type Client struct {
	environment    string
	callbackSecret string
	successURL     string
	cancelURL      string
	logger         *logger.Logger
}

// CheckoutLineItem is one repriced cart line handed to the hosted checkout.
type CheckoutLineItem struct {
	Name        string
	AmountMinor int64
	Currency    string
	Quantity    int64
}

// CheckoutSessionParams carries the inputs for a hosted checkout session.
type CheckoutSessionParams struct {
	LineItems []CheckoutLineItem
	Reference string
}

// CheckoutSession is the subset of a Stripe session the platform consumes.
type CheckoutSession struct {
	ID  string
	URL string
}

// NewClient initializes Stripe once with the configured secrets and env.
func NewClient(ctx context.Context, cfg config.StripeConfig, logg *logger.Logger) (*Client, error) {
	env, err := normalizeEnv(cfg.Environment())
	if err != nil {
		return nil, err
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	callbackSecret := strings.TrimSpace(cfg.CallbackSecret)
	if callbackSecret == "" {
		return nil, errSecretRequired
	}

	if err := validateAPIKey(env, apiKey); err != nil {
		return nil, err
	}

	stripe.Key = apiKey

	if logg != nil {
		logg.Info(ctx, fmt.Sprintf("stripe client initialized (%s)", env))
	}

	return &Client{
		environment:    env,
		callbackSecret: callbackSecret,
		successURL:     strings.TrimSpace(cfg.SuccessURL),
		cancelURL:      strings.TrimSpace(cfg.CancelURL),
		logger:         logg,
	}, nil
}

// Environment reports the normalized Stripe environment in use.
func (c *Client) Environment() string {
	if c == nil {
		return ""
	}
	return c.environment
}

// CallbackSecret returns the secret used for callback signature verification.
func (c *Client) CallbackSecret() string {
	if c == nil {
		return ""
	}
	return c.callbackSecret
}

// CreateCheckoutSession registers a hosted checkout session built from the
// provided line items and returns its redirect reference.
func (c *Client) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error) {
	if len(params.LineItems) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line item is required")
	}

	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(params.LineItems))
	for _, item := range params.LineItems {
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(strings.ToLower(item.Currency)),
				UnitAmount: stripe.Int64(item.AmountMinor),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	req := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          items,
		SuccessURL:         stripe.String(c.successURL),
		CancelURL:          stripe.String(c.cancelURL),
	}
	if params.Reference != "" {
		req.ClientReferenceID = stripe.String(params.Reference)
	}

	c.log(ctx, "request", "create_checkout_session", map[string]any{
		"line_items": len(items),
		"reference":  params.Reference,
	})

	sess, err := checkoutsession.New(req)
	if err != nil {
		c.log(ctx, "error", "create_checkout_session", map[string]any{"error": err.Error()})
		return nil, c.mapStripeError(err, "create checkout session")
	}

	c.log(ctx, "response", "create_checkout_session", map[string]any{"session_id": sess.ID})
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = v
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("stripe %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("stripe %s", phase))
	}
}

func (c *Client) mapStripeError(err error, op string) error {
	if err == nil {
		return nil
	}
	var apiErr *stripe.Error
	if errors.As(err, &apiErr) {
		return pkgerrors.Wrap(domainCodeForStatus(apiErr.HTTPStatusCode), err, fmt.Sprintf("stripe %s failed", op))
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("stripe %s failed", op))
}

func domainCodeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	case http.StatusTooManyRequests:
		return pkgerrors.CodeRateLimit
	case http.StatusBadRequest:
		return pkgerrors.CodeValidation
	default:
		if status >= 400 && status < 500 {
			return pkgerrors.CodeValidation
		}
		return pkgerrors.CodeDependency
	}
}

func normalizeEnv(raw string) (string, error) {
	env := strings.TrimSpace(strings.ToLower(raw))
	if env == "" {
		env = testEnv
	}
	switch env {
	case testEnv, liveEnv:
		return env, nil
	default:
		return "", errInvalidStripeEnv
	}
}

func validateAPIKey(env, key string) error {
	switch env {
	case testEnv:
		if strings.HasPrefix(key, "sk_test") || strings.HasPrefix(key, "rk_test") {
			return nil
		}
		return fmt.Errorf("stripe environment %q requires a test secret key (sk_test/rk_test)", testEnv)
	case liveEnv:
		if strings.HasPrefix(key, "sk_live") || strings.HasPrefix(key, "rk_live") {
			return nil
		}
		return fmt.Errorf("stripe environment %q requires a live secret key (sk_live/rk_live)", liveEnv)
	default:
		return errInvalidStripeEnv
	}
}
