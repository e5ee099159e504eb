package razorpay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	rzpsdk "github.com/razorpay/razorpay-go"
	rzperrors "github.com/razorpay/razorpay-go/errors"

	"github.com/rohanverma/vastra-backend/pkg/config"
	pkgerrors "github.com/rohanverma/vastra-backend/pkg/errors"
	"github.com/rohanverma/vastra-backend/pkg/logger"
)

var (
	errKeyIDRequired     = errors.New("razorpay key id is required")
	errKeySecretRequired = errors.New("razorpay key secret is required")
	errLoggerRequired    = errors.New("razorpay logger is required")
)

// Client exposes Razorpay primitives with centralized auth, logging, and error mapping.
type Client struct {
	sdk       *rzpsdk.Client
	keyID     string
	keySecret string
	logger    *logger.Logger
}

// Order is the subset of a Razorpay order the platform consumes.
type Order struct {
	ID          string
	AmountMinor int64
	Currency    string
	Status      string
}

// Customer is the subset of a Razorpay customer the platform consumes.
type Customer struct {
	ID      string
	Name    string
	Contact string
	Email   string
}

// OrderCreateParams carries the inputs for order creation. Amount is in the
// currency's minor unit (paise for INR).
type OrderCreateParams struct {
	AmountMinor int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

// CustomerCreateParams carries the inputs for customer creation.
type CustomerCreateParams struct {
	Name    string
	Contact string
	Email   string
}

// NewClient initializes the Razorpay wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.RazorpayConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	keyID := strings.TrimSpace(cfg.KeyID)
	if keyID == "" {
		return nil, errKeyIDRequired
	}
	keySecret := strings.TrimSpace(cfg.KeySecret)
	if keySecret == "" {
		return nil, errKeySecretRequired
	}

	c := &Client{
		sdk:       rzpsdk.NewClient(keyID, keySecret),
		keyID:     keyID,
		keySecret: keySecret,
		logger:    logg,
	}

	logg.Info(ctx, "razorpay client initialized")
	return c, nil
}

// KeyID returns the public key the embedded widget is initialized with.
func (c *Client) KeyID() string {
	if c == nil {
		return ""
	}
	return c.keyID
}

// KeySecret returns the secret used for callback signature verification.
func (c *Client) KeySecret() string {
	if c == nil {
		return ""
	}
	return c.keySecret
}

// CreateOrder registers an order with the gateway and returns its reference.
func (c *Client) CreateOrder(ctx context.Context, params OrderCreateParams) (*Order, error) {
	data := map[string]interface{}{
		"amount":   params.AmountMinor,
		"currency": params.Currency,
	}
	if params.Receipt != "" {
		data["receipt"] = params.Receipt
	}
	if len(params.Notes) > 0 {
		notes := make(map[string]interface{}, len(params.Notes))
		for k, v := range params.Notes {
			notes[k] = v
		}
		data["notes"] = notes
	}

	c.log(ctx, "request", "create_order", map[string]any{
		"amount":   params.AmountMinor,
		"currency": params.Currency,
		"receipt":  params.Receipt,
	})

	body, err := c.sdk.Order.Create(data, nil)
	if err != nil {
		c.log(ctx, "error", "create_order", map[string]any{"error": err.Error()})
		return nil, c.mapRazorpayError(err, "create order")
	}

	order := orderFromBody(body)
	c.log(ctx, "response", "create_order", map[string]any{
		"order_id": order.ID,
		"status":   order.Status,
	})
	return order, nil
}

// CreateCustomer registers a customer keyed by contact number.
func (c *Client) CreateCustomer(ctx context.Context, params CustomerCreateParams) (*Customer, error) {
	data := map[string]interface{}{
		"name":          params.Name,
		"contact":       params.Contact,
		"fail_existing": "1",
	}
	if params.Email != "" {
		data["email"] = params.Email
	}

	c.log(ctx, "request", "create_customer", map[string]any{"contact": params.Contact})

	body, err := c.sdk.Customer.Create(data, nil)
	if err != nil {
		c.log(ctx, "error", "create_customer", map[string]any{"error": err.Error()})
		return nil, c.mapRazorpayError(err, "create customer")
	}

	customer := customerFromBody(body)
	c.log(ctx, "response", "create_customer", map[string]any{"customer_id": customer.ID})
	return customer, nil
}

// FindCustomerByContact scans the customer list for a matching contact number.
func (c *Client) FindCustomerByContact(ctx context.Context, contact string) (*Customer, error) {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact is required")
	}

	c.log(ctx, "request", "list_customers", map[string]any{"contact": contact})

	body, err := c.sdk.Customer.All(map[string]interface{}{"count": 100}, nil)
	if err != nil {
		c.log(ctx, "error", "list_customers", map[string]any{"error": err.Error()})
		return nil, c.mapRazorpayError(err, "list customers")
	}

	items, _ := body["items"].([]interface{})
	for _, raw := range items {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if normalizeContact(stringField(entry, "contact")) == normalizeContact(contact) {
			customer := customerFromBody(entry)
			c.log(ctx, "response", "list_customers", map[string]any{"customer_id": customer.ID})
			return customer, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "razorpay customer not found")
}

// IsConflict reports whether the error is a recoverable duplicate-resource failure.
func IsConflict(err error) bool {
	typed := pkgerrors.As(err)
	return typed != nil && typed.Code() == pkgerrors.CodeConflict
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
		logFields[k] = c.redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("razorpay %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("razorpay %s", phase))
	}
}

func (c *Client) redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"secret", "token", "email", "contact", "phone"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}

func (c *Client) mapRazorpayError(err error, op string) error {
	if err == nil {
		return nil
	}

	var badRequest *rzperrors.BadRequestError
	if errors.As(err, &badRequest) {
		msg := strings.ToLower(err.Error())
		switch {
		case strings.Contains(msg, "already exists"):
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, fmt.Sprintf("razorpay %s failed", op))
		case strings.Contains(msg, "authentication"), strings.Contains(msg, "api key"):
			return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, fmt.Sprintf("razorpay %s failed", op))
		default:
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("razorpay %s failed", op))
		}
	}

	var gatewayErr *rzperrors.GatewayError
	if errors.As(err, &gatewayErr) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("razorpay %s failed", op))
	}
	var serverErr *rzperrors.ServerError
	if errors.As(err, &serverErr) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("razorpay %s failed", op))
	}

	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("razorpay %s failed", op))
}

func orderFromBody(body map[string]interface{}) *Order {
	return &Order{
		ID:          stringField(body, "id"),
		AmountMinor: int64Field(body, "amount"),
		Currency:    stringField(body, "currency"),
		Status:      stringField(body, "status"),
	}
}

func customerFromBody(body map[string]interface{}) *Customer {
	return &Customer{
		ID:      stringField(body, "id"),
		Name:    stringField(body, "name"),
		Contact: stringField(body, "contact"),
		Email:   stringField(body, "email"),
	}
}

func stringField(body map[string]interface{}, key string) string {
	if v, ok := body[key].(string); ok {
		return v
	}
	return ""
}

func int64Field(body map[string]interface{}, key string) int64 {
	switch v := body[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}

func normalizeContact(contact string) string {
	contact = strings.TrimSpace(contact)
	contact = strings.TrimPrefix(contact, "+91")
	return contact
}
