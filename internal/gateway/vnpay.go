// Package gateway implements the VNPay signed-URL protocol: building
// outbound payment-request URLs and verifying inbound signed callbacks.
//
// The gateway computes its signature over the exact same canonical string we
// do, so the sort-and-encode procedure here is a wire protocol. Any change to
// the encoding or ordering breaks every signature.
package gateway

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	version = "2.1.0"
	command = "pay"
	// CurrencyCode is the only currency the gateway settles in.
	CurrencyCode = "VND"

	paramSecureHash     = "vnp_SecureHash"
	paramSecureHashType = "vnp_SecureHashType"
	paramResponseCode   = "vnp_ResponseCode"

	createDateLayout = "20060102150405"
)

// Config carries the merchant credentials and endpoints. It is injected at
// construction, never read from ambient state.
type Config struct {
	TmnCode    string
	HashSecret string
	BaseURL    string
	ReturnURL  string
}

// Client builds and verifies signed gateway exchanges.
type Client struct {
	cfg Config
	now func() time.Time
}

func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg, now: time.Now}
}

// PaymentRequest describes one outbound payment URL.
type PaymentRequest struct {
	// Amount in whole VND; the wire carries it scaled by 100.
	Amount    int64
	TxnRef    string
	OrderInfo string
	ClientIP  string
	Locale    string // "vn" or "en"
	BankCode  string // optional; omitted when empty
}

// BuildPaymentURL constructs the full signed gateway URL for a payment.
func (c *Client) BuildPaymentURL(req PaymentRequest) (string, error) {
	if req.Amount <= 0 {
		return "", fmt.Errorf("payment amount must be positive, got %d", req.Amount)
	}
	if req.TxnRef == "" {
		return "", fmt.Errorf("transaction reference is required")
	}

	locale := req.Locale
	if locale == "" {
		locale = "vn"
	}

	params := map[string]string{
		"vnp_Version":    version,
		"vnp_Command":    command,
		"vnp_TmnCode":    c.cfg.TmnCode,
		"vnp_Amount":     fmt.Sprintf("%d", req.Amount*100),
		"vnp_CurrCode":   CurrencyCode,
		"vnp_TxnRef":     req.TxnRef,
		"vnp_OrderInfo":  req.OrderInfo,
		"vnp_OrderType":  "billpayment",
		"vnp_Locale":     locale,
		"vnp_ReturnUrl":  c.cfg.ReturnURL,
		"vnp_IpAddr":     req.ClientIP,
		"vnp_CreateDate": c.now().Format(createDateLayout),
	}
	if req.BankCode != "" {
		params["vnp_BankCode"] = req.BankCode
	}

	query := canonicalize(params)
	hash := c.sign(query)
	return fmt.Sprintf("%s?%s&%s=%s", c.cfg.BaseURL, query, paramSecureHash, hash), nil
}

// VerifyCallback checks the secure hash on an inbound callback parameter set.
// The hash fields are removed and the remaining parameters are re-signed with
// the same canonicalization the gateway used.
func (c *Client) VerifyCallback(params map[string]string) bool {
	received, ok := params[paramSecureHash]
	if !ok || received == "" {
		return false
	}

	rest := make(map[string]string, len(params))
	for k, v := range params {
		if k == paramSecureHash || k == paramSecureHashType {
			continue
		}
		rest[k] = v
	}

	expected := c.sign(canonicalize(rest))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(received)))
}

// Result is the interpreted outcome of a gateway response code.
type Result struct {
	Success bool
	Message string
}

var responseMessages = map[string]string{
	"00": "Transaction successful",
	"07": "Money deducted; transaction suspected of fraud",
	"09": "Card or account not registered for internet banking",
	"10": "Card or account verification failed more than 3 times",
	"11": "Payment window expired",
	"12": "Card or account is locked",
	"13": "Incorrect transaction authentication password (OTP)",
	"24": "Transaction cancelled by customer",
	"51": "Insufficient account balance",
	"65": "Account exceeded its daily transaction limit",
	"75": "Payment bank is under maintenance",
	"79": "Incorrect payment password entered too many times",
}

// Interpret maps a gateway response code to a success flag and a fixed
// human-readable message. Unknown codes map to a generic failure.
func Interpret(params map[string]string) Result {
	code := params[paramResponseCode]
	if msg, ok := responseMessages[code]; ok {
		return Result{Success: code == "00", Message: msg}
	}
	return Result{Success: false, Message: "Unknown error"}
}

// canonicalize percent-encodes every key and value, sorts entries by the
// encoded key, and joins them as key=value&... Values carry the
// space-as-plus convention. QueryEscape already encodes space as '+', which
// matches encodeURIComponent output with "%20" replaced by "+".
func canonicalize(params map[string]string) string {
	type pair struct{ key, value string }
	pairs := make([]pair, 0, len(params))
	for k, v := range params {
		pairs = append(pairs, pair{url.QueryEscape(k), url.QueryEscape(v)})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })

	var sb strings.Builder
	for i, p := range pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(p.key)
		sb.WriteByte('=')
		sb.WriteString(p.value)
	}
	return sb.String()
}

// sign computes the hex-encoded HMAC-SHA512 of data under the merchant secret.
func (c *Client) sign(data string) string {
	mac := hmac.New(sha512.New, []byte(c.cfg.HashSecret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}
