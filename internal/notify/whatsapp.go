package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const whatsappBaseURL = "https://graph.facebook.com"

// WhatsAppSender delivers text messages through the WhatsApp Cloud API.
type WhatsAppSender struct {
	client        *http.Client
	token         string
	phoneNumberID string
	apiVersion    string
	logger        *zap.Logger
}

// NewWhatsAppSender constructs the sender. Returns nil when the token
// or phone number id is missing so callers can skip the provider.
func NewWhatsAppSender(token, phoneNumberID, apiVersion string, logger *zap.Logger) *WhatsAppSender {
	if token == "" || phoneNumberID == "" {
		return nil
	}
	if apiVersion == "" {
		apiVersion = "v22.0"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhatsAppSender{
		client:        &http.Client{Timeout: 15 * time.Second},
		token:         token,
		phoneNumberID: phoneNumberID,
		apiVersion:    apiVersion,
		logger:        logger,
	}
}

func (s *WhatsAppSender) Name() string { return "whatsapp" }

type whatsappText struct {
	Body string `json:"body"`
}

type whatsappMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             whatsappText `json:"text"`
}

// Send posts one text message to the Cloud API.
func (s *WhatsAppSender) Send(ctx context.Context, phone, message string) error {
	payload := whatsappMessage{
		MessagingProduct: "whatsapp",
		To:               phone,
		Type:             "text",
		Text:             whatsappText{Body: message},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal whatsapp message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s/messages", whatsappBaseURL, s.apiVersion, s.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build whatsapp request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send whatsapp message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		s.logger.Warn("whatsapp send rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", detail))
		return fmt.Errorf("whatsapp api status %d", resp.StatusCode)
	}
	return nil
}
