package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	ghctrl "github.com/m-mizutani/sheepdog/pkg/controller/github"
	"github.com/m-mizutani/sheepdog/pkg/utils/async"
)

// WebhookHandler handles GitHub App webhooks. Each accepted delivery runs as an independent invocation.
type WebhookHandler struct {
	secret    string
	processor *ghctrl.EventProcessor
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(secret string, processor *ghctrl.EventProcessor) *WebhookHandler {
	return &WebhookHandler{
		secret:    secret,
		processor: processor,
	}
}

// Handle verifies the delivery, acknowledges it and processes the event in background
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventType := github.WebHookType(r)
	deliveryID := github.DeliveryID(r)
	logger := ctxlog.From(ctx).With("event_type", eventType, "delivery_id", deliveryID)
	ctx = ctxlog.With(ctx, logger)
	r = r.WithContext(ctx)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, r, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	signature := r.Header.Get(github.SHA256SignatureHeader)
	if err := github.ValidateSignature(signature, body, []byte(h.secret)); err != nil {
		writeError(w, r, goerr.New("invalid signature", goerr.V("cause", err.Error())), http.StatusUnauthorized)
		return
	}

	if eventType == "" {
		writeError(w, r, goerr.New("event type header is missing"), http.StatusBadRequest)
		return
	}

	async.Dispatch(ctx, func(ctx context.Context) error {
		result, err := h.processor.ProcessEvent(ctx, eventType, body)
		if err != nil {
			return goerr.Wrap(err, "failed to process webhook event",
				goerr.V("event_type", eventType),
				goerr.V("delivery_id", deliveryID),
			)
		}
		if result != nil {
			ctxlog.From(ctx).Info("Webhook event processed",
				"labels_added", result.LabelsAdded,
				"actions", result.Actions,
			)
		}
		return nil
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status": "accepted",
	}); err != nil {
		logger.Error("Failed to encode success response", "error", err)
	}
}
