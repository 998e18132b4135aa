// Package handler decodes Pub/Sub push deliveries and turns nearby
// events into FCM pushes.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"farmradar/config"
	deliverycontext "farmradar/internal/delivery/context"
	"farmradar/internal/domain/constants"
	"farmradar/internal/domain/entity"
	"farmradar/internal/domain/repository"
	"farmradar/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// PubSubMessage is the envelope Pub/Sub wraps around pushed messages.
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// retryableError marks failures worth a Pub/Sub redelivery, as opposed
// to malformed events that will never process no matter how often they
// come back.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.err)
}

func (e *retryableError) Unwrap() error {
	return e.err
}

func newRetryableError(err error) error {
	return &retryableError{err: err}
}

func isRetryableError(err error) bool {
	var re *retryableError

	return errors.As(err, &re)
}

// PushHandler handles Pub/Sub push messages carrying transition events
type PushHandler struct {
	verifyPushAuth   bool
	logger           *slog.Logger
	pushSvc          service.PushService
	deviceRepo       repository.DeviceRepository
	notificationRepo repository.NotificationRepository
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config           *config.Config
	Logger           *slog.Logger
	PushSvc          service.PushService
	DeviceRepo       repository.DeviceRepository
	NotificationRepo repository.NotificationRepository
}

// NewPushHandler creates a new Pub/Sub push handler. Token verification
// is only enforced when the Google provider runs outside development.
func NewPushHandler(params PushHandlerParams) *PushHandler {
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == constants.PubSubProviderGoogle &&
		params.Config.Env.Env != constants.EnvDevelop

	return &PushHandler{
		verifyPushAuth:   verifyPushAuth,
		logger:           params.Logger,
		pushSvc:          params.PushSvc,
		deviceRepo:       params.DeviceRepo,
		notificationRepo: params.NotificationRepo,
	}
}

// HandlePush is the push subscription endpoint. The status code is the
// ack protocol: 2xx acks the message, 503 asks Pub/Sub to redeliver.
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyPushAuth {
		if err := verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	pushMsg, event, err := h.decodeEvent(c)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	requestID := h.extractRequestID(ctx, pushMsg, event)
	reqLogger := h.logger.With(slog.String("request_id", requestID))

	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	reqLogger.Info("[Worker] Processing proximity event",
		slog.String("notification_id", event.NotificationID),
		slog.String("type", string(event.Type)),
		slog.String("vendor_id", event.VendorID),
		slog.String("consumer_id", event.ConsumerID),
		slog.Uint64("seq", event.Seq),
	)

	if err := h.processEvent(ctx, event); err != nil {
		reqLogger.Error("[Worker] Failed to process proximity event",
			slog.String("notification_id", event.NotificationID),
			slog.Any("error", err),
			slog.Bool("retryable", isRetryableError(err)),
		)
		// Acking a non-retryable failure keeps a poison message from
		// looping through the subscription forever.
		if isRetryableError(err) {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	}

	reqLogger.Info("[Worker] Proximity event processed",
		slog.String("notification_id", event.NotificationID),
	)

	return c.NoContent(http.StatusOK)
}

// decodeEvent unwraps the push envelope down to the proximity event.
func (h *PushHandler) decodeEvent(c echo.Context) (*PubSubMessage, *service.ProximityEvent, error) {
	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return nil, nil, err
	}

	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return nil, nil, err
	}

	var event service.ProximityEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error("[Worker] Failed to parse proximity event", slog.Any("error", err))

		return nil, nil, err
	}

	return &pushMsg, &event, nil
}

// extractRequestID resolves the trace ID, preferring message attributes
// over the event payload over whatever the HTTP middleware assigned.
func (h *PushHandler) extractRequestID(ctx context.Context, pushMsg *PubSubMessage, event *service.ProximityEvent) string {
	if requestID, ok := pushMsg.Message.Attributes["request_id"]; ok && requestID != "" {
		return requestID
	}

	if event.RequestID != "" {
		return event.RequestID
	}

	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

// processEvent delivers one transition event to the consumer's devices.
// Redelivery is expected under at-least-once semantics: the notification
// record keyed by the idempotency key makes it a no-op.
func (h *PushHandler) processEvent(ctx context.Context, event *service.ProximityEvent) error {
	notificationID, consumerID, err := h.parseEventIDs(event)
	if err != nil {
		return err
	}

	notification, err := h.notificationRepo.FindNotificationByID(ctx, notificationID)
	switch {
	case errors.Is(err, repository.ErrNotificationNotFound):
		// The publisher side failed to persist before publishing. Record the
		// event here so acknowledgement and history still work.
		notification, err = h.recordNotification(ctx, event, notificationID, consumerID)
		if err != nil {
			return err
		}
	case err != nil:
		return newRetryableError(errors.WithStack(err))
	}

	if notification.Delivered() {
		h.logger.Info("[Worker] Notification already delivered, skipping",
			slog.String("notification_id", event.NotificationID),
		)

		return nil
	}

	// Only nearby events reach consumer devices; departures and updates are
	// recorded for history and state sync.
	if event.Type != entity.EventVendorNearby {
		return h.markDelivered(ctx, notificationID)
	}

	devices, deviceMap, err := h.getDevicesForConsumer(ctx, consumerID, event.NotificationID)
	if err != nil {
		return err
	}

	if len(devices) == 0 {
		return nil
	}

	title, body, notificationData := h.prepareNotificationContent(event)
	tokens := h.collectTokens(devices)

	totalSent, totalFailed, invalidTokens, deliveryLogs := h.sendBatchedNotifications(
		ctx, tokens, deviceMap, title, body, notificationData, notificationID, consumerID,
	)

	h.cleanupInvalidTokens(ctx, invalidTokens, deviceMap)

	h.saveDeliveryResults(ctx, notificationID, deliveryLogs, totalSent, totalFailed, len(invalidTokens))

	return nil
}

func (h *PushHandler) parseEventIDs(event *service.ProximityEvent) (notificationID, consumerID uuid.UUID, err error) {
	notificationID, err = uuid.Parse(event.NotificationID)
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.WithStack(err)
	}

	consumerID, err = uuid.Parse(event.ConsumerID)
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.WithStack(err)
	}

	return notificationID, consumerID, nil
}

// recordNotification persists a notification row reconstructed from the event
func (h *PushHandler) recordNotification(ctx context.Context, event *service.ProximityEvent, notificationID, consumerID uuid.UUID) (*entity.ProximityNotification, error) {
	vendorID, err := uuid.Parse(event.VendorID)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	notification := &entity.ProximityNotification{
		ID:             notificationID,
		VendorID:       vendorID,
		ConsumerID:     consumerID,
		Kind:           event.Type,
		DistanceMeters: event.DistanceMeters,
		Seq:            event.Seq,
		CreatedAt:      event.Timestamp,
	}

	if err := h.notificationRepo.CreateNotification(ctx, notification); err != nil {
		if errors.Is(err, repository.ErrDuplicateNotification) {
			// A concurrent redelivery beat us to the insert.
			return notification, nil
		}

		return nil, newRetryableError(errors.WithStack(err))
	}

	return notification, nil
}

// markDelivered stamps delivery without a device push
func (h *PushHandler) markDelivered(ctx context.Context, notificationID uuid.UUID) error {
	if err := h.notificationRepo.MarkDelivered(ctx, notificationID, time.Now()); err != nil {
		return newRetryableError(errors.WithStack(err))
	}

	return nil
}

func (h *PushHandler) getDevicesForConsumer(ctx context.Context, consumerID uuid.UUID, notificationID string) ([]*entity.ConsumerDevice, map[string]*entity.ConsumerDevice, error) {
	devices, err := h.deviceRepo.FindDevicesByConsumer(ctx, consumerID)
	if err != nil {
		return nil, nil, newRetryableError(errors.WithStack(err))
	}

	if len(devices) == 0 {
		h.logger.Info("[Worker] No devices registered for consumer",
			slog.String("notification_id", notificationID),
			slog.String("consumer_id", consumerID.String()),
		)

		return nil, nil, nil
	}

	deviceMap := make(map[string]*entity.ConsumerDevice, len(devices))
	for _, device := range devices {
		deviceMap[device.FCMToken] = device
	}

	return devices, deviceMap, nil
}

func (h *PushHandler) collectTokens(devices []*entity.ConsumerDevice) []string {
	tokens := make([]string, 0, len(devices))
	for _, device := range devices {
		tokens = append(tokens, device.FCMToken)
	}

	return tokens
}

// prepareNotificationContent builds what the consumer sees on their
// lock screen plus the data payload the app consumes.
func (h *PushHandler) prepareNotificationContent(event *service.ProximityEvent) (title, body string, data map[string]string) {
	title = "Vendor nearby"
	body = fmt.Sprintf("%s is about %.0f m away", event.VendorName, event.DistanceMeters)
	if len(event.Products) > 0 {
		body = fmt.Sprintf("%s - %s", body, strings.Join(event.Products, ", "))
	}

	data = map[string]string{
		"notification_id": event.NotificationID,
		"type":            string(event.Type),
		"vendor_id":       event.VendorID,
		"vendor_name":     event.VendorName,
		"distance_meters": fmt.Sprintf("%f", event.DistanceMeters),
		"seq":             fmt.Sprintf("%d", event.Seq),
	}

	return title, body, data
}

// sendBatchedNotifications pushes in FCM-sized batches and builds one
// delivery log row per device.
func (h *PushHandler) sendBatchedNotifications(ctx context.Context, tokens []string, deviceMap map[string]*entity.ConsumerDevice, title, body string, data map[string]string, notificationID, consumerID uuid.UUID) (sent, failed int, invalidTokens []string, logs []*entity.DeliveryLog) {
	const batchSize = 500

	totalSent := 0
	totalFailed := 0
	var allInvalidTokens []string
	var deliveryLogs []*entity.DeliveryLog

	for idx := 0; idx < len(tokens); idx += batchSize {
		end := min(idx+batchSize, len(tokens))
		batch := tokens[idx:end]

		successCount, failureCount, batchInvalidTokens, sendErr := h.pushSvc.SendBatchNotification(
			ctx, batch, title, body, data,
		)

		if sendErr != nil {
			h.logger.Error("[Worker] Failed to send batch",
				slog.Int("batch_start", idx),
				slog.Int("batch_size", len(batch)),
				slog.Any("error", sendErr),
			)
			totalFailed += len(batch)

			for _, token := range batch {
				device, ok := deviceMap[token]
				if !ok || device == nil {
					continue
				}

				deliveryLogs = append(deliveryLogs, &entity.DeliveryLog{
					ID:             uuid.New(),
					NotificationID: notificationID,
					ConsumerID:     consumerID,
					DeviceID:       device.ID,
					Status:         "failed",
					ErrorMessage:   fmt.Sprintf("batch send error: %v", sendErr),
					SentAt:         time.Now(),
				})
			}

			continue
		}

		totalSent += successCount
		totalFailed += failureCount
		allInvalidTokens = append(allInvalidTokens, batchInvalidTokens...)

		for _, token := range batch {
			device, ok := deviceMap[token]
			if !ok || device == nil {
				continue
			}

			status := "sent"
			errorMsg := ""
			if slices.Contains(batchInvalidTokens, token) {
				status = "failed"
				errorMsg = "invalid or unregistered token"
			}

			deliveryLogs = append(deliveryLogs, &entity.DeliveryLog{
				ID:             uuid.New(),
				NotificationID: notificationID,
				ConsumerID:     consumerID,
				DeviceID:       device.ID,
				Status:         status,
				ErrorMessage:   errorMsg,
				SentAt:         time.Now(),
			})
		}
	}

	return totalSent, totalFailed, allInvalidTokens, deliveryLogs
}

// cleanupInvalidTokens drops device rows FCM reported as dead so the
// next event does not push into the void.
func (h *PushHandler) cleanupInvalidTokens(ctx context.Context, invalidTokens []string, deviceMap map[string]*entity.ConsumerDevice) {
	for _, token := range invalidTokens {
		if device, ok := deviceMap[token]; ok {
			if err := h.deviceRepo.DeleteDevice(ctx, device.ID); err != nil {
				h.logger.Warn("[Worker] Failed to delete invalid device",
					slog.String("device_id", device.ID.String()),
					slog.Any("error", err),
				)
			}
		}
	}
}

// saveDeliveryResults records delivery logs and stamps the notification
func (h *PushHandler) saveDeliveryResults(ctx context.Context, notificationID uuid.UUID, logs []*entity.DeliveryLog, sent, failed, invalidTokensCount int) {
	if len(logs) > 0 {
		if err := h.notificationRepo.BatchCreateDeliveryLogs(ctx, logs); err != nil {
			h.logger.Error("[Worker] Failed to create delivery logs", slog.Any("error", err))
		}
	}

	if sent > 0 {
		if err := h.notificationRepo.MarkDelivered(ctx, notificationID, time.Now()); err != nil {
			h.logger.Error("[Worker] Failed to mark notification delivered", slog.Any("error", err))
		}
	}

	h.logger.Info("[Worker] Notification sending completed",
		slog.String("notification_id", notificationID.String()),
		slog.Int("total_sent", sent),
		slog.Int("total_failed", failed),
		slog.Int("invalid_tokens", invalidTokensCount),
	)
}

// verifyPubSubToken validates the OIDC token Google attaches to push
// requests. https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	// The audience must match the URL of this push endpoint.
	scheme := "https"
	if req.TLS == nil {
		scheme = "http"
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	payload, err := idtoken.Validate(req.Context(), token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
