// internal/webhooks/handler.go
package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"shopbridge/pkg/config"
	"shopbridge/pkg/tenants"
	"shopbridge/pkg/validate"
)

// Topics delivered by the commerce platform.
const (
	TopicAppUninstalled      = "app/uninstalled"
	TopicShopRedact          = "shop/redact"
	TopicCustomersRedact     = "customers/redact"
	TopicCustomersDataExport = "customers/data_request"
)

const (
	hdrHmac  = "X-Webhook-Hmac-Sha256"
	hdrTopic = "X-Webhook-Topic"
	hdrShop  = "X-Webhook-Shop-Domain"
)

// RegisterRoutes mounts the platform webhook receiver. Deliveries are
// authenticated with an HMAC over the raw body; once authenticated the
// receiver always acknowledges with 200, because the platform retries any
// non-2xx delivery and these handlers must not amplify transient failures
// into retry storms. Internal cleanup errors are logged, not surfaced.
func RegisterRoutes(r chi.Router, cfg config.Config, store tenants.Store, log *zap.SugaredLogger) {
	secret := []byte(cfg.AppSharedSecret)
	r.Post("/webhooks", func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, 1<<20))
		if err != nil {
			http.Error(w, "body read failed", http.StatusBadRequest)
			return
		}
		if !verifyHmac(secret, body, req.Header.Get(hdrHmac)) {
			http.Error(w, "invalid hmac", http.StatusUnauthorized)
			return
		}
		topic := req.Header.Get(hdrTopic)
		shop, shopErr := validate.ShopDomain(req.Header.Get(hdrShop))

		switch topic {
		case TopicAppUninstalled:
			if shopErr != nil {
				log.Warnw("uninstall webhook without valid shop", "err", shopErr)
				break
			}
			if err := store.DeleteBinding(req.Context(), shop); err != nil {
				log.Errorw("uninstall cleanup failed", "shop", shop, "err", err)
			}
		case TopicShopRedact, TopicCustomersRedact, TopicCustomersDataExport:
			// The bridge holds no customer data; the binding itself is removed
			// on uninstall. Nothing to do beyond acknowledging.
			log.Infow("redaction webhook acknowledged", "topic", topic, "shop", shop)
		default:
			log.Warnw("unrecognized webhook topic", "topic", topic)
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
}

func verifyHmac(secret, body []byte, header string) bool {
	if header == "" {
		return false
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(header))
}
