package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/verte-zerg/reflex/internal/model"
)

// Consent persists the cookie-consent choice.
type Consent struct {
	kv  KV
	log *zap.SugaredLogger
}

// NewConsent wraps kv.
func NewConsent(kv KV, log *zap.SugaredLogger) *Consent {
	return &Consent{kv: kv, log: log}
}

// Get returns the stored choice. ok is false until the user decides or when
// the stored value is unreadable.
func (c *Consent) Get() (model.Consent, bool) {
	raw, ok, err := c.kv.Get(context.Background(), ConsentKey)
	if err != nil {
		c.log.Warnw("failed to read consent", "key", ConsentKey, "error", err)
		return "", false
	}
	if !ok {
		return "", false
	}
	choice := model.Consent(raw)
	if !choice.Valid() {
		c.log.Warnw("ignoring unknown consent value", "value", raw)
		return "", false
	}
	return choice, true
}

// Set stores choice. Only invalid choices are reported; a failed write is logged.
func (c *Consent) Set(choice model.Consent) error {
	if !choice.Valid() {
		return fmt.Errorf("invalid consent %q (want %q or %q)", choice, model.ConsentAll, model.ConsentEssential)
	}
	if err := c.kv.Set(context.Background(), ConsentKey, string(choice)); err != nil {
		c.log.Warnw("failed to persist consent", "key", ConsentKey, "error", err)
	}
	return nil
}
