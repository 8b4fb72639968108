package tables

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SyncEvent is the persisted record of one processed webhook delivery.
// Report holds the full per-step SyncReport as JSONB for diagnosis; the
// flat columns exist so operators can filter without unpacking it.
type SyncEvent struct {
	tableName  struct{}        `bun:"table:sync_events,alias:se"`
	ID         uuid.UUID       `bun:"id,pk,type:uuid" json:"id"`
	Topic      string          `bun:"topic,notnull" json:"topic"`
	ProductID  int64           `bun:"product_id,notnull" json:"product_id"`
	Handle     string          `bun:"handle" json:"handle,omitempty"`
	ShopDomain string          `bun:"shop_domain" json:"shop_domain,omitempty"`
	Outcome    string          `bun:"outcome,notnull" json:"outcome"`
	Report     json.RawMessage `bun:"report,type:jsonb" json:"report,omitempty"`
	CreatedAt  time.Time       `bun:"created_at,notnull,default:now()" json:"created_at"`
}
