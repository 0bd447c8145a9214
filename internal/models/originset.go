package models

import (
	"time"

	"github.com/lib/pq"
)

// OriginSet is a named grouping of call-origin prefixes used to apply
// origin-dependent rate variations.
type OriginSet struct {
	ID        int            `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	Prefixes  pq.StringArray `db:"prefixes" json:"prefixes"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
}
