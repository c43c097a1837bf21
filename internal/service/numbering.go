package service

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	invoicePrefix = "INV"
	orderPrefix   = "PO"
)

// documentNumber renders PREFIX-yyyyMMddHHmmss-XXXXXX. The random suffix keeps
// numbers unique when several documents are issued within the same second.
func documentNumber(prefix string, at time.Time) string {
	id := uuid.New()
	suffix := strings.ToUpper(hex.EncodeToString(id[:3]))
	return prefix + "-" + at.Format("20060102150405") + "-" + suffix
}
