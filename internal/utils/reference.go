package utils

import (
	"fmt"

	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
)

// FormatJobReference builds the human-readable job reference, e.g.
// "TF-2025-0042". Formatting is display only; uniqueness comes from the
// underlying sequence number.
func FormatJobReference(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq)
}

// FormatDocumentReference builds the display reference for a document
// number, e.g. "INV-0042" or "QTE-0042".
func FormatDocumentReference(kind domain.DocumentKind, number int64) string {
	var prefix string
	switch kind {
	case domain.KindInvoice:
		prefix = "INV"
	case domain.KindQuote:
		prefix = "QTE"
	case domain.KindGasCertificate:
		prefix = "CERT"
	default:
		prefix = "DOC"
	}
	return fmt.Sprintf("%s-%04d", prefix, number)
}
