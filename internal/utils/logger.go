package utils

import (
	"log"
	"strings"
)

// LogEvent prints one standardized line per notable action. Messages should be
// summaries; never log draft payloads, they carry passenger contact details.
func LogEvent(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	if req == "" {
		req = "-"
	}
	log.Printf("[%s] request_id=%s action=%s msg=%s", strings.ToUpper(module), req, action, message)
}
