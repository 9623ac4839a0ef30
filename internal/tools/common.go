package tools

import (
	"encoding/json"
	"log/slog"

	"goodfoods/internal/booking"
)

// decodeArgs fills v from the raw argument payload. An unparseable payload
// leaves v at its preset defaults instead of failing the invocation.
func decodeArgs(input string, v any) {
	if input == "" {
		return
	}
	if err := json.Unmarshal([]byte(input), v); err != nil {
		slog.Debug("tool arguments not parseable, using defaults", "error", err)
	}
}

func toJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		b, _ = json.Marshal(map[string]string{"error": "failed to serialize tool result"})
	}
	return string(b)
}

func errorJSON(msg string) string {
	return toJSON(map[string]string{"error": msg})
}

// rejection serializes a business-rule refusal originating in the tool
// itself, keeping it in the same error taxonomy as the booking checks.
func rejection(reason string) string {
	err := &booking.RejectionError{Reason: reason}
	return errorJSON(err.Error())
}

// List-shaped tools report errors and informational messages as a
// single-element array so the result shape stays uniform for the model.
func errorList(msg string) string {
	return toJSON([]map[string]string{{"error": msg}})
}

func messageList(msg string) string {
	return toJSON([]map[string]string{{"message": msg}})
}
