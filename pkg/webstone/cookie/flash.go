package cookie

import "strings"

// Flash messages travel as a single cookie value, separator-joined. The
// separator is printable so the joined value passes cookie validation.
const flashSeparator = "|"

// EncodeFlashMessages joins flash messages into one cookie value.
func EncodeFlashMessages(messages []string) string {
	// Strip separator occurrences from individual messages
	cleaned := make([]string, 0, len(messages))
	for _, m := range messages {
		cleaned = append(cleaned, strings.ReplaceAll(m, flashSeparator, " "))
	}

	return strings.Join(cleaned, flashSeparator)
}

// DecodeFlashMessages splits a flash cookie value back into messages.
func DecodeFlashMessages(value string) []string {
	if value == "" {
		return nil
	}

	return strings.Split(value, flashSeparator)
}
