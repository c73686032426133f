package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// MeetingCodeRegex validates meeting code format
	MeetingCodeRegex = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

	// ParticipantIDRegex validates participant ID format
	ParticipantIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// ValidateMeetingCode validates a meeting code
func ValidateMeetingCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("meeting code is required")
	}
	if len(code) < 4 {
		return fmt.Errorf("meeting code must be at least 4 characters")
	}
	if len(code) > 32 {
		return fmt.Errorf("meeting code is too long (max 32 characters)")
	}
	if !MeetingCodeRegex.MatchString(code) {
		return fmt.Errorf("invalid meeting code format")
	}
	return nil
}

// ValidateParticipantID validates a participant ID
func ValidateParticipantID(id string) error {
	if id == "" {
		return fmt.Errorf("participant ID is required")
	}
	if len(id) > 100 {
		return fmt.Errorf("participant ID is too long (max 100 characters)")
	}
	if !ParticipantIDRegex.MatchString(id) {
		return fmt.Errorf("invalid participant ID format")
	}
	return nil
}

// ValidateDisplayName validates a participant display name
func ValidateDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("display name is required")
	}
	if utf8.RuneCountInString(name) > 64 {
		return fmt.Errorf("display name is too long (max 64 characters)")
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("display name contains invalid characters")
	}
	return nil
}

// ValidateNonEmptyString validates that string is not empty after trimming
func ValidateNonEmptyString(s, fieldName string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}
