// Package sanitize masks personal data in conversation text before it
// reaches logs or the persisted conversation memory. Users describing a
// renovation project routinely type their phone number, email, or
// address even when not asked for them.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// French mobile and landline numbers, with or without the +33
	// prefix, spaced or dotted ("06 12 34 56 78", "+33 6.12.34.56.78").
	frenchPhonePattern = regexp.MustCompile(`(?:\+33[\s.]?|0)[1-9](?:[\s.-]?\d{2}){4}`)

	// International numbers typed without separators.
	intlPhonePattern = regexp.MustCompile(`\+[1-9]\d{7,14}`)

	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// Secrets that can leak into logged error strings from HTTP clients.
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|secret|token|password)[=:\s"']*([\w-]{16,})`)
	bearerPattern = regexp.MustCompile(`(?i)bearer\s+[\w.-]+`)

	// French IBAN, as typed on invoices or quotes ("FR76 3000 ...").
	ibanPattern = regexp.MustCompile(`\bFR\d{2}(?:[\s]?[0-9A-Z]{4}){5,6}(?:[\s]?[0-9A-Z]{1,3})?\b`)
)

// Sanitizer masks sensitive data in free text.
type Sanitizer struct {
	patterns []patternConfig
}

type patternConfig struct {
	pattern     *regexp.Regexp
	replacement func(string) string
	enabled     bool
}

// Config selects which data classes get masked.
type Config struct {
	// MaskPhones masks French and international phone numbers.
	MaskPhones bool
	// MaskEmails masks email addresses.
	MaskEmails bool
	// MaskIBANs masks French bank account numbers.
	MaskIBANs bool
	// MaskSecrets masks API keys, tokens, and bearer headers.
	MaskSecrets bool
}

// DefaultConfig returns a configuration with all masking enabled.
func DefaultConfig() Config {
	return Config{
		MaskPhones:  true,
		MaskEmails:  true,
		MaskIBANs:   true,
		MaskSecrets: true,
	}
}

// New creates a Sanitizer with the given configuration.
func New(cfg Config) *Sanitizer {
	return &Sanitizer{
		patterns: []patternConfig{
			{pattern: frenchPhonePattern, replacement: maskPhone, enabled: cfg.MaskPhones},
			{pattern: intlPhonePattern, replacement: maskPhone, enabled: cfg.MaskPhones},
			{pattern: emailPattern, replacement: maskEmail, enabled: cfg.MaskEmails},
			{pattern: ibanPattern, replacement: maskIBAN, enabled: cfg.MaskIBANs},
			{pattern: apiKeyPattern, replacement: maskAPIKey, enabled: cfg.MaskSecrets},
			{pattern: bearerPattern, replacement: maskBearer, enabled: cfg.MaskSecrets},
		},
	}
}

// NewDefault creates a sanitizer with default configuration.
func NewDefault() *Sanitizer {
	return New(DefaultConfig())
}

// String masks all sensitive data found in input.
func (s *Sanitizer) String(input string) string {
	result := input
	for _, p := range s.patterns {
		if p.enabled {
			result = p.pattern.ReplaceAllStringFunc(result, p.replacement)
		}
	}
	return result
}

// Error masks sensitive data in an error message.
func (s *Sanitizer) Error(err error) string {
	if err == nil {
		return ""
	}
	return s.String(err.Error())
}

func maskPhone(phone string) string {
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits <= 4 {
		return "****"
	}
	// Keep the dialing prefix and the last two digits
	prefix := 2
	if strings.HasPrefix(phone, "+") {
		prefix = 3
	}
	return phone[:prefix] + strings.Repeat("*", 6) + phone[len(phone)-2:]
}

func maskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return "[email]"
	}
	if at <= 2 {
		return email[:1] + "***" + email[at:]
	}
	return email[:2] + "***" + email[at:]
}

func maskIBAN(iban string) string {
	clean := strings.ReplaceAll(iban, " ", "")
	if len(clean) < 8 {
		return "[iban]"
	}
	return clean[:4] + strings.Repeat("*", len(clean)-8) + clean[len(clean)-4:]
}

func maskAPIKey(match string) string {
	parts := apiKeyPattern.FindStringSubmatch(match)
	if len(parts) >= 2 {
		// Preserve the key name but mask the value
		prefix := strings.TrimSuffix(match, parts[len(parts)-1])
		return prefix + "[REDACTED]"
	}
	return "[REDACTED]"
}

func maskBearer(string) string {
	return "Bearer [REDACTED]"
}

// PartialMask masks the middle of a string, keeping the first and last
// N characters. Used for session identifiers in audit output.
func PartialMask(s string, keepStart, keepEnd int) string {
	if len(s) <= keepStart+keepEnd {
		return strings.Repeat("*", len(s))
	}
	return s[:keepStart] + strings.Repeat("*", len(s)-keepStart-keepEnd) + s[len(s)-keepEnd:]
}

// ID partially masks an identifier, showing first 4 and last 4 characters.
func ID(id string) string {
	return PartialMask(id, 4, 4)
}
