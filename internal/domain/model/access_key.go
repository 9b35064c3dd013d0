package model

import (
	"regexp"
	"time"

	"premium-access-service/internal/domain"
)

// Plan is the paid tier an access key unlocks.
type Plan string

const (
	PlanWeek  Plan = "week"
	PlanMonth Plan = "month"
)

// AnonymousUser is recorded as the consumer when a caller validates a
// key without supplying an identity.
const AnonymousUser = "anonymous"

// ParsePlan maps a request string onto a known plan.
func ParsePlan(s string) (Plan, error) {
	switch Plan(s) {
	case PlanWeek, PlanMonth:
		return Plan(s), nil
	default:
		return "", domain.ErrInvalidPlan
	}
}

// CodeLetter returns the single-character plan encoding embedded at
// position 2 of every issued code.
func (p Plan) CodeLetter() byte {
	if p == PlanMonth {
		return 'M'
	}
	return 'W'
}

// Duration is the validity window granted at issuance.
func (p Plan) Duration() time.Duration {
	if p == PlanMonth {
		return 30 * 24 * time.Hour
	}
	return 7 * 24 * time.Hour
}

// AccessKey is a single-use, short-lived code that gates paid-tier
// functionality. The code doubles as the primary key; once consumed the
// used flag never reverts.
type AccessKey struct {
	Code      string     `json:"code"`
	Plan      Plan       `json:"plan"`
	PlanCode  string     `json:"plan_code"`
	ExpiresAt time.Time  `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
	Used      bool       `json:"used"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	UsedBy    *string    `json:"used_by,omitempty"`
}

// NewAccessKey builds a fresh unused record for a just-generated code.
func NewAccessKey(code string, plan Plan, issuedAt time.Time) *AccessKey {
	return &AccessKey{
		Code:      code,
		Plan:      plan,
		PlanCode:  string(plan.CodeLetter()),
		ExpiresAt: issuedAt.Add(plan.Duration()),
		CreatedAt: issuedAt,
	}
}

var codePattern = regexp.MustCompile(`^\d{2}[WM][A-Z0-9]{3}$`)

// ValidCodeFormat reports whether code is shaped like an issued key:
// two hour digits, a plan letter, three characters from A-Z0-9. The
// hour prefix must also be a real hour of day; codes like "99WAAA" are
// rejected here instead of leaking through to the hour comparison.
func ValidCodeFormat(code string) bool {
	if !codePattern.MatchString(code) {
		return false
	}
	return CodeHour(code) <= 23
}

// CodeHour returns the hour of day embedded in a well-formed code.
func CodeHour(code string) int {
	return int(code[0]-'0')*10 + int(code[1]-'0')
}
