//go:build !integration

package usecase

import (
	"strings"
	"testing"
	"time"

	"premium-access-service/internal/domain/model"
)

func TestGenerateAccessCode_Shape(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 1, 7, 15, 0, 0, time.Local)

	for i := 0; i < 500; i++ {
		code, err := generateAccessCode('W', now)
		if err != nil {
			t.Fatalf("generateAccessCode failed: %v", err)
		}
		if !model.ValidCodeFormat(code) {
			t.Fatalf("generated code %q fails format check", code)
		}
		if !strings.HasPrefix(code, "07W") {
			t.Fatalf("code %q: want prefix 07W", code)
		}
		for _, c := range code[3:] {
			if !strings.ContainsRune(codeAlphabet, c) {
				t.Fatalf("code %q: suffix char %q outside alphabet", code, c)
			}
		}
	}
}

func TestGenerateAccessCode_HourPadding(t *testing.T) {
	t.Parallel()

	for _, hour := range []int{0, 5, 10, 23} {
		now := time.Date(2025, 6, 1, hour, 0, 0, 0, time.Local)
		code, err := generateAccessCode('M', now)
		if err != nil {
			t.Fatalf("generateAccessCode failed: %v", err)
		}
		if got := model.CodeHour(code); got != hour {
			t.Errorf("CodeHour(%q) = %d, want %d", code, got, hour)
		}
		if len(code) != 6 {
			t.Errorf("code %q: len = %d, want 6", code, len(code))
		}
	}
}
