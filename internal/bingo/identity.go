package bingo

import (
	"fmt"
	"strconv"
	"strings"
)

// UserID identifies an account. Servers have been observed sending ids
// as JSON numbers and as strings; decoding canonicalizes both forms, so
// comparing two UserID values is always plain numeric equality. Zero
// means "no user" (e.g. a null winner_id).
type UserID int64

func (u *UserID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*u = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" {
		*u = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("user id %q: %w", s, err)
	}
	*u = UserID(n)
	return nil
}

// ParseUserID canonicalizes a stored string form, as kept by the
// TokenStore.
func ParseUserID(s string) (UserID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("user id %q: %w", s, err)
	}
	return UserID(n), nil
}

func (u UserID) String() string {
	return strconv.FormatInt(int64(u), 10)
}
