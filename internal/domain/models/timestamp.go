package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"facilities/internal/utils"
)

// Timestamp is a UTC instant persisted as RFC3339 text so both MySQL and SQLite compare it lexically.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Second)}
}

func Now() Timestamp {
	return Timestamp{Time: utils.NowUTC()}
}

func (t Timestamp) String() string {
	return utils.FormatTimestamp(t.Time)
}

func (t Timestamp) Value() (driver.Value, error) {
	return utils.FormatTimestamp(t.Time), nil
}

func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("timestamp: unsupported scan type %T", src)
	}
}

func (t *Timestamp) parse(s string) error {
	parsed, err := utils.ParseDateOrTimestamp(s)
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(utils.FormatTimestamp(t.Time))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		t.Time = time.Time{}
		return nil
	}
	return t.parse(s)
}
