package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// TimestampLayout is the on-disk format of every stored date-time.
const TimestampLayout = "2006-01-02 15:04:05"

// Timestamp is a time stored as "YYYY-MM-DD HH:MM:SS" text rather than RFC 3339.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to whole seconds, the precision of the stored format.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Truncate(time.Second)}
}

func (t Timestamp) String() string {
	return t.Format(TimestampLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: expected string: %w", err)
	}
	parsed, err := time.ParseInLocation(TimestampLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	t.Time = parsed
	return nil
}

const currencySymbol = "₫"

var currencyPrinter = message.NewPrinter(language.English)

// FormatCurrency renders a minor-unit amount with thousands separators and the
// currency glyph, e.g. 1500000 -> "1,500,000 ₫".
func FormatCurrency(amount int64) string {
	return currencyPrinter.Sprintf("%d %s", amount, currencySymbol)
}
