package quotation

import (
	"fmt"
	"strings"
)

// DefaultNumberPrefix is used when no quotation prefix is configured
const DefaultNumberPrefix = "Q"

// FormatNumber renders a quotation number such as Q-2025-007-SIR
func FormatNumber(prefix string, year, sequence int, resortCode string) string {
	if prefix == "" {
		prefix = DefaultNumberPrefix
	}
	if resortCode == "" {
		resortCode = UnknownResortCode
	}
	return fmt.Sprintf("%s-%d-%03d-%s", prefix, year, sequence, strings.ToUpper(resortCode))
}
