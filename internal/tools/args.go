package tools

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

func stringArg(args map[string]any, key string) (string, bool) {
	value, ok := args[key].(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// decimalArg reads a numeric argument. JSON numbers decode as float64, but
// agents also pass quoted amounts, so strings holding a number are accepted.
func decimalArg(args map[string]any, key string) (decimal.Decimal, bool) {
	switch value := args[key].(type) {
	case float64:
		return decimal.NewFromFloat(value), true
	case int:
		return decimal.NewFromInt(int64(value)), true
	case json.Number:
		parsed, err := decimal.NewFromString(value.String())
		return parsed, err == nil
	case string:
		parsed, err := decimal.NewFromString(value)
		return parsed, err == nil
	default:
		return decimal.Zero, false
	}
}

// intArg reads an integer argument, falling back when the key is absent.
// A present-but-malformed value does not fall back; it reports failure so the
// tool can reject the invocation instead of silently using the default.
func intArg(args map[string]any, key string, fallback int) (int, bool) {
	raw, present := args[key]
	if !present {
		return fallback, true
	}
	switch value := raw.(type) {
	case float64:
		return int(value), true
	case int:
		return value, true
	case json.Number:
		parsed, err := value.Int64()
		return int(parsed), err == nil
	default:
		return 0, false
	}
}
