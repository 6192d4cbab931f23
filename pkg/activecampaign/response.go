package activecampaign

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Envelope is the decoded JSON body returned by admin/api.php.
//
// Every response carries result_code (1 on success, 0 on failure) and
// result_message. Successful create actions also carry the new resource id.
type Envelope map[string]any

// Interpret decides whether the envelope reports success and extracts the
// created resource id.
//
// A falsy result_code yields a *RemoteRejection with the server's message.
// result_message is not required on success.
func Interpret(env Envelope) (int, error) {
	if !truthy(env["result_code"]) {
		message, _ := env["result_message"].(string)
		return 0, &RemoteRejection{Message: message}
	}

	raw, ok := env["id"]
	if !ok || raw == nil {
		return 0, ErrMissingID
	}

	id, err := toInt(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to read id from response: %w", err)
	}
	return id, nil
}

// isRejection reports whether env carries a result_code and it is falsy.
func isRejection(env Envelope) bool {
	code, ok := env["result_code"]
	return ok && !truthy(code)
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case float64:
		return t != 0
	case int:
		return t != 0
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f != 0
		}
		return t != ""
	default:
		return true
	}
}

func toInt(v any) (int, error) {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n), nil
		}
		f, err := t.Float64()
		if err != nil {
			return 0, err
		}
		return integral(f)
	case float64:
		return integral(t)
	case int:
		return t, nil
	case string:
		return strconv.Atoi(t)
	default:
		return 0, fmt.Errorf("unexpected id type %T", v)
	}
}

func integral(f float64) (int, error) {
	if f != float64(int(f)) {
		return 0, fmt.Errorf("id %v is not an integer", f)
	}
	return int(f), nil
}
