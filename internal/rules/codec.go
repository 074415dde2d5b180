package rules

import "encoding/json"

// Encode serializes a rule set to its persisted textual form. The shape is
// stable: {"timeRules":[{"startHour":..}],"maxOpens":N,"maxTimeMs":N}.
func Encode(r AutoHideRules) string {
	data, err := json.Marshal(r)
	if err != nil {
		// A plain value struct cannot fail to marshal; keep the store sane anyway
		return "{}"
	}
	return string(data)
}

// Decode parses persisted rule text. The second return is false when the text
// is not a valid rule set; corrupt data reads as "no rules" rather than an
// error, because the caller must default to visible. Unknown fields are
// ignored so older builds can read newer rule text.
func Decode(text string) (AutoHideRules, bool) {
	if text == "" {
		return AutoHideRules{}, false
	}

	var r AutoHideRules
	if err := json.Unmarshal([]byte(text), &r); err != nil {
		return AutoHideRules{}, false
	}
	return r, true
}
