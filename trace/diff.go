package trace

import (
	"encoding/json"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// Diff describes the register and stack changes from one step to another.
// It returns the empty string when the states are identical.
func Diff(from, to Step) (text string, err error) {
	left, err := json.Marshal(from.jsonState())
	if err != nil {
		return
	}

	right, err := json.Marshal(to.jsonState())
	if err != nil {
		return
	}

	differ := gojsondiff.New()
	delta, err := differ.Compare(left, right)
	if err != nil {
		return
	}

	if !delta.Modified() {
		return
	}

	var leftObj map[string]any
	err = json.Unmarshal(left, &leftObj)
	if err != nil {
		return
	}

	cfg := formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
	}
	text, err = formatter.NewAsciiFormatter(leftObj, cfg).Format(delta)

	return
}
