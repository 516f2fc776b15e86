package liveorders

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// flexibleId is an identifier the api sends either as a json number or as a string.
type flexibleId string

func (f *flexibleId) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		err := json.Unmarshal(data, &s)
		if err != nil {
			return err
		}
		*f = flexibleId(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	err := json.Unmarshal(data, &n)
	if err != nil {
		return fmt.Errorf("expected a string or a number, got %s", string(data))
	}
	*f = flexibleId(n.String())
	return nil
}

func (f flexibleId) Int64() (int64, error) {
	return strconv.ParseInt(string(f), 10, 64)
}
