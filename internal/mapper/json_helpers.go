package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"
)

func toJSONMap(m map[string]interface{}) datatypes.JSON {
	if len(m) == 0 {
		return nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func fromJSONMap(j datatypes.JSON) map[string]interface{} {
	if len(j) == 0 {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(j, &m); err != nil {
		return nil
	}
	return m
}

func toJSONStringLists(m map[string][]string) datatypes.JSON {
	if len(m) == 0 {
		return nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func fromJSONStringLists(j datatypes.JSON) map[string][]string {
	if len(j) == 0 {
		return nil
	}
	var m map[string][]string
	if err := json.Unmarshal(j, &m); err != nil {
		return nil
	}
	return m
}

func toJSONStringSlice(s []string) datatypes.JSON {
	if len(s) == 0 {
		return nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func fromJSONStringSlice(j datatypes.JSON) []string {
	if len(j) == 0 {
		return nil
	}
	var s []string
	if err := json.Unmarshal(j, &s); err != nil {
		return nil
	}
	return s
}
