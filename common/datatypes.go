package common

import (
	"encoding/json"

	"gorm.io/datatypes"
)

func JSONMap(in interface{}) datatypes.JSONMap {
	buf, _ := json.Marshal(in)
	var out datatypes.JSONMap
	json.Unmarshal(buf, &out)
	return out
}

// JSONValue wraps any marshalable value (object, array, scalar) for a
// JSON column. Unlike JSONMap it does not require an object at the top
// level, which place bounding boxes and media size maps need.
func JSONValue(in interface{}) datatypes.JSON {
	buf, _ := json.Marshal(in)
	return datatypes.JSON(buf)
}
