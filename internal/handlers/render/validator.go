package render

import (
	"reflect"
	"strings"
)

// useJSONTagNames reports validation failures by the json field name
// instead of the Go struct field name
func useJSONTagNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	// skip if tag key says it should be ignored
	if name == "-" {
		return ""
	}
	return name
}
