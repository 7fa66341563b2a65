package archive

import (
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"
)

// ExtractJSON peels the javascript assignment wrapper off an archive
// record file. Export files look like:
//
//	window.YTD.account_creation_ip.part0 = [ ... ]
//
// Plain JSON content passes through unchanged.
func ExtractJSON(content []byte) (gjson.Result, error) {
	content = bytes.TrimSpace(content)
	if bytes.HasPrefix(content, []byte("window.")) {
		parts := bytes.SplitN(content, []byte(" = "), 2)
		if len(parts) != 2 {
			return gjson.Result{}, fmt.Errorf("archive: no assignment in window.* wrapper")
		}
		content = parts[1]
	}
	if !gjson.ValidBytes(content) {
		return gjson.Result{}, fmt.Errorf("archive: invalid json payload")
	}
	return gjson.ParseBytes(content), nil
}
