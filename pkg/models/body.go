package models

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"
)

// binaryPrefix marks bodies that could not be decoded as UTF-8 text. The
// remainder of the string is the raw payload in standard base64, so the
// placeholder is reversible.
const binaryPrefix = "base64:"

// DecodeBody converts raw transport bytes into the persisted body form:
// decoded JSON when the payload parses, the plain string when it is UTF-8
// text, and a reversible base64 placeholder otherwise.
func DecodeBody(raw []byte) any {
	if len(raw) == 0 {
		return ""
	}
	if !utf8.Valid(raw) {
		return binaryPrefix + base64.StdEncoding.EncodeToString(raw)
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err == nil {
		return decoded
	}
	return string(raw)
}

// EncodeBody is the inverse of DecodeBody. It reproduces the raw bytes a
// decoded body stands for.
func EncodeBody(body any) []byte {
	switch b := body.(type) {
	case nil:
		return nil
	case string:
		if strings.HasPrefix(b, binaryPrefix) {
			if raw, err := base64.StdEncoding.DecodeString(b[len(binaryPrefix):]); err == nil {
				return raw
			}
		}
		return []byte(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil
		}
		return data
	}
}

// IsBinaryBody reports whether the decoded body is the irreversible-to-text
// base64 placeholder.
func IsBinaryBody(body any) bool {
	s, ok := body.(string)
	return ok && strings.HasPrefix(s, binaryPrefix)
}

// BodyLength returns the textual length of a decoded body as a
// Content-Length value. Binary placeholders report false: their recorded
// length would not match the original payload.
func BodyLength(body any) (string, bool) {
	if IsBinaryBody(body) {
		return "", false
	}
	return strconv.Itoa(len(EncodeBody(body))), true
}
