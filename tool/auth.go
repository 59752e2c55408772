package tool

import "encoding/base64"

// BasicAuthorization returns the Authorization header value for the credentials.
// StdEncoding never wraps lines, so the value carries no trailing newline.
func BasicAuthorization(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}
