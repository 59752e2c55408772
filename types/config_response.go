package types

// ConfigResponse is the JSON shape for GET /api/self/v1/config. The password is never echoed.
type ConfigResponse struct {
	Host               string `json:"host"`
	Port               int    `json:"port"`
	Username           string `json:"username"`
	PasswordSet        bool   `json:"password_set"`
	SOAPAction         string `json:"soap_action"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify"`
	TimeoutSeconds     int    `json:"timeout_seconds"`
	RequestsPerMinute  int    `json:"requests_per_minute"`
	MonitorEnabled     bool   `json:"monitor_enabled"`
	MonitorInterval    int    `json:"monitor_interval_seconds"`
}

// ConfigPatchRequest is the JSON body for PATCH /api/self/v1/config (partial update, all fields optional).
type ConfigPatchRequest struct {
	Host               *string `json:"host"`
	Port               *int    `json:"port"`
	Username           *string `json:"username"`
	Password           *string `json:"password"`
	SOAPAction         *string `json:"soap_action"`
	InsecureSkipVerify *bool   `json:"insecure_skip_verify"`
	TimeoutSeconds     *int    `json:"timeout_seconds"`
	RequestsPerMinute  *int    `json:"requests_per_minute"`
}
