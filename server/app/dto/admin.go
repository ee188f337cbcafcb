package dto

type HealthResponse struct {
	Status    string `json:"status"`
	Root      string `json:"root"`
	FreeBytes uint64 `json:"free_bytes"`
}

type TransferResponse struct {
	ID         uint   `json:"id"`
	SessionID  string `json:"session_id"`
	Remote     string `json:"remote"`
	Verb       string `json:"verb"`
	SrcPath    string `json:"src_path,omitempty"`
	DstPath    string `json:"dst_path,omitempty"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	Bytes      int64  `json:"bytes"`
	DurationMs int64  `json:"duration_ms"`
	CreatedAt  int64  `json:"created_at"`
}

type WatchedPathResponse struct {
	Path        string `json:"path"`
	LastOp      string `json:"last_op"`
	LastEventAt int64  `json:"last_event_at"`
}
