package admin

type BanRequest struct {
	Reason string `json:"reason"`
}
