package api

// PeerCreateRequest — тело POST /peers. Оба поля опциональны: без ключа
// пару генерирует сервер, без адресов аллоцируется первый свободный /32
// из подсети интерфейса.
type PeerCreateRequest struct {
	PublicKey  string   `json:"public_key"`
	AllowedIPs []string `json:"allowed_ips"`
}

// PeerCreateResponse. PrivateKey отдаётся единственный раз и только
// когда пару сгенерировали мы.
type PeerCreateResponse struct {
	PublicKey  string   `json:"public_key"`
	AllowedIPs []string `json:"allowed_ips"`
	PrivateKey string   `json:"private_key,omitempty"`
}

type PeerConfigResponse struct {
	Config string `json:"config"`
	Note   string `json:"note"`
}

// CommandRequest — legacy POST /: произвольная shell-команда под токеном.
type CommandRequest struct {
	Token   string `json:"token"`
	Command string `json:"command"`
}

type CommandResponse struct {
	Status string `json:"status"`
}
