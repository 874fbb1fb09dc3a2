package models

import (
	"time"

	"gorm.io/datatypes"
)

// Peer — живая запись пира из `wg show <iface> dump`.
// Поля — сырые строки дампа, без семантической валидации (passthrough).
type Peer struct {
	PublicKey           string   `json:"public_key"`
	PresharedKey        string   `json:"preshared_key"`
	Endpoint            string   `json:"endpoint"`
	AllowedIPs          []string `json:"allowed_ips"`
	LatestHandshake     string   `json:"latest_handshake"`
	TransferRx          string   `json:"transfer_rx"`
	TransferTx          string   `json:"transfer_tx"`
	PersistentKeepalive string   `json:"persistent_keepalive"`
}

// RegistryPeer — строка реестра пиров в БД-варианте хранилища.
// Файловый вариант пишет тот же контент в peers.json.
type RegistryPeer struct {
	PublicKey  string         `gorm:"primaryKey;size:64" json:"public_key"`
	AllowedIPs datatypes.JSON `gorm:"not null" json:"allowed_ips"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
