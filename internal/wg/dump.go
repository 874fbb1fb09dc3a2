package wg

import (
	"strings"

	"wgapi/internal/models"
)

// ParseDump разбирает вывод `wg show <iface> dump` в записи пиров.
// Строка пира: public_key preshared_key endpoint allowed_ips
// latest_handshake transfer_rx transfer_tx persistent_keepalive.
// Строки короче 8 полей (в т.ч. заголовок интерфейса — 4 поля) и строки,
// где первый токен не оканчивается на '=', молча пропускаются.
// Лишние поля за восьмым игнорируются. Пустой вход — пустая карта.
func ParseDump(raw string) map[string]models.Peer {
	peers := make(map[string]models.Peer)
	for _, line := range strings.Split(raw, "\n") {
		parts := strings.Fields(line)
		if len(parts) < 8 {
			continue
		}
		publicKey := parts[0]
		// слабая проверка: base64-ключ кончается на '='
		if !strings.HasSuffix(publicKey, "=") {
			continue
		}
		peers[publicKey] = models.Peer{
			PublicKey:           publicKey,
			PresharedKey:        parts[1],
			Endpoint:            parts[2],
			AllowedIPs:          strings.Split(parts[3], ","),
			LatestHandshake:     parts[4],
			TransferRx:          parts[5],
			TransferTx:          parts[6],
			PersistentKeepalive: parts[7],
		}
	}
	return peers
}
