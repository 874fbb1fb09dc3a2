package wg

import (
	"context"

	"wgapi/internal/models"
)

// Manager — всё, что остальной код знает о WireGuard-интерфейсе.
// Боевая реализация — CLI (wg/ip через subprocess), для тестов и
// dev-запусков без wg есть Memory.
type Manager interface {
	// Interface возвращает имя управляемого интерфейса (wg0).
	Interface() string

	// ListPeers — живые пиры из дампа. Ошибка команды поглощается:
	// пустая карта неотличима от «wg недоступен». Доступность отдельно
	// проверяет Probe.
	ListPeers(ctx context.Context) map[string]models.Peer

	// Probe — та же команда дампа, но с ошибкой наружу (для health).
	Probe(ctx context.Context) error

	// CreatePeer добавляет пира на интерфейс, затем в реестр.
	CreatePeer(ctx context.Context, publicKey string, allowedIPs []string) error

	// DeletePeer убирает пира с интерфейса, затем из реестра.
	DeletePeer(ctx context.Context, publicKey string) error

	// GenKeys возвращает свежую пару (private, public).
	GenKeys(ctx context.Context) (privateKey, publicKey string, err error)

	// InterfaceSubnet — CIDR адреса интерфейса ("10.13.13.1/24").
	InterfaceSubnet(ctx context.Context) (string, error)

	// InterfacePublicKey — публичный ключ интерфейса (для клиентских
	// конфигов).
	InterfacePublicKey(ctx context.Context) (string, error)

	// RestorePeers поднимает пиры из реестра на интерфейс; возвращает
	// число успешно восстановленных. Вызывается на старте процесса.
	RestorePeers(ctx context.Context) int
}
